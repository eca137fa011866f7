package model

import (
	"testing"
	"time"
)

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to BookingStatus
		allowed  bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusConfirmed, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestBookingStatus_IsTerminal(t *testing.T) {
	if StatusPending.IsTerminal() || StatusConfirmed.IsTerminal() {
		t.Errorf("pending and confirmed must not be terminal")
	}
	if !StatusCancelled.IsTerminal() || !StatusCompleted.IsTerminal() {
		t.Errorf("cancelled and completed must be terminal")
	}
}

func TestDayWindow_On(t *testing.T) {
	w := DayWindow{Weekday: time.Monday, Start: "09:00", End: "10:00"}
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // a Monday

	iv, err := w.On(date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if iv.Start.Hour() != 9 || iv.End.Hour() != 10 {
		t.Errorf("expected 09:00-10:00, got %s", iv)
	}
	if iv.Duration() != time.Hour {
		t.Errorf("expected 1h window, got %s", iv.Duration())
	}
}

func TestDayWindow_On_InvalidClock(t *testing.T) {
	w := DayWindow{Weekday: time.Monday, Start: "morning", End: "10:00"}
	if _, err := w.On(time.Now()); err == nil {
		t.Errorf("expected error for malformed clock value")
	}
}

func TestResource_Location(t *testing.T) {
	r := &Resource{TimeZone: "Asia/Jerusalem"}
	if r.Location().String() != "Asia/Jerusalem" {
		t.Errorf("expected configured zone, got %s", r.Location())
	}

	r = &Resource{}
	if r.Location() != time.UTC {
		t.Errorf("expected UTC fallback for empty zone")
	}
}
