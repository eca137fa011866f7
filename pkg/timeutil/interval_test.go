package timeutil

import (
	"testing"
	"time"
)

func mustInterval(t *testing.T, start, end time.Time) Interval {
	t.Helper()
	iv, err := NewInterval(start, end)
	if err != nil {
		t.Fatalf("unexpected interval error: %v", err)
	}
	return iv
}

func TestNewInterval_RejectsInvertedRange(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	if _, err := NewInterval(now, now); err == nil {
		t.Errorf("expected error for zero-length interval")
	}
	if _, err := NewInterval(now, now.Add(-time.Minute)); err == nil {
		t.Errorf("expected error for inverted interval")
	}
	if _, err := NewInterval(now, now.Add(time.Minute)); err != nil {
		t.Errorf("unexpected error for valid interval: %v", err)
	}
}

func TestInterval_Overlaps(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	at := func(minutes int) time.Time { return base.Add(time.Duration(minutes) * time.Minute) }

	tests := []struct {
		name     string
		a, b     Interval
		overlaps bool
	}{
		{
			name:     "identical intervals",
			a:        mustInterval(t, at(0), at(30)),
			b:        mustInterval(t, at(0), at(30)),
			overlaps: true,
		},
		{
			name:     "partial overlap",
			a:        mustInterval(t, at(0), at(60)),
			b:        mustInterval(t, at(30), at(90)),
			overlaps: true,
		},
		{
			name:     "containment",
			a:        mustInterval(t, at(0), at(120)),
			b:        mustInterval(t, at(30), at(60)),
			overlaps: true,
		},
		{
			name:     "back to back slots do not overlap",
			a:        mustInterval(t, at(0), at(30)),
			b:        mustInterval(t, at(30), at(60)),
			overlaps: false,
		},
		{
			name:     "disjoint",
			a:        mustInterval(t, at(0), at(30)),
			b:        mustInterval(t, at(45), at(75)),
			overlaps: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.overlaps {
				t.Errorf("a.Overlaps(b) = %v, want %v", got, tt.overlaps)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.overlaps {
				t.Errorf("b.Overlaps(a) = %v, want %v (overlap must be symmetric)", got, tt.overlaps)
			}
		})
	}
}

func TestInterval_ContainsAndWithin(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	iv := mustInterval(t, base, base.Add(30*time.Minute))

	if !iv.Contains(base) {
		t.Errorf("expected half-open interval to include its start")
	}
	if iv.Contains(base.Add(30 * time.Minute)) {
		t.Errorf("expected half-open interval to exclude its end")
	}
	if !iv.Contains(base.Add(15 * time.Minute)) {
		t.Errorf("expected interval to contain midpoint")
	}

	outer := mustInterval(t, base.Add(-time.Hour), base.Add(time.Hour))
	if !iv.Within(outer) {
		t.Errorf("expected interval to lie within enclosing window")
	}
	if outer.Within(iv) {
		t.Errorf("did not expect enclosing window to lie within interval")
	}
	if !iv.Within(iv) {
		t.Errorf("expected interval to lie within itself")
	}
}

func TestClockMinutes(t *testing.T) {
	tests := []struct {
		clock   string
		minutes int
		wantErr bool
	}{
		{"09:00", 540, false},
		{"00:00", 0, false},
		{"23:59", 1439, false},
		{"18:30", 1110, false},
		{"24:00", 0, true},
		{"9:00", 0, true},
		{"09:60", 0, true},
		{"morning", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.clock, func(t *testing.T) {
			got, err := ClockMinutes(tt.clock)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.clock)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.minutes {
				t.Errorf("ClockMinutes(%q) = %d, want %d", tt.clock, got, tt.minutes)
			}
			if back := FormatClock(got); back != tt.clock {
				t.Errorf("FormatClock(%d) = %q, want %q", got, back, tt.clock)
			}
		})
	}
}

func TestAtClock_PreservesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)

	got := AtClock(date, 9*60+30)
	if got.Hour() != 9 || got.Minute() != 30 {
		t.Errorf("expected 09:30 wall clock, got %02d:%02d", got.Hour(), got.Minute())
	}
	if got.Location() != loc {
		t.Errorf("expected location %v, got %v", loc, got.Location())
	}
	if MinutesOfDay(got) != 9*60+30 {
		t.Errorf("MinutesOfDay mismatch: got %d", MinutesOfDay(got))
	}
}

func TestParseDurationMinutes(t *testing.T) {
	tests := []struct {
		raw     string
		minutes int
		wantErr bool
	}{
		{"30 minutes", 30, false},
		{"1 hour", 60, false},
		{"2 hours", 120, false},
		{"45 min", 45, false},
		{"90m", 90, false},
		{"1h", 60, false},
		{"  15 mins ", 15, false},
		{"90", 90, false},
		{"0 minutes", 0, true},
		{"an hour", 0, true},
		{"-30 minutes", 0, true},
		{"30 fortnights", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseDurationMinutes(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q, got %d", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.minutes {
				t.Errorf("ParseDurationMinutes(%q) = %d, want %d", tt.raw, got, tt.minutes)
			}
		})
	}
}
