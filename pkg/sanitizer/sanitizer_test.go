package sanitizer

import (
	"strings"
	"testing"
)

func TestSanitizeFreeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims whitespace", "  changed my plans  ", "changed my plans"},
		{"collapses runs of whitespace", "no\t\tlonger   needed", "no longer needed"},
		{"strips control characters", "line1\x00\x1fline2", "line1 line2"},
		{"empty stays empty", "", ""},
		{"newlines become spaces", "first\nsecond", "first second"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFreeText(tt.input); got != tt.want {
				t.Errorf("SanitizeFreeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeFreeTextTruncates(t *testing.T) {
	long := strings.Repeat("a", 600)
	got := SanitizeFreeText(long)
	if len(got) != 500 {
		t.Errorf("SanitizeFreeText() length = %d, want 500", len(got))
	}
}
