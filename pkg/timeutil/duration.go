package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var durationRegex = regexp.MustCompile(`^(\d+)\s*(minutes?|mins?|m|hours?|hrs?|h)?$`)

// ParseDurationMinutes converts a human duration string ("30 minutes",
// "1 hour", "45 min", bare "90") into a whole minute count. An unparseable or
// non-positive duration is a configuration error, never a fallback value.
func ParseDurationMinutes(raw string) (int, error) {
	m := durationRegex.FindStringSubmatch(strings.ToLower(strings.TrimSpace(raw)))
	if m == nil {
		return 0, fmt.Errorf("invalid duration %q, expected forms like \"30 minutes\" or \"1 hour\"", raw)
	}

	value, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", raw, err)
	}

	unit := m[2]
	if strings.HasPrefix(unit, "h") {
		value *= 60
	}

	if value <= 0 {
		return 0, fmt.Errorf("duration %q must be positive", raw)
	}
	return value, nil
}
