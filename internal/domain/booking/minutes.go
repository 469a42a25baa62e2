package booking

import (
	"fmt"
	"strconv"
	"strings"
)

// Wall-clock times are carried as "HH:MM" strings at minute granularity.
// All interval arithmetic happens on minute offsets from midnight.

// ParseHHMM returns the minute offset from midnight for a "HH:MM" string.
func ParseHHMM(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid time %q", s)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid time %q", s)
	}

	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q", s)
	}

	return h*60 + m, nil
}

// FormatHHMM renders a minute offset back to "HH:MM".
func FormatHHMM(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// AddMinutes computes start + duration with minute rollover
// ("09:50" + 40 -> "10:30"). Results past midnight are rejected;
// a work window never crosses a day boundary.
func AddMinutes(hhmm string, duration int) (string, error) {
	start, err := ParseHHMM(hhmm)
	if err != nil {
		return "", err
	}

	end := start + duration
	if end >= 24*60 {
		return "", fmt.Errorf("time %q + %dmin crosses midnight", hhmm, duration)
	}

	return FormatHHMM(end), nil
}
