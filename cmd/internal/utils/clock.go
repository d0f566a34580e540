package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const MinutesPerDay = 24 * 60

var ErrInvalidClock = errors.New("invalid clock time, expected H:MM or H:MM:SS")

// ToMinutes converts "H:MM" or "H:MM:SS" into minutes since midnight.
// Empty or malformed input yields 0, which is indistinguishable from
// midnight; use ParseClock where that matters.
func ToMinutes(text string) int {
	minutes, err := ParseClock(text)
	if err != nil {
		return 0
	}
	return minutes
}

// ParseClock is the strict counterpart of ToMinutes. Seconds are accepted
// but ignored.
func ParseClock(text string) (int, error) {
	parts := strings.Split(strings.TrimSpace(text), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, ErrInvalidClock
	}

	hours, err := parseClockPart(parts[0], 23)
	if err != nil {
		return 0, err
	}
	if len(parts[1]) != 2 {
		return 0, ErrInvalidClock
	}
	minutes, err := parseClockPart(parts[1], 59)
	if err != nil {
		return 0, err
	}
	if len(parts) == 3 {
		if len(parts[2]) != 2 {
			return 0, ErrInvalidClock
		}
		if _, err := parseClockPart(parts[2], 59); err != nil {
			return 0, err
		}
	}
	return hours*60 + minutes, nil
}

func parseClockPart(part string, max int) (int, error) {
	if part == "" || len(part) > 2 {
		return 0, ErrInvalidClock
	}
	n, err := strconv.Atoi(part)
	if err != nil || n < 0 || n > max {
		return 0, ErrInvalidClock
	}
	return n, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// NormalizeClock rewrites a valid clock string into its canonical "HH:MM" form.
func NormalizeClock(text string) (string, error) {
	minutes, err := ParseClock(text)
	if err != nil {
		return "", err
	}
	return FormatClock(minutes), nil
}
