package scheduling

import (
	"fmt"

	appErrors "github.com/floatlab/booking-api/pkg/errors"
)

// MinutesPerDay is the number of minutes in one calendar day.
const MinutesPerDay = 24 * 60

// ToMinutes parses a wall-clock "HH:MM" string into minutes since local
// midnight. Malformed input fails with INVALID_TIME_FORMAT; it is never
// coerced to midnight.
func ToMinutes(value string) (int, error) {
	if len(value) != 5 || value[2] != ':' {
		return 0, appErrors.Clone(appErrors.ErrInvalidTimeFormat, fmt.Sprintf("invalid time %q", value))
	}
	hours, ok := twoDigits(value[0], value[1])
	if !ok || hours > 23 {
		return 0, appErrors.Clone(appErrors.ErrInvalidTimeFormat, fmt.Sprintf("invalid time %q", value))
	}
	minutes, ok := twoDigits(value[3], value[4])
	if !ok || minutes > 59 {
		return 0, appErrors.Clone(appErrors.ErrInvalidTimeFormat, fmt.Sprintf("invalid time %q", value))
	}
	return hours*60 + minutes, nil
}

// FormatMinutes renders a minute offset as "HH:MM", wrapping past-midnight
// offsets back onto the 24-hour clock for display.
func FormatMinutes(total int) string {
	wrapped := ((total % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", wrapped/60, wrapped%60)
}

// NormalizedClose returns the close offset adjusted for windows that cross
// midnight. A close strictly before the open gets a full day added; equal
// offsets stay put and describe a zero-length window. All duration arithmetic
// must use this value, never the raw close offset.
func NormalizedClose(open, close int) int {
	if close < open {
		return close + MinutesPerDay
	}
	return close
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}
