// Package dateutil holds the pure date/time conversions used at the platform
// API boundary. The wire format for dates is strictly dd/mm/yyyy; clock times
// travel as HH:mm strings.
package dateutil

import (
	"fmt"
	"regexp"
	"time"
)

const (
	// WireDateLayout is the dd/mm/yyyy format the platform API consumes
	WireDateLayout = "02/01/2006"

	// ISODateLayout is the yyyy-mm-dd format produced by date pickers
	ISODateLayout = "2006-01-02"

	clockLayout = "15:04"
)

// wireDatePattern rejects wrong separators and missing leading zeros before
// the calendar round-trip check runs.
var wireDatePattern = regexp.MustCompile(`^(0[1-9]|[12][0-9]|3[01])/(0[1-9]|1[0-2])/\d{4}$`)

// DayOfWeek is the weekday enum used by recurring schedules
type DayOfWeek string

const (
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
	Sunday    DayOfWeek = "SUNDAY"
)

var weekdayNames = map[time.Weekday]DayOfWeek{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

// DayOfWeekFromTime maps a time.Weekday to the schedule enum
func DayOfWeekFromTime(w time.Weekday) DayOfWeek {
	return weekdayNames[w]
}

// IsValidDayOfWeek reports whether s is one of the seven enum values
func IsValidDayOfWeek(s string) bool {
	for _, d := range weekdayNames {
		if string(d) == s {
			return true
		}
	}
	return false
}

// ParseDDMMYYYY parses a dd/mm/yyyy date string strictly. The pattern check
// catches malformed input; the component round-trip catches dates that match
// the pattern but do not exist on the calendar (31/02/2023).
func ParseDDMMYYYY(s string) (time.Time, bool) {
	if !wireDatePattern.MatchString(s) {
		return time.Time{}, false
	}

	t, err := time.Parse(WireDateLayout, s)
	if err != nil {
		return time.Time{}, false
	}

	// time.Parse normalizes overflowing components, so compare back
	if t.Format(WireDateLayout) != s {
		return time.Time{}, false
	}

	return t, true
}

// IsValidDDMMYYYY reports whether s is a real calendar date in wire format
func IsValidDDMMYYYY(s string) bool {
	_, ok := ParseDDMMYYYY(s)
	return ok
}

// ISOToDDMMYYYY converts a yyyy-mm-dd date to the dd/mm/yyyy wire format.
// The result is re-validated so an invalid picker value never reaches the API.
func ISOToDDMMYYYY(s string) (string, error) {
	t, err := time.Parse(ISODateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid ISO date %q: %w", s, err)
	}

	wire := t.Format(WireDateLayout)
	if !IsValidDDMMYYYY(wire) {
		return "", fmt.Errorf("invalid calendar date %q", s)
	}

	return wire, nil
}

// DDMMYYYYToISO converts a dd/mm/yyyy wire date to yyyy-mm-dd
func DDMMYYYYToISO(s string) (string, error) {
	t, ok := ParseDDMMYYYY(s)
	if !ok {
		return "", fmt.Errorf("invalid wire date %q", s)
	}
	return t.Format(ISODateLayout), nil
}

// WeekdayOf returns the schedule weekday of a dd/mm/yyyy date
func WeekdayOf(s string) (DayOfWeek, bool) {
	t, ok := ParseDDMMYYYY(s)
	if !ok {
		return "", false
	}
	return DayOfWeekFromTime(t.Weekday()), true
}

// ClockFromTimestamp extracts the HH:mm clock time from an RFC3339 timestamp
func ClockFromTimestamp(ts string) (string, error) {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return "", fmt.Errorf("invalid timestamp %q: %w", ts, err)
	}
	return t.Format(clockLayout), nil
}

// To12Hour converts a 24h HH:mm clock string to a 12h display string,
// e.g. "14:00" -> "2:00 PM"
func To12Hour(clock string) (string, error) {
	t, err := time.Parse(clockLayout, clock)
	if err != nil {
		return "", fmt.Errorf("invalid clock time %q: %w", clock, err)
	}
	return t.Format("3:04 PM"), nil
}
