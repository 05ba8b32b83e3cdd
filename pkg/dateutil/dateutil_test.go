package dateutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDDMMYYYY_ValidDates(t *testing.T) {
	tests := []struct {
		date    string
		weekday DayOfWeek
	}{
		{"10/06/2024", Monday},
		{"01/01/2024", Monday},
		{"29/02/2024", Thursday}, // leap year
		{"31/12/1999", Friday},
	}

	for _, tt := range tests {
		parsed, ok := ParseDDMMYYYY(tt.date)
		require.True(t, ok, "expected %s to parse", tt.date)
		assert.Equal(t, tt.weekday, DayOfWeekFromTime(parsed.Weekday()))
	}
}

func TestParseDDMMYYYY_RejectsInvalid(t *testing.T) {
	invalid := []string{
		"31/02/2023", // not a calendar date
		"29/02/2023", // not a leap year
		"00/01/2023",
		"32/01/2023",
		"10/13/2023",
		"1/06/2024",  // missing leading zero
		"10/6/2024",  // missing leading zero
		"10-06-2024", // wrong separator
		"2024/06/10", // wrong order
		"10/06/24",
		"",
		"garbage",
	}

	for _, s := range invalid {
		_, ok := ParseDDMMYYYY(s)
		assert.False(t, ok, "expected %q to be rejected", s)
		assert.False(t, IsValidDDMMYYYY(s))
	}
}

func TestRoundTrip_WireToISOAndBack(t *testing.T) {
	dates := []string{"10/06/2024", "01/01/2000", "29/02/2024", "31/12/1999", "05/09/2026"}

	for _, d := range dates {
		iso, err := DDMMYYYYToISO(d)
		require.NoError(t, err)

		back, err := ISOToDDMMYYYY(iso)
		require.NoError(t, err)
		assert.Equal(t, d, back)
	}
}

func TestISOToDDMMYYYY(t *testing.T) {
	wire, err := ISOToDDMMYYYY("2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, "10/06/2024", wire)

	_, err = ISOToDDMMYYYY("2023-02-31")
	assert.Error(t, err)

	_, err = ISOToDDMMYYYY("10/06/2024")
	assert.Error(t, err)
}

func TestWeekdayOf(t *testing.T) {
	day, ok := WeekdayOf("10/06/2024")
	require.True(t, ok)
	assert.Equal(t, Monday, day)

	day, ok = WeekdayOf("16/06/2024")
	require.True(t, ok)
	assert.Equal(t, Sunday, day)

	_, ok = WeekdayOf("31/02/2023")
	assert.False(t, ok)
}

func TestClockFromTimestamp(t *testing.T) {
	clock, err := ClockFromTimestamp("2024-06-10T14:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, "14:30", clock)

	clock, err = ClockFromTimestamp("2024-06-10T09:05:00+03:00")
	require.NoError(t, err)
	assert.Equal(t, "09:05", clock)

	_, err = ClockFromTimestamp("not-a-timestamp")
	assert.Error(t, err)
}

func TestTo12Hour(t *testing.T) {
	tests := map[string]string{
		"14:00": "2:00 PM",
		"00:30": "12:30 AM",
		"12:00": "12:00 PM",
		"09:15": "9:15 AM",
		"23:59": "11:59 PM",
	}

	for in, want := range tests {
		got, err := To12Hour(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := To12Hour("25:00")
	assert.Error(t, err)
}

func TestIsValidDayOfWeek(t *testing.T) {
	assert.True(t, IsValidDayOfWeek("MONDAY"))
	assert.True(t, IsValidDayOfWeek("SUNDAY"))
	assert.False(t, IsValidDayOfWeek("monday"))
	assert.False(t, IsValidDayOfWeek("FUNDAY"))
}
