package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// DateIn returns midnight in loc of the calendar day date shows on its own clock
func DateIn(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(date time.Time) bool {
	weekday := date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// IsSameDay returns true if two dates are on the same calendar day.
// Only year, month and day are compared; time of day and location are ignored.
func IsSameDay(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() &&
		date1.Month() == date2.Month() &&
		date1.Day() == date2.Day()
}

// CompareDays orders two dates by calendar day only: -1, 0 or +1.
func CompareDays(date1, date2 time.Time) int {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	switch {
	case y1 != y2:
		return sign(y1 - y2)
	case m1 != m2:
		return sign(int(m1) - int(m2))
	default:
		return sign(d1 - d2)
	}
}

// InDayRange reports whether date falls within [start, end] by calendar day.
func InDayRange(date, start, end time.Time) bool {
	return CompareDays(date, start) >= 0 && CompareDays(date, end) <= 0
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// ParseDate parses date string in various formats, in the local timezone
func ParseDate(dateStr string) (time.Time, error) {
	formats := []string{
		"2006-01-02",
		"02.01.2006",
		"02/01/2006",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05.000",
	}

	for _, format := range formats {
		if t, err := time.ParseInLocation(format, dateStr, time.Local); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", dateStr)
}

// ParseWeekday parses an English weekday name or its three-letter abbreviation
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// ParseWeekdays parses a list of weekday names
func ParseWeekdays(names []string) ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		day, err := ParseWeekday(name)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}
