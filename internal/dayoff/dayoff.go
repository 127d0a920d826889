package dayoff

import (
	"time"

	"github.com/username/woffu-attendance-bot/pkg/dateutil"
)

// Reason explains why a date is not a working day
type Reason int

const (
	ReasonNone Reason = iota
	ReasonWeekend
	ReasonHoliday
	ReasonAbsence
)

func (r Reason) String() string {
	switch r {
	case ReasonWeekend:
		return "weekend"
	case ReasonHoliday:
		return "holiday"
	case ReasonAbsence:
		return "absence"
	default:
		return "working day"
	}
}

// Holiday is a company holiday. Only the calendar date matters.
type Holiday struct {
	Date time.Time
	Name string
}

// Absence is a leave or presence request spanning [StartDate, EndDate], both inclusive.
// Only requests with IsPresence == false mark a day off.
type Absence struct {
	StartDate  time.Time
	EndDate    time.Time
	IsFullDay  bool
	IsPresence bool
}

// Covers reports whether the absence makes date a day off
func (a Absence) Covers(date time.Time) bool {
	return !a.IsPresence && dateutil.InDayRange(date, a.StartDate, a.EndDate)
}

// Evaluate determines whether date is a day off and why.
// Rules are applied in order and the first match wins: weekend, holiday, absence.
// Dates are compared by calendar day, so un-truncated inputs are fine.
func Evaluate(date time.Time, holidays []Holiday, absences []Absence) (bool, Reason) {
	if dateutil.IsWeekend(date) {
		return true, ReasonWeekend
	}

	for _, holiday := range holidays {
		if dateutil.IsSameDay(holiday.Date, date) {
			return true, ReasonHoliday
		}
	}

	for _, absence := range absences {
		if absence.Covers(date) {
			return true, ReasonAbsence
		}
	}

	return false, ReasonNone
}

// IsDayOff reports whether date is a weekend, a holiday or inside an absence
func IsDayOff(date time.Time, holidays []Holiday, absences []Absence) bool {
	off, _ := Evaluate(date, holidays, absences)
	return off
}

// HolidayOn returns the holiday falling on date, if any
func HolidayOn(date time.Time, holidays []Holiday) (Holiday, bool) {
	for _, holiday := range holidays {
		if dateutil.IsSameDay(holiday.Date, date) {
			return holiday, true
		}
	}
	return Holiday{}, false
}
