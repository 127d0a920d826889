package dayoff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.Local)
}

func TestEvaluate_Example(t *testing.T) {
	holidays := []Holiday{
		{Date: day(2025, 12, 25), Name: "Christmas"},
		{Date: day(2025, 1, 1), Name: "New Year"},
	}
	absences := []Absence{
		{StartDate: day(2025, 9, 20), EndDate: day(2025, 9, 22), IsPresence: false},
	}

	tests := []struct {
		name       string
		date       time.Time
		absences   []Absence
		wantOff    bool
		wantReason Reason
	}{
		{"Sunday inside absence", day(2025, 9, 21), absences, true, ReasonWeekend},
		{"Monday inside absence", day(2025, 9, 22), absences, true, ReasonAbsence},
		{"Tuesday after absence", day(2025, 9, 23), absences, false, ReasonNone},
		{"Christmas", day(2025, 12, 25), absences, true, ReasonHoliday},
		{"Christmas Eve", day(2025, 12, 24), absences, false, ReasonNone},
		{
			"presence request",
			day(2025, 10, 1),
			[]Absence{{StartDate: day(2025, 10, 1), EndDate: day(2025, 10, 1), IsPresence: true}},
			false,
			ReasonNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			off, reason := Evaluate(tt.date, holidays, tt.absences)
			assert.Equal(t, tt.wantOff, off)
			assert.Equal(t, tt.wantReason, reason)
			assert.Equal(t, tt.wantOff, IsDayOff(tt.date, holidays, tt.absences))
		})
	}
}

func TestEvaluate_WeekendsAlwaysOff(t *testing.T) {
	for d := day(2025, 1, 1); d.Year() == 2025; d = d.AddDate(0, 0, 1) {
		off, reason := Evaluate(d, nil, nil)
		isWeekend := d.Weekday() == time.Saturday || d.Weekday() == time.Sunday

		assert.Equal(t, isWeekend, off, d.Format("2006-01-02 Mon"))
		if isWeekend {
			assert.Equal(t, ReasonWeekend, reason)
		}
	}
}

func TestEvaluate_HolidayIgnoresTimeOfDay(t *testing.T) {
	// Wednesday
	target := time.Date(2025, 5, 14, 9, 30, 0, 0, time.Local)

	tests := []struct {
		name    string
		holiday time.Time
		want    bool
	}{
		{"midnight", day(2025, 5, 14), true},
		{"late evening", time.Date(2025, 5, 14, 23, 59, 0, 0, time.Local), true},
		{"previous day", time.Date(2025, 5, 13, 23, 59, 0, 0, time.Local), false},
		{"next day", day(2025, 5, 15), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			off := IsDayOff(target, []Holiday{{Date: tt.holiday}}, nil)
			assert.Equal(t, tt.want, off)
		})
	}
}

func TestEvaluate_AbsenceBounds(t *testing.T) {
	// Tuesday 2025-03-04 .. Thursday 2025-03-06
	start := day(2025, 3, 4)
	end := day(2025, 3, 6)

	tests := []struct {
		name       string
		date       time.Time
		isPresence bool
		want       bool
	}{
		{"day before start", day(2025, 3, 3), false, false},
		{"start", start, false, true},
		{"strictly inside", time.Date(2025, 3, 5, 12, 0, 0, 0, time.Local), false, true},
		{"end", time.Date(2025, 3, 6, 18, 0, 0, 0, time.Local), false, true},
		{"day after end", day(2025, 3, 7), false, false},
		{"strictly inside presence", day(2025, 3, 5), true, false},
		{"start presence", start, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			absences := []Absence{{StartDate: start, EndDate: end, IsPresence: tt.isPresence}}
			assert.Equal(t, tt.want, IsDayOff(tt.date, nil, absences))
		})
	}
}

func TestEvaluate_UntruncatedAbsenceBounds(t *testing.T) {
	// Bounds carry time of day; the end day must still count as a whole day
	absences := []Absence{{
		StartDate: time.Date(2025, 3, 4, 15, 0, 0, 0, time.Local),
		EndDate:   time.Date(2025, 3, 6, 8, 0, 0, 0, time.Local),
	}}

	assert.True(t, IsDayOff(time.Date(2025, 3, 4, 9, 0, 0, 0, time.Local), nil, absences))
	assert.True(t, IsDayOff(time.Date(2025, 3, 6, 17, 0, 0, 0, time.Local), nil, absences))
	assert.False(t, IsDayOff(day(2025, 3, 7), nil, absences))
}

func TestEvaluate_ZeroLengthAbsence(t *testing.T) {
	absences := []Absence{{StartDate: day(2025, 3, 5), EndDate: day(2025, 3, 5)}}

	assert.True(t, IsDayOff(day(2025, 3, 5), nil, absences))
	assert.False(t, IsDayOff(day(2025, 3, 4), nil, absences))
	assert.False(t, IsDayOff(day(2025, 3, 6), nil, absences))
}

func TestEvaluate_PresenceDoesNotMaskAbsence(t *testing.T) {
	// A presence request overlapping an absence does not flip the result
	absences := []Absence{
		{StartDate: day(2025, 3, 5), EndDate: day(2025, 3, 5), IsPresence: true},
		{StartDate: day(2025, 3, 3), EndDate: day(2025, 3, 7), IsPresence: false},
	}

	off, reason := Evaluate(day(2025, 3, 5), nil, absences)
	assert.True(t, off)
	assert.Equal(t, ReasonAbsence, reason)
}

func TestEvaluate_OverlappingAbsences(t *testing.T) {
	absences := []Absence{
		{StartDate: day(2025, 3, 3), EndDate: day(2025, 3, 5)},
		{StartDate: day(2025, 3, 4), EndDate: day(2025, 3, 6)},
	}

	for d := 3; d <= 6; d++ {
		assert.True(t, IsDayOff(day(2025, 3, d), nil, absences))
	}
	assert.False(t, IsDayOff(day(2025, 3, 7), nil, absences))
}

func TestEvaluate_RuleOrder(t *testing.T) {
	// Saturday that is also a holiday and inside an absence reports the weekend
	saturday := day(2025, 3, 8)
	holidays := []Holiday{{Date: saturday}}
	absences := []Absence{{StartDate: saturday, EndDate: saturday}}

	_, reason := Evaluate(saturday, holidays, absences)
	assert.Equal(t, ReasonWeekend, reason)

	// Weekday holiday inside an absence reports the holiday
	friday := day(2025, 3, 7)
	_, reason = Evaluate(friday, []Holiday{{Date: friday}}, []Absence{{StartDate: friday, EndDate: friday}})
	assert.Equal(t, ReasonHoliday, reason)
}

func TestHolidayOn(t *testing.T) {
	holidays := []Holiday{{Date: day(2025, 12, 25), Name: "Christmas"}}

	h, ok := HolidayOn(time.Date(2025, 12, 25, 10, 0, 0, 0, time.Local), holidays)
	assert.True(t, ok)
	assert.Equal(t, "Christmas", h.Name)

	_, ok = HolidayOn(day(2025, 12, 26), holidays)
	assert.False(t, ok)
}

func TestReasonString(t *testing.T) {
	assert.Equal(t, "weekend", ReasonWeekend.String())
	assert.Equal(t, "holiday", ReasonHoliday.String())
	assert.Equal(t, "absence", ReasonAbsence.String())
	assert.Equal(t, "working day", ReasonNone.String())
}
