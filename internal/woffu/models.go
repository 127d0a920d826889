package woffu

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/username/woffu-attendance-bot/internal/dayoff"
)

// WoffuTime handles the timestamp formats returned by the Woffu API.
// Most endpoints return local datetimes without an offset: 2025-09-15T00:00:00.000
// Standard Go time.Time parsing requires an offset, so we need a custom unmarshaler
type WoffuTime struct {
	time.Time
}

var woffuTimeFormats = []string{
	"2006-01-02T15:04:05.000", // Main format: 2025-09-15T00:00:00.000
	"2006-01-02T15:04:05",     // Without milliseconds
	time.RFC3339Nano,          // Some sign endpoints include an offset
	"2006-01-02",              // Date only
}

// UnmarshalJSON implements json.Unmarshaler for WoffuTime
func (t *WoffuTime) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		t.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("WoffuTime: expected string, got %s", string(b))
	}

	for _, format := range woffuTimeFormats {
		parsed, err := time.ParseInLocation(format, s, time.Local)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}

	return fmt.Errorf("WoffuTime: unrecognized datetime %q", s)
}

// MarshalJSON implements json.Marshaler for WoffuTime
func (t WoffuTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format("2006-01-02T15:04:05.000"))
}

// Day truncates the timestamp to local midnight of its own calendar date.
// Woffu dates carry no meaningful time of day, so the hours are dropped at ingestion.
func (t WoffuTime) Day() time.Time {
	y, m, d := t.Time.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// CalendarEvent is an entry of /api/users/calendar-events/next
type CalendarEvent struct {
	Date WoffuTime `json:"Date"`
	Name string    `json:"Name"`
}

// Request is a leave or presence request from /api/users/requests/list
type Request struct {
	StartDate  WoffuTime `json:"StartDate"`
	EndDate    WoffuTime `json:"EndDate"`
	IsFullDay  bool      `json:"IsFullDay"`
	IsPresence bool      `json:"IsPresence"`
}

// Sign is a single sign event from /api/signs
type Sign struct {
	SignID           int64     `json:"SignId"`
	Date             WoffuTime `json:"Date"`
	SignIn           bool      `json:"SignIn"`
	AgreementEventID *int64    `json:"AgreementEventId"`
}

// SignRequest is the payload of a check-in or check-out.
// Null fields must be serialized as null, so nothing here uses omitempty.
type SignRequest struct {
	AgreementEventID *int64   `json:"agreementEventId"`
	RequestID        *string  `json:"requestId"`
	DeviceID         string   `json:"deviceId"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	TimezoneOffset   int      `json:"timezoneOffset"`
}

// ToHoliday converts a calendar event into a holiday record
func (e CalendarEvent) ToHoliday() dayoff.Holiday {
	return dayoff.Holiday{
		Date: e.Date.Day(),
		Name: e.Name,
	}
}

// ToAbsence converts a request into an absence interval
func (r Request) ToAbsence() dayoff.Absence {
	return dayoff.Absence{
		StartDate:  r.StartDate.Day(),
		EndDate:    r.EndDate.Day(),
		IsFullDay:  r.IsFullDay,
		IsPresence: r.IsPresence,
	}
}

// TimezoneOffset returns the offset of t in the browser convention used by Woffu:
// minutes to add to local time to reach UTC (UTC+2 is -120).
func TimezoneOffset(t time.Time) int {
	_, seconds := t.Zone()
	return -seconds / 60
}
