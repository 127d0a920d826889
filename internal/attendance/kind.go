package attendance

import (
	"fmt"
	"time"
)

// Kind is the type of check action
type Kind int

const (
	KindCheckInHome Kind = iota + 1
	KindCheckInOffice
	KindCheckOut
)

func (k Kind) String() string {
	switch k {
	case KindCheckInHome:
		return "check-in-home"
	case KindCheckInOffice:
		return "check-in-office"
	case KindCheckOut:
		return "check-out"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// IsCheckIn reports whether the kind signs in (either location)
func (k Kind) IsCheckIn() bool {
	return k == KindCheckInHome || k == KindCheckInOffice
}

// CheckKind is a check action together with the agreement identifier Woffu
// uses to tell check-in locations apart. Check-out carries no identifier.
type CheckKind struct {
	Kind        Kind
	AgreementID *int64
}

// CheckInHome returns a home check-in with the given agreement identifier
func CheckInHome(agreementID int64) CheckKind {
	return CheckKind{Kind: KindCheckInHome, AgreementID: &agreementID}
}

// CheckInOffice returns an office check-in with the given agreement identifier
func CheckInOffice(agreementID int64) CheckKind {
	return CheckKind{Kind: KindCheckInOffice, AgreementID: &agreementID}
}

// CheckOut returns a check-out
func CheckOut() CheckKind {
	return CheckKind{Kind: KindCheckOut}
}

func (c CheckKind) String() string {
	if c.AgreementID == nil {
		return c.Kind.String()
	}
	return fmt.Sprintf("%s(%d)", c.Kind, *c.AgreementID)
}

// WeekdayTable maps each weekday to the check-in location used by scheduled check-ins
type WeekdayTable map[time.Weekday]Kind

// NewWeekdayTable builds a table where officeDays check in at the office and every other day at home
func NewWeekdayTable(officeDays []time.Weekday) WeekdayTable {
	table := WeekdayTable{
		time.Sunday:    KindCheckInHome,
		time.Monday:    KindCheckInHome,
		time.Tuesday:   KindCheckInHome,
		time.Wednesday: KindCheckInHome,
		time.Thursday:  KindCheckInHome,
		time.Friday:    KindCheckInHome,
		time.Saturday:  KindCheckInHome,
	}
	for _, day := range officeDays {
		table[day] = KindCheckInOffice
	}
	return table
}

// KindFor returns the check-in kind for the weekday of date.
// Weekdays missing from the table check in at home.
func (t WeekdayTable) KindFor(date time.Time) Kind {
	if kind, ok := t[date.Weekday()]; ok && kind.IsCheckIn() {
		return kind
	}
	return KindCheckInHome
}
