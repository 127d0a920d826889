package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/username/woffu-attendance-bot/internal/dayoff"
	"github.com/username/woffu-attendance-bot/pkg/dateutil"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service is everything one run needs from Woffu
type Service interface {
	dayoff.HolidaySource
	Absences(ctx context.Context) ([]dayoff.Absence, error)
	SignService
}

// ConnectFunc authenticates and returns a service bound to the new session
type ConnectFunc func(ctx context.Context) (Service, error)

// Notifier delivers a human readable message about a run
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Action is what the caller asked for
type Action int

const (
	ActionCheckInHome Action = iota + 1
	ActionCheckInOffice
	ActionCheckOut
	// ActionScheduledCheckIn picks home or office from the weekday table
	ActionScheduledCheckIn
)

func (a Action) String() string {
	switch a {
	case ActionCheckInHome:
		return "checkin-home"
	case ActionCheckInOffice:
		return "checkin-office"
	case ActionCheckOut:
		return "checkout"
	case ActionScheduledCheckIn:
		return "checkin"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Settings holds the account specific values of a Runner
type Settings struct {
	HomeAgreementID   int64
	OfficeAgreementID int64
	DeviceID          string
	Weekdays          WeekdayTable
	// ExtraHolidays are merged with the remote holidays on every check-in
	ExtraHolidays []dayoff.HolidaySource
	// Location is the timezone whose calendar day decides day offs and the weekday table.
	// Default: local time
	Location *time.Location
}

// Result describes a finished run
type Result struct {
	RunID   string
	Kind    CheckKind
	Outcome Outcome
	// Reason is set when the run was skipped because of a day off
	Reason dayoff.Reason
	// Holiday is set when Reason is ReasonHoliday
	Holiday *dayoff.Holiday
}

// Message renders the result for notifications
func (r *Result) Message() string {
	switch r.Outcome {
	case OutcomeDayOff:
		if r.Holiday != nil && r.Holiday.Name != "" {
			return fmt.Sprintf("Skipped %s: %s (%s)", r.Kind.Kind, r.Reason, r.Holiday.Name)
		}
		return fmt.Sprintf("Skipped %s: %s", r.Kind.Kind, r.Reason)
	case OutcomeAlreadySignedIn, OutcomeAlreadySignedOut:
		return fmt.Sprintf("Skipped %s: %s", r.Kind.Kind, r.Outcome)
	default:
		return fmt.Sprintf("Done %s: %s", r.Kind.Kind, r.Outcome)
	}
}

// Status is a read-only snapshot of the account for one date
type Status struct {
	Date    time.Time
	State   SignState
	DayOff  bool
	Reason  dayoff.Reason
	Holiday *dayoff.Holiday
}

// Runner drives one invocation: authenticate, check for a day off, coordinate, notify
type Runner struct {
	connect  ConnectFunc
	settings Settings
	notifier Notifier
	now      func() time.Time
	logger   *zap.Logger
}

// NewRunner creates a new runner
func NewRunner(connect ConnectFunc, settings Settings, notifier Notifier, logger *zap.Logger) *Runner {
	if settings.Weekdays == nil {
		settings.Weekdays = NewWeekdayTable(nil)
	}
	if settings.Location == nil {
		settings.Location = time.Local
	}

	return &Runner{
		connect:  connect,
		settings: settings,
		notifier: notifier,
		now:      time.Now,
		logger:   logger,
	}
}

// KindFor resolves the check kind an action performs on the given date
func (r *Runner) KindFor(action Action, date time.Time) (CheckKind, error) {
	switch action {
	case ActionCheckInHome:
		return CheckInHome(r.settings.HomeAgreementID), nil
	case ActionCheckInOffice:
		return CheckInOffice(r.settings.OfficeAgreementID), nil
	case ActionCheckOut:
		return CheckOut(), nil
	case ActionScheduledCheckIn:
		if r.settings.Weekdays.KindFor(date) == KindCheckInOffice {
			return CheckInOffice(r.settings.OfficeAgreementID), nil
		}
		return CheckInHome(r.settings.HomeAgreementID), nil
	default:
		return CheckKind{}, fmt.Errorf("unknown action %d", int(action))
	}
}

// Run performs the action once. Skips are reported through the result, not as errors.
func (r *Runner) Run(ctx context.Context, action Action) (*Result, error) {
	now := r.localNow()
	kind, err := r.KindFor(action, now)
	if err != nil {
		return nil, err
	}

	result := &Result{RunID: uuid.NewString(), Kind: kind}
	logger := r.logger.With(
		zap.String("run_id", result.RunID),
		zap.String("kind", kind.String()))

	logger.Info("Starting run", zap.Time("now", now))

	result, err = r.run(ctx, result, now, logger)
	if err != nil {
		logger.Error("Run failed", zap.Error(err))
		r.notify(ctx, logger, fmt.Sprintf("Failed %s: %v", kind.Kind, err))
		return nil, err
	}

	logger.Info("Run finished", zap.String("outcome", result.Outcome.String()))
	r.notify(ctx, logger, result.Message())

	return result, nil
}

func (r *Runner) run(ctx context.Context, result *Result, now time.Time, logger *zap.Logger) (*Result, error) {
	service, err := r.connect(ctx)
	if err != nil {
		return nil, err
	}

	// Check-out is never blocked by a day off: an open shift must always be closable
	if result.Kind.Kind.IsCheckIn() {
		holidays, absences, err := r.fetchCalendar(ctx, service)
		if err != nil {
			return nil, err
		}

		if dayOff, reason := dayoff.Evaluate(now, holidays, absences); dayOff {
			logger.Info("Day off, skipping", zap.String("reason", reason.String()))
			result.Outcome = OutcomeDayOff
			result.Reason = reason
			if holiday, ok := dayoff.HolidayOn(now, holidays); ok && reason == dayoff.ReasonHoliday {
				result.Holiday = &holiday
			}
			return result, nil
		}
	}

	coordinator := NewCoordinator(service, r.settings.DeviceID, logger)
	coordinator.now = r.localNow

	outcome, err := coordinator.Check(ctx, result.Kind)
	if err != nil {
		return nil, err
	}
	result.Outcome = outcome

	return result, nil
}

// Status reports the sign state and the day-off verdict for date without submitting anything.
// Only the calendar day date shows on its own clock matters.
func (r *Runner) Status(ctx context.Context, date time.Time) (*Status, error) {
	date = dateutil.DateIn(date, r.settings.Location)

	service, err := r.connect(ctx)
	if err != nil {
		return nil, err
	}

	var (
		holidays []dayoff.Holiday
		absences []dayoff.Absence
		state    SignState
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		holidays, absences, err = r.fetchCalendar(gctx, service)
		return err
	})
	g.Go(func() error {
		var err error
		state, err = NewCoordinator(service, r.settings.DeviceID, r.logger).CurrentState(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	status := &Status{Date: date, State: state}
	status.DayOff, status.Reason = dayoff.Evaluate(date, holidays, absences)
	if holiday, ok := dayoff.HolidayOn(date, holidays); ok {
		status.Holiday = &holiday
	}

	return status, nil
}

// localNow is the current time in the configured location
func (r *Runner) localNow() time.Time {
	return r.now().In(r.settings.Location)
}

// fetchCalendar reads holidays and absences concurrently. Any failure aborts both.
// Dates come back as calendar days in the configured location.
func (r *Runner) fetchCalendar(ctx context.Context, service Service) ([]dayoff.Holiday, []dayoff.Absence, error) {
	sources := append([]dayoff.HolidaySource{service}, r.settings.ExtraHolidays...)
	holidaySource := dayoff.NewCompositeHolidays(r.logger, sources...)

	var (
		holidays []dayoff.Holiday
		absences []dayoff.Absence
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		holidays, err = holidaySource.Holidays(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		absences, err = service.Absences(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	loc := r.settings.Location
	local := make([]dayoff.Holiday, 0, len(holidays))
	for _, holiday := range holidays {
		holiday.Date = dateutil.DateIn(holiday.Date, loc)
		local = append(local, holiday)
	}
	localAbsences := make([]dayoff.Absence, 0, len(absences))
	for _, absence := range absences {
		absence.StartDate = dateutil.DateIn(absence.StartDate, loc)
		absence.EndDate = dateutil.DateIn(absence.EndDate, loc)
		localAbsences = append(localAbsences, absence)
	}

	return local, localAbsences, nil
}

func (r *Runner) notify(ctx context.Context, logger *zap.Logger, message string) {
	if r.notifier == nil {
		return
	}
	if err := r.notifier.Notify(ctx, message); err != nil {
		logger.Warn("Failed to send notification", zap.Error(err))
	}
}
