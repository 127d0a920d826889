package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/username/woffu-attendance-bot/internal/woffu"
	"go.uber.org/zap"
)

// DefaultDeviceID is the device label sent with every sign
const DefaultDeviceID = "WebApp"

// SignStateSource returns the chronological sign history of the account
type SignStateSource interface {
	SignHistory(ctx context.Context) ([]woffu.Sign, error)
}

// SignSubmitter accepts a check-in or check-out
type SignSubmitter interface {
	SubmitSign(ctx context.Context, req woffu.SignRequest) error
}

// SignService is the remote source of truth for the sign state
type SignService interface {
	SignStateSource
	SignSubmitter
}

// SignState is the account's current sign state
type SignState struct {
	IsSignedIn bool
}

func (s SignState) String() string {
	if s.IsSignedIn {
		return "signed in"
	}
	return "signed out"
}

// StateFromHistory derives the sign state from the last event of the history.
// An empty history means signed out.
func StateFromHistory(signs []woffu.Sign) SignState {
	if len(signs) == 0 {
		return SignState{}
	}
	return SignState{IsSignedIn: signs[len(signs)-1].SignIn}
}

// Outcome is the result of a check request
type Outcome int

const (
	OutcomeSignedIn Outcome = iota + 1
	OutcomeSignedOut
	OutcomeAlreadySignedIn
	OutcomeAlreadySignedOut
	OutcomeDayOff
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSignedIn:
		return "signed in"
	case OutcomeSignedOut:
		return "signed out"
	case OutcomeAlreadySignedIn:
		return "already signed in"
	case OutcomeAlreadySignedOut:
		return "already signed out"
	case OutcomeDayOff:
		return "day off"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Skipped reports whether no sign was submitted
func (o Outcome) Skipped() bool {
	return o == OutcomeAlreadySignedIn || o == OutcomeAlreadySignedOut || o == OutcomeDayOff
}

// Coordinator submits check actions only when they change the remote sign state.
// It keeps no state of its own: the sign history is queried right before every decision.
type Coordinator struct {
	service  SignService
	deviceID string
	now      func() time.Time
	logger   *zap.Logger
}

// NewCoordinator creates a new coordinator
func NewCoordinator(service SignService, deviceID string, logger *zap.Logger) *Coordinator {
	if deviceID == "" {
		deviceID = DefaultDeviceID
	}

	return &Coordinator{
		service:  service,
		deviceID: deviceID,
		now:      time.Now,
		logger:   logger,
	}
}

// CurrentState queries the remote sign state
func (c *Coordinator) CurrentState(ctx context.Context) (SignState, error) {
	signs, err := c.service.SignHistory(ctx)
	if err != nil {
		return SignState{}, fmt.Errorf("failed to get sign state: %w", err)
	}
	return StateFromHistory(signs), nil
}

// Check performs the requested action unless the account is already in the target state
func (c *Coordinator) Check(ctx context.Context, kind CheckKind) (Outcome, error) {
	state, err := c.CurrentState(ctx)
	if err != nil {
		return 0, err
	}

	c.logger.Info("Current sign state",
		zap.Bool("signed_in", state.IsSignedIn),
		zap.String("requested", kind.String()))

	if kind.Kind == KindCheckOut && !state.IsSignedIn {
		c.logger.Info("Already signed out, skipping")
		return OutcomeAlreadySignedOut, nil
	}
	if kind.Kind.IsCheckIn() && state.IsSignedIn {
		c.logger.Info("Already signed in, skipping")
		return OutcomeAlreadySignedIn, nil
	}

	req := woffu.SignRequest{
		AgreementEventID: kind.AgreementID,
		DeviceID:         c.deviceID,
		TimezoneOffset:   woffu.TimezoneOffset(c.now()),
	}
	if err := c.service.SubmitSign(ctx, req); err != nil {
		return 0, fmt.Errorf("failed to %s: %w", kind.Kind, err)
	}

	if kind.Kind == KindCheckOut {
		return OutcomeSignedOut, nil
	}
	return OutcomeSignedIn, nil
}
