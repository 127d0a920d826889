package daemon

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/woffu-attendance-bot/internal/attendance"
	"github.com/username/woffu-attendance-bot/internal/dayoff"
	"go.uber.org/zap"
)

type fakeRunner struct {
	mu      sync.Mutex
	actions []attendance.Action
	err     error
	status  *attendance.Status
}

func (f *fakeRunner) Run(ctx context.Context, action attendance.Action) (*attendance.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
	if f.err != nil {
		return nil, f.err
	}
	return &attendance.Result{Kind: attendance.CheckOut(), Outcome: attendance.OutcomeSignedOut}, nil
}

func (f *fakeRunner) Status(ctx context.Context, date time.Time) (*attendance.Status, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.status, nil
}

var (
	madrid   = time.FixedZone("CEST", 2*60*60)
	workdays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
)

func testJobs() []Job {
	return []Job{
		{Name: "checkin", Action: attendance.ActionScheduledCheckIn, Hour: 9, Minute: 0, Days: workdays},
		{Name: "checkout", Action: attendance.ActionCheckOut, Hour: 18, Minute: 30, Days: workdays},
	}
}

func newTestDaemon(runner Runner) *Daemon {
	return NewDaemon(runner, testJobs(), Options{Location: madrid}, zap.NewNop())
}

func TestShouldRunAt(t *testing.T) {
	d := newTestDaemon(&fakeRunner{})
	checkin := d.jobs[0]

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"exact minute", time.Date(2025, 9, 15, 9, 0, 0, 0, madrid), true},
		{"later in the minute", time.Date(2025, 9, 15, 9, 0, 59, 0, madrid), true},
		{"next minute", time.Date(2025, 9, 15, 9, 1, 0, 0, madrid), false},
		{"other location same instant", time.Date(2025, 9, 15, 7, 0, 0, 0, time.UTC), true},
		{"saturday", time.Date(2025, 9, 20, 9, 0, 0, 0, madrid), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.shouldRunAt(checkin, tt.now))
		})
	}
}

func TestTick_RunsDueJobOncePerDay(t *testing.T) {
	runner := &fakeRunner{}
	d := newTestDaemon(runner)

	nineAM := time.Date(2025, 9, 15, 9, 0, 0, 0, madrid)
	d.tick(nineAM)
	d.tick(nineAM.Add(30 * time.Second))
	d.wg.Wait()

	assert.Equal(t, []attendance.Action{attendance.ActionScheduledCheckIn}, runner.actions)

	d.tick(nineAM.AddDate(0, 0, 1))
	d.wg.Wait()

	assert.Len(t, runner.actions, 2)
}

func TestTick_JobsAreIndependent(t *testing.T) {
	runner := &fakeRunner{}
	d := newTestDaemon(runner)

	for _, hm := range [][2]int{{9, 0}, {12, 0}, {18, 30}} {
		d.tick(time.Date(2025, 9, 15, hm[0], hm[1], 0, 0, madrid))
		d.wg.Wait()
	}

	assert.Equal(t, []attendance.Action{
		attendance.ActionScheduledCheckIn,
		attendance.ActionCheckOut,
	}, runner.actions)
}

func TestTick_FailureDoesNotRetrySameDay(t *testing.T) {
	runner := &fakeRunner{err: errors.New("woffu down")}
	d := newTestDaemon(runner)

	nineAM := time.Date(2025, 9, 15, 9, 0, 0, 0, madrid)
	d.tick(nineAM)
	d.wg.Wait()
	d.tick(nineAM)
	d.wg.Wait()

	assert.Len(t, runner.actions, 1)
}

func TestRunJob_CancelledDuringJitter(t *testing.T) {
	runner := &fakeRunner{}
	d := NewDaemon(runner, testJobs(), Options{Location: madrid, Jitter: time.Hour}, zap.NewNop())
	d.Stop()

	d.runJob(d.jobs[0])

	assert.Empty(t, runner.actions)
}

func TestCalculateNextRun(t *testing.T) {
	d := newTestDaemon(&fakeRunner{})
	checkin := d.jobs[0]

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"later today", time.Date(2025, 9, 15, 8, 0, 0, 0, madrid), time.Date(2025, 9, 15, 9, 0, 0, 0, madrid)},
		{"passed today", time.Date(2025, 9, 15, 9, 0, 0, 0, madrid), time.Date(2025, 9, 16, 9, 0, 0, 0, madrid)},
		{"friday evening skips weekend", time.Date(2025, 9, 19, 20, 0, 0, 0, madrid), time.Date(2025, 9, 22, 9, 0, 0, 0, madrid)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.calculateNextRun(checkin, tt.now)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}

	none := Job{Name: "never", Hour: 9}
	assert.True(t, d.calculateNextRun(none, time.Now()).IsZero())
}

func TestRunNow(t *testing.T) {
	runner := &fakeRunner{}
	d := newTestDaemon(runner)

	d.RunNow(attendance.ActionCheckOut)

	assert.Equal(t, []attendance.Action{attendance.ActionCheckOut}, runner.actions)
}

func TestStatusMessage(t *testing.T) {
	runner := &fakeRunner{status: &attendance.Status{
		State:  attendance.SignState{IsSignedIn: true},
		DayOff: true,
		Reason: dayoff.ReasonHoliday,
	}}
	d := newTestDaemon(runner)

	message := d.StatusMessage()

	assert.Contains(t, message, "State: signed in")
	assert.Contains(t, message, "Day off: holiday")
	assert.Contains(t, message, "Next checkin")

	runner.err = errors.New("unauthorized")
	assert.Contains(t, d.StatusMessage(), "Status unavailable")
}

func TestStart_NoJobs(t *testing.T) {
	d := NewDaemon(&fakeRunner{}, nil, Options{}, zap.NewNop())

	assert.Error(t, d.Start())
}

func TestGetClockIcon(t *testing.T) {
	icon := getClockIcon()
	require.Greater(t, len(icon), 22)

	var header [3]uint16
	require.NoError(t, binary.Read(bytes.NewReader(icon[:6]), binary.LittleEndian, &header))
	assert.Equal(t, [3]uint16{0, 1, 1}, header)

	img, err := png.Decode(bytes.NewReader(icon[22:]))
	require.NoError(t, err)
	assert.Equal(t, iconSize, img.Bounds().Dx())
}
