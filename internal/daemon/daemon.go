package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/username/woffu-attendance-bot/internal/attendance"
	"github.com/username/woffu-attendance-bot/pkg/random"
	"go.uber.org/zap"
)

// Runner performs attendance actions
type Runner interface {
	Run(ctx context.Context, action attendance.Action) (*attendance.Result, error)
	Status(ctx context.Context, date time.Time) (*attendance.Status, error)
}

// Job is an action run once a day at a fixed time on some weekdays
type Job struct {
	Name   string
	Action attendance.Action
	Hour   int // 0-23
	Minute int // 0-59
	Days   []time.Weekday
}

// Options tunes the scheduler
type Options struct {
	Location   *time.Location // Schedule timezone. Default: local time
	Jitter     time.Duration  // Maximum random delay before a scheduled run
	SystemTray bool           // Show system tray icon (Windows only)
}

// Daemon represents the daemon process
type Daemon struct {
	runner     Runner
	jobs       []Job
	location   *time.Location
	jitter     time.Duration
	systemTray bool
	logger     *zap.Logger
	ctx        context.Context
	cancel     context.CancelFunc
	trayApp    *TrayApp
	lastRun    map[string]string // Job name -> date of the last dispatch, to run each job once a day
	lastMu     sync.Mutex
	mu         sync.Mutex // Serialises runs inside this process
	wg         sync.WaitGroup
}

// NewDaemon creates a new daemon instance
func NewDaemon(runner Runner, jobs []Job, opts Options, logger *zap.Logger) *Daemon {
	ctx, cancel := context.WithCancel(context.Background())

	location := opts.Location
	if location == nil {
		location = time.Local
	}

	return &Daemon{
		runner:     runner,
		jobs:       jobs,
		location:   location,
		jitter:     opts.Jitter,
		systemTray: opts.SystemTray,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		lastRun:    make(map[string]string),
	}
}

// Start starts the daemon and blocks until it is stopped
func (d *Daemon) Start() error {
	if len(d.jobs) == 0 {
		return fmt.Errorf("no scheduled jobs configured")
	}

	// Initialize system tray if enabled (Windows only)
	if d.systemTray {
		d.logger.Info("Initializing system tray")
		trayApp, err := NewTrayApp(d, d.logger)
		if err != nil {
			d.logger.Warn("Failed to initialize system tray", zap.Error(err))
			d.runScheduledLogic()
			return nil
		}
		d.trayApp = trayApp
		// Run tray (blocks until Quit)
		d.trayApp.Run()
		return nil
	}

	d.logger.Info("Running without system tray")
	d.runScheduledLogic()
	return nil
}

// Stop stops the daemon
func (d *Daemon) Stop() {
	d.cancel()
}

// runScheduledLogic runs the scheduler loop (called from tray or standalone)
func (d *Daemon) runScheduledLogic() {
	now := time.Now()
	for _, job := range d.jobs {
		d.logger.Info("Job scheduled",
			zap.String("job", job.Name),
			zap.String("time", fmt.Sprintf("%02d:%02d", job.Hour, job.Minute)),
			zap.String("timezone", d.location.String()),
			zap.Time("next_run", d.calculateNextRun(job, now)))
	}

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	// Check every minute if a job is due
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-d.ctx.Done():
			d.shutdown()
			return

		case sig := <-sigChan:
			d.logger.Info("Received signal, shutting down",
				zap.String("signal", sig.String()))
			d.Stop()
			d.shutdown()
			return

		case now := <-ticker.C:
			d.tick(now)
		}
	}
}

func (d *Daemon) shutdown() {
	d.wg.Wait()
	d.logger.Info("Daemon stopped")
	if d.trayApp != nil {
		d.trayApp.Stop()
	}
}

// tick dispatches every job due at now that has not run today yet
func (d *Daemon) tick(now time.Time) {
	for _, job := range d.jobs {
		if !d.shouldRunAt(job, now) {
			continue
		}
		if !d.markRun(job, now) {
			d.logger.Debug("Already ran today, skipping", zap.String("job", job.Name))
			continue
		}

		d.wg.Add(1)
		go func(job Job) {
			defer d.wg.Done()
			d.runJob(job)
		}(job)
	}
}

// markRun records the dispatch and reports false when the job already ran on that day
func (d *Daemon) markRun(job Job, now time.Time) bool {
	today := now.In(d.location).Format("2006-01-02")

	d.lastMu.Lock()
	defer d.lastMu.Unlock()

	if d.lastRun[job.Name] == today {
		return false
	}
	d.lastRun[job.Name] = today
	return true
}

// shouldRunAt checks if the job is scheduled at the given minute
func (d *Daemon) shouldRunAt(job Job, now time.Time) bool {
	local := now.In(d.location)
	return slices.Contains(job.Days, local.Weekday()) &&
		local.Hour() == job.Hour &&
		local.Minute() == job.Minute
}

// calculateNextRun calculates the next time the job is scheduled after now
func (d *Daemon) calculateNextRun(job Job, now time.Time) time.Time {
	local := now.In(d.location)
	for i := 0; i <= 7; i++ {
		day := local.AddDate(0, 0, i)
		candidate := time.Date(day.Year(), day.Month(), day.Day(), job.Hour, job.Minute, 0, 0, d.location)
		if candidate.After(local) && slices.Contains(job.Days, candidate.Weekday()) {
			return candidate
		}
	}
	return time.Time{}
}

// runJob waits a random jitter and runs the job's action
func (d *Daemon) runJob(job Job) {
	if delay := random.Jitter(d.jitter); delay > 0 {
		d.logger.Info("Delaying scheduled run",
			zap.String("job", job.Name),
			zap.Duration("delay", delay))

		timer := time.NewTimer(delay)
		select {
		case <-d.ctx.Done():
			timer.Stop()
			d.logger.Info("Scheduled run cancelled", zap.String("job", job.Name))
			return
		case <-timer.C:
		}
	}

	d.logger.Info("Starting scheduled run", zap.String("job", job.Name))
	d.run(job.Action)
}

// RunNow runs an action immediately (called from tray menu)
func (d *Daemon) RunNow(action attendance.Action) {
	d.logger.Info("Manual run triggered from tray", zap.String("action", action.String()))
	d.run(action)
}

func (d *Daemon) run(action attendance.Action) {
	d.mu.Lock()
	defer d.mu.Unlock()

	result, err := d.runner.Run(d.ctx, action)
	if err != nil {
		d.logger.Error("Run failed", zap.String("action", action.String()), zap.Error(err))
		if d.trayApp != nil {
			d.trayApp.ShowNotification("Woffu: failed", fmt.Sprintf("Error: %v", err))
		}
		return
	}

	d.logger.Info("Run completed",
		zap.String("action", action.String()),
		zap.String("outcome", result.Outcome.String()))
	if d.trayApp != nil {
		d.trayApp.ShowNotification("Woffu", result.Message())
	}
}

// StatusMessage returns a short human readable status for today
func (d *Daemon) StatusMessage() string {
	now := time.Now().In(d.location)
	status, err := d.runner.Status(d.ctx, now)
	if err != nil {
		return fmt.Sprintf("Status unavailable: %v", err)
	}

	message := fmt.Sprintf("Date: %s\nState: %s", now.Format("2006-01-02"), status.State)
	if status.DayOff {
		message += fmt.Sprintf("\nDay off: %s", status.Reason)
	}
	for _, job := range d.jobs {
		if next := d.calculateNextRun(job, now); !next.IsZero() {
			message += fmt.Sprintf("\nNext %s: %s", job.Name, next.Format("Mon 02 Jan 15:04"))
		}
	}
	return message
}
