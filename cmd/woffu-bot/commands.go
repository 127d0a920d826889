package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/woffu-attendance-bot/internal/attendance"
	"github.com/username/woffu-attendance-bot/internal/config"
	"github.com/username/woffu-attendance-bot/internal/daemon"
	"github.com/username/woffu-attendance-bot/internal/dayoff"
	"github.com/username/woffu-attendance-bot/pkg/dateutil"
	"go.uber.org/zap"
)

func checkCmd(use, short string, action attendance.Action) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			runner, err := initializeRunner(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd)
			defer cancel()

			result, err := runner.Run(ctx, action)
			if err != nil {
				return err
			}

			icon := "✅"
			if result.Outcome.Skipped() {
				icon = "⏭️"
			}
			fmt.Printf("%s %s\n", icon, result.Message())

			return nil
		},
	}
}

func daemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run scheduled check-in and check-out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			runner, err := initializeRunner(cfg)
			if err != nil {
				return err
			}

			jobs, err := buildJobs(&cfg.Schedule)
			if err != nil {
				return err
			}

			location, err := cfg.Schedule.GetLocation()
			if err != nil {
				return err
			}
			jitter, err := cfg.Schedule.GetJitter()
			if err != nil {
				return err
			}

			logger.Info("Starting daemon",
				zap.Int("jobs", len(jobs)),
				zap.Duration("jitter", jitter),
				zap.Bool("system_tray", cfg.Daemon.SystemTray))

			d := daemon.NewDaemon(runner, jobs, daemon.Options{
				Location:   location,
				Jitter:     jitter,
				SystemTray: cfg.Daemon.SystemTray,
			}, logger)

			return d.Start()
		},
	}
}

// buildJobs turns the schedule config into daemon jobs. Jobs without a time are disabled.
func buildJobs(schedule *config.ScheduleConfig) ([]daemon.Job, error) {
	entries := []struct {
		name   string
		action attendance.Action
		job    config.JobConfig
	}{
		{"checkin", attendance.ActionScheduledCheckIn, schedule.CheckIn},
		{"checkout", attendance.ActionCheckOut, schedule.CheckOut},
	}

	var jobs []daemon.Job
	for _, entry := range entries {
		if !entry.job.Enabled() {
			continue
		}

		hour, minute, err := entry.job.GetTime()
		if err != nil {
			return nil, fmt.Errorf("invalid schedule.%s.time: %w", entry.name, err)
		}
		days, err := entry.job.GetDays()
		if err != nil {
			return nil, fmt.Errorf("invalid schedule.%s.days: %w", entry.name, err)
		}

		jobs = append(jobs, daemon.Job{
			Name:   entry.name,
			Action: entry.action,
			Hour:   hour,
			Minute: minute,
			Days:   days,
		})
	}

	if len(jobs) == 0 {
		return nil, fmt.Errorf("no jobs scheduled: set schedule.checkin.time or schedule.checkout.time")
	}

	return jobs, nil
}

func dayOffCmd() *cobra.Command {
	var dateStr string

	cmd := &cobra.Command{
		Use:   "dayoff",
		Short: "Tell whether a date is a day off",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			location, err := cfg.Schedule.GetLocation()
			if err != nil {
				return err
			}

			date := time.Now().In(location)
			if dateStr != "" {
				parsed, err := dateutil.ParseDate(dateStr)
				if err != nil {
					return fmt.Errorf("invalid --date: %w", err)
				}
				date = parsed
			}

			runner, err := initializeRunner(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd)
			defer cancel()

			status, err := runner.Status(ctx, date)
			if err != nil {
				return err
			}

			fmt.Println(dayOffLine(status))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "Date to check (YYYY-MM-DD or DD.MM.YYYY, default today)")

	return cmd
}

func dayOffLine(status *attendance.Status) string {
	date := status.Date.Format("2006-01-02 Mon")
	if !status.DayOff {
		return fmt.Sprintf("%s: working day", date)
	}
	if status.Reason == dayoff.ReasonHoliday && status.Holiday != nil && status.Holiday.Name != "" {
		return fmt.Sprintf("%s: day off (%s: %s)", date, status.Reason, status.Holiday.Name)
	}
	return fmt.Sprintf("%s: day off (%s)", date, status.Reason)
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show today's sign state and day-off verdict",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			runner, err := initializeRunner(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd)
			defer cancel()

			location, err := cfg.Schedule.GetLocation()
			if err != nil {
				return err
			}

			now := time.Now().In(location)
			status, err := runner.Status(ctx, now)
			if err != nil {
				return err
			}

			kind, err := runner.KindFor(attendance.ActionScheduledCheckIn, now)
			if err != nil {
				return err
			}

			fmt.Println(renderStatus(status, kind))
			return nil
		},
	}
}
