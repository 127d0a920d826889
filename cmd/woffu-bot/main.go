package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/username/woffu-attendance-bot/internal/attendance"
	"github.com/username/woffu-attendance-bot/internal/config"
	"github.com/username/woffu-attendance-bot/internal/dayoff"
	"github.com/username/woffu-attendance-bot/internal/notify"
	"github.com/username/woffu-attendance-bot/internal/secret"
	"github.com/username/woffu-attendance-bot/internal/woffu"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configPath string
	logger     *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "woffu-bot",
		Short:        "Woffu attendance bot",
		Long:         "Check in and out of Woffu automatically, skipping weekends, holidays and absences",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load config to get log file path
			cfg, err := config.Load(configPath)
			if err == nil && cfg.Daemon.LogFile != "" {
				logger, err = initFileLogger(cfg.Daemon.LogFile, cfg.Daemon.LogLevel)
				if err != nil {
					initLogger() // Fallback to console
				}
			} else {
				initLogger() // Default console logger
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: search ./config.yaml, ~/.woffu-bot, /etc/woffu-bot)")

	rootCmd.AddCommand(checkCmd("checkin-home", "Check in from home", attendance.ActionCheckInHome))
	rootCmd.AddCommand(checkCmd("checkin-office", "Check in at the office", attendance.ActionCheckInOffice))
	rootCmd.AddCommand(checkCmd("checkout", "Check out", attendance.ActionCheckOut))
	rootCmd.AddCommand(checkCmd("checkin", "Check in at today's location from the weekday table", attendance.ActionScheduledCheckIn))
	rootCmd.AddCommand(daemonCmd())
	rootCmd.AddCommand(dayOffCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(secretCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads and validates config. Nothing touches the network before this succeeds.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	keyringErr := resolvePassword(cfg, secret.NewStore(), logger)

	if err := cfg.Validate(); err != nil {
		if keyringErr != nil && cfg.Woffu.Password == "" {
			return nil, fmt.Errorf("invalid config: %w (%v)", err, keyringErr)
		}
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// resolvePassword fills the password from the keyring and logs why a lookup failed
func resolvePassword(cfg *config.Config, lookup config.PasswordLookup, logger *zap.Logger) error {
	err := cfg.ResolvePassword(lookup)
	if err == nil {
		return nil
	}

	if errors.Is(err, secret.ErrNotFound) {
		logger.Debug("No password in keyring", zap.Error(err))
	} else {
		logger.Warn("Keyring unavailable", zap.Error(err))
	}
	return err
}

func initializeRunner(cfg *config.Config) (*attendance.Runner, error) {
	officeDays, err := cfg.CheckIn.GetOfficeDays()
	if err != nil {
		return nil, err
	}
	location, err := cfg.Schedule.GetLocation()
	if err != nil {
		return nil, err
	}

	authenticator := woffu.NewAuthenticator(
		cfg.Woffu.GetBaseURL(),
		woffu.Credentials{Email: cfg.Woffu.Email, Password: cfg.Woffu.Password},
		logger,
	)

	connect := func(ctx context.Context) (attendance.Service, error) {
		session, err := authenticator.Login(ctx)
		if err != nil {
			return nil, err
		}
		return woffu.NewClient(session, logger), nil
	}

	settings := attendance.Settings{
		HomeAgreementID:   cfg.CheckIn.HomeAgreementID,
		OfficeAgreementID: cfg.CheckIn.OfficeAgreementID,
		DeviceID:          cfg.CheckIn.DeviceID,
		Weekdays:          attendance.NewWeekdayTable(officeDays),
		Location:          location,
	}
	if cfg.Calendar.ExtraHolidaysFile != "" {
		logger.Info("Using extra holidays file", zap.String("file", cfg.Calendar.ExtraHolidaysFile))
		settings.ExtraHolidays = append(settings.ExtraHolidays,
			dayoff.NewFileHolidays(cfg.Calendar.ExtraHolidaysFile, logger))
	}

	var notifier attendance.Notifier = notify.Nop{}
	if cfg.Notify.DiscordWebhookURL != "" {
		notifier = notify.NewDiscord(cfg.Notify.DiscordWebhookURL, logger)
	}

	return attendance.NewRunner(connect, settings, notifier, logger), nil
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

func initLogger() {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10,   // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	// Setup encoder
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// Parse log level
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core), nil
}
