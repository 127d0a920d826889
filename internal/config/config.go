package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/username/woffu-attendance-bot/internal/woffu"
	"github.com/username/woffu-attendance-bot/pkg/dateutil"
)

// ErrMissingSetting is returned when a required setting is absent
var ErrMissingSetting = errors.New("missing required setting")

// Config represents application configuration
type Config struct {
	Woffu    WoffuConfig    `mapstructure:"woffu" yaml:"woffu"`
	CheckIn  CheckInConfig  `mapstructure:"checkin" yaml:"checkin"`
	Calendar CalendarConfig `mapstructure:"calendar" yaml:"calendar"`
	Schedule ScheduleConfig `mapstructure:"schedule" yaml:"schedule"`
	Notify   NotifyConfig   `mapstructure:"notify" yaml:"notify"`
	Daemon   DaemonConfig   `mapstructure:"daemon" yaml:"daemon"`
}

// WoffuConfig represents Woffu account configuration
type WoffuConfig struct {
	Company  string `mapstructure:"company" yaml:"company"`
	Email    string `mapstructure:"email" yaml:"email"`
	Password string `mapstructure:"password" yaml:"password"`
	BaseURL  string `mapstructure:"base_url" yaml:"base_url"` // Default: https://{company}.woffu.com
}

// CheckInConfig represents check-in locations
type CheckInConfig struct {
	HomeAgreementID   int64    `mapstructure:"home_agreement_id" yaml:"home_agreement_id"`
	OfficeAgreementID int64    `mapstructure:"office_agreement_id" yaml:"office_agreement_id"`
	OfficeDays        []string `mapstructure:"office_days" yaml:"office_days"` // Days checked in at the office by "checkin"
	DeviceID          string   `mapstructure:"device_id" yaml:"device_id"`
}

// CalendarConfig represents extra day-off sources
type CalendarConfig struct {
	ExtraHolidaysFile string `mapstructure:"extra_holidays_file" yaml:"extra_holidays_file"`
}

// ScheduleConfig represents daemon schedule
type ScheduleConfig struct {
	Timezone string    `mapstructure:"timezone" yaml:"timezone"`
	CheckIn  JobConfig `mapstructure:"checkin" yaml:"checkin"`
	CheckOut JobConfig `mapstructure:"checkout" yaml:"checkout"`
	Jitter   string    `mapstructure:"jitter" yaml:"jitter"`
}

// JobConfig is one daily job. An empty Time disables the job.
type JobConfig struct {
	Time string   `mapstructure:"time" yaml:"time"` // HH:MM in the schedule timezone
	Days []string `mapstructure:"days" yaml:"days"` // Default: monday to friday
}

// NotifyConfig represents notification configuration
type NotifyConfig struct {
	DiscordWebhookURL string `mapstructure:"discord_webhook_url" yaml:"discord_webhook_url"`
}

// DaemonConfig represents daemon mode configuration
type DaemonConfig struct {
	LogFile    string `mapstructure:"log_file" yaml:"log_file"`
	LogLevel   string `mapstructure:"log_level" yaml:"log_level"`
	SystemTray bool   `mapstructure:"system_tray" yaml:"system_tray"` // Show system tray icon (Windows only)
}

// PasswordLookup finds a stored password for an account
type PasswordLookup interface {
	Password(email string) (string, error)
}

var envBindings = map[string]string{
	"woffu.company":               "WOFFU_COMPANY",
	"woffu.email":                 "WOFFU_EMAIL",
	"woffu.password":              "WOFFU_PASSWORD",
	"woffu.base_url":              "WOFFU_BASE_URL",
	"checkin.home_agreement_id":   "WOFFU_HOME_AGREEMENT_ID",
	"checkin.office_agreement_id": "WOFFU_OFFICE_AGREEMENT_ID",
	"notify.discord_webhook_url":  "DISCORD_WEBHOOK_URL",
}

// Load loads configuration from the environment, an optional .env file and an optional config file.
// With an empty configPath the usual locations are searched and a missing file is not an error.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.woffu-bot")
		v.AddConfigPath("/etc/woffu-bot")
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.ExpandEnvVars()

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("checkin.device_id", "WebApp")
	v.SetDefault("schedule.checkin.days", []string{"monday", "tuesday", "wednesday", "thursday", "friday"})
	v.SetDefault("schedule.checkout.days", []string{"monday", "tuesday", "wednesday", "thursday", "friday"})
	v.SetDefault("daemon.log_level", "info")
}

// ResolvePassword fills an empty password from lookup and returns the lookup failure.
// On failure the password stays empty so Validate reports it.
func (c *Config) ResolvePassword(lookup PasswordLookup) error {
	if c.Woffu.Password != "" || c.Woffu.Email == "" || lookup == nil {
		return nil
	}

	password, err := lookup.Password(c.Woffu.Email)
	if err != nil {
		return fmt.Errorf("failed to look up keyring password: %w", err)
	}
	c.Woffu.Password = password

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate Woffu config
	if c.Woffu.Company == "" && c.Woffu.BaseURL == "" {
		return fmt.Errorf("%w: woffu.company (WOFFU_COMPANY)", ErrMissingSetting)
	}
	if c.Woffu.Email == "" {
		return fmt.Errorf("%w: woffu.email (WOFFU_EMAIL)", ErrMissingSetting)
	}
	if c.Woffu.Password == "" {
		return fmt.Errorf("%w: woffu.password (WOFFU_PASSWORD or keyring)", ErrMissingSetting)
	}

	// Validate CheckIn config
	if c.CheckIn.HomeAgreementID <= 0 {
		return fmt.Errorf("%w: checkin.home_agreement_id", ErrMissingSetting)
	}
	if c.CheckIn.OfficeAgreementID <= 0 {
		return fmt.Errorf("%w: checkin.office_agreement_id", ErrMissingSetting)
	}
	if _, err := c.CheckIn.GetOfficeDays(); err != nil {
		return fmt.Errorf("invalid checkin.office_days: %w", err)
	}

	// Validate Schedule config
	if _, err := c.Schedule.GetLocation(); err != nil {
		return fmt.Errorf("invalid schedule.timezone: %w", err)
	}
	if _, err := c.Schedule.GetJitter(); err != nil {
		return fmt.Errorf("invalid schedule.jitter: %w", err)
	}
	jobs := []struct {
		name string
		job  JobConfig
	}{{"checkin", c.Schedule.CheckIn}, {"checkout", c.Schedule.CheckOut}}
	for _, j := range jobs {
		name, job := j.name, j.job
		if !job.Enabled() {
			continue
		}
		if _, _, err := job.GetTime(); err != nil {
			return fmt.Errorf("invalid schedule.%s.time: %w", name, err)
		}
		if _, err := job.GetDays(); err != nil {
			return fmt.Errorf("invalid schedule.%s.days: %w", name, err)
		}
	}

	return nil
}

// GetBaseURL returns the Woffu base URL
func (c *WoffuConfig) GetBaseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return woffu.BaseURL(c.Company)
}

// GetOfficeDays returns the weekdays checked in at the office
func (c *CheckInConfig) GetOfficeDays() ([]time.Weekday, error) {
	return dateutil.ParseWeekdays(c.OfficeDays)
}

// GetLocation returns the schedule timezone. Default: local time
func (c *ScheduleConfig) GetLocation() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// GetJitter returns the maximum random delay before a scheduled run. Default: none
func (c *ScheduleConfig) GetJitter() (time.Duration, error) {
	if c.Jitter == "" {
		return 0, nil
	}
	duration, err := time.ParseDuration(c.Jitter)
	if err != nil {
		return 0, err
	}
	if duration < 0 {
		return 0, fmt.Errorf("negative duration %s", c.Jitter)
	}
	return duration, nil
}

// Enabled reports whether the job has a time configured
func (j *JobConfig) Enabled() bool {
	return j.Time != ""
}

// GetTime returns the job time as hour and minute (0-23, 0-59)
func (j *JobConfig) GetTime() (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(j.Time))
	if err != nil {
		return 0, 0, fmt.Errorf("expected HH:MM, got %q", j.Time)
	}
	return t.Hour(), t.Minute(), nil
}

// GetDays returns the weekdays the job runs on
func (j *JobConfig) GetDays() ([]time.Weekday, error) {
	return dateutil.ParseWeekdays(j.Days)
}

// ExpandEnvVars expands environment variables in config strings
func (c *Config) ExpandEnvVars() {
	c.Woffu.Company = os.ExpandEnv(c.Woffu.Company)
	c.Woffu.Email = os.ExpandEnv(c.Woffu.Email)
	c.Woffu.Password = os.ExpandEnv(c.Woffu.Password)
	c.Woffu.BaseURL = os.ExpandEnv(c.Woffu.BaseURL)
	c.Notify.DiscordWebhookURL = os.ExpandEnv(c.Notify.DiscordWebhookURL)
}

// Redacted returns a copy safe to print
func (c *Config) Redacted() Config {
	redacted := *c
	if redacted.Woffu.Password != "" {
		redacted.Woffu.Password = "********"
	}
	if redacted.Notify.DiscordWebhookURL != "" {
		redacted.Notify.DiscordWebhookURL = "********"
	}
	return redacted
}
