package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/username/calview/internal/calendar"
	"github.com/username/calview/pkg/dateutil"
)

// DefaultFallbackURL is the xmlcalendar.ru production calendar for a year
const DefaultFallbackURL = "https://xmlcalendar.ru/data/ru/{year}/calendar.json"

// Config represents application configuration
type Config struct {
	View        ViewConfig        `mapstructure:"view" yaml:"view"`
	Annotations AnnotationsConfig `mapstructure:"annotations" yaml:"annotations"`
	State       StateConfig       `mapstructure:"state" yaml:"state"`
	Watch       WatchConfig       `mapstructure:"watch" yaml:"watch"`
	Log         LogConfig         `mapstructure:"log" yaml:"log"`
}

// ViewConfig represents calendar layout configuration
type ViewConfig struct {
	FirstWeekday string `mapstructure:"first_weekday" yaml:"first_weekday"` // sunday..saturday or 0..6
	FirstHour    int    `mapstructure:"first_hour" yaml:"first_hour"`
	LastHour     int    `mapstructure:"last_hour" yaml:"last_hour"`
}

// AnnotationsConfig represents the annotation sources
type AnnotationsConfig struct {
	File           string       `mapstructure:"file" yaml:"file"`         // Line-format notes file
	ICSFile        string       `mapstructure:"ics_file" yaml:"ics_file"` // Local .ics file
	Timezone       string       `mapstructure:"timezone" yaml:"timezone"` // Zone for ICS times, empty for local
	MaxOccurrences int          `mapstructure:"max_occurrences" yaml:"max_occurrences"`
	DayOff         DayOffConfig `mapstructure:"dayoff" yaml:"dayoff"`
}

// DayOffConfig represents the isdayoff.ru production calendar source
type DayOffConfig struct {
	Enabled     bool   `mapstructure:"enabled" yaml:"enabled"`
	BaseURL     string `mapstructure:"base_url" yaml:"base_url,omitempty"`
	FallbackURL string `mapstructure:"fallback_url" yaml:"fallback_url"` // May contain {year}
	CacheTTL    string `mapstructure:"cache_ttl" yaml:"cache_ttl"`
}

// StateConfig represents view state storage configuration
type StateConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// WatchConfig represents watch mode configuration
type WatchConfig struct {
	Schedule string `mapstructure:"schedule" yaml:"schedule"` // Standard 5-field cron spec
	View     string `mapstructure:"view" yaml:"view"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file" yaml:"file"`
	Level string `mapstructure:"level" yaml:"level"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		View: ViewConfig{
			FirstWeekday: "sunday",
			FirstHour:    calendar.DefaultFirstHour,
			LastHour:     calendar.DefaultLastHour,
		},
		Annotations: AnnotationsConfig{
			MaxOccurrences: 500,
			DayOff: DayOffConfig{
				FallbackURL: DefaultFallbackURL,
				CacheTTL:    "24h",
			},
		},
		State: StateConfig{File: ".calview-state.json"},
		Watch: WatchConfig{Schedule: "* * * * *", View: string(calendar.ViewDay)},
		Log:   LogConfig{Level: "info"},
	}
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("view.first_weekday", def.View.FirstWeekday)
	v.SetDefault("view.first_hour", def.View.FirstHour)
	v.SetDefault("view.last_hour", def.View.LastHour)
	v.SetDefault("annotations.file", def.Annotations.File)
	v.SetDefault("annotations.ics_file", def.Annotations.ICSFile)
	v.SetDefault("annotations.timezone", def.Annotations.Timezone)
	v.SetDefault("annotations.max_occurrences", def.Annotations.MaxOccurrences)
	v.SetDefault("annotations.dayoff.enabled", def.Annotations.DayOff.Enabled)
	v.SetDefault("annotations.dayoff.base_url", def.Annotations.DayOff.BaseURL)
	v.SetDefault("annotations.dayoff.fallback_url", def.Annotations.DayOff.FallbackURL)
	v.SetDefault("annotations.dayoff.cache_ttl", def.Annotations.DayOff.CacheTTL)
	v.SetDefault("state.file", def.State.File)
	v.SetDefault("watch.schedule", def.Watch.Schedule)
	v.SetDefault("watch.view", def.Watch.View)
	v.SetDefault("log.file", def.Log.File)
	v.SetDefault("log.level", def.Log.Level)
}

// Load loads configuration from file. An empty configPath searches the
// default locations and falls back to the built-in defaults when no file
// is found. Environment variables such as CALVIEW_VIEW_FIRST_WEEKDAY
// override file values.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.calview")
		v.AddConfigPath("/etc/calview")
	}

	// Read environment variables
	v.SetEnvPrefix("CALVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound || configPath != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := dateutil.WeekdayByName(c.View.FirstWeekday); err != nil {
		return fmt.Errorf("view.first_weekday: %w", err)
	}
	if c.View.FirstHour < 0 || c.View.LastHour > 23 || c.View.FirstHour > c.View.LastHour {
		return fmt.Errorf("view.first_hour and view.last_hour must satisfy 0 <= first <= last <= 23, got %d..%d",
			c.View.FirstHour, c.View.LastHour)
	}

	if c.Annotations.MaxOccurrences < 0 {
		return fmt.Errorf("annotations.max_occurrences must not be negative")
	}
	if _, err := c.Annotations.GetLocation(); err != nil {
		return fmt.Errorf("annotations.timezone: %w", err)
	}
	if c.Annotations.DayOff.CacheTTL != "" {
		if _, err := time.ParseDuration(c.Annotations.DayOff.CacheTTL); err != nil {
			return fmt.Errorf("annotations.dayoff.cache_ttl: %w", err)
		}
	}

	if _, err := calendar.ParseViewMode(c.Watch.View); err != nil {
		return fmt.Errorf("watch.view: %w", err)
	}

	if c.Log.Level != "" {
		if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}

	return nil
}

// GetFirstWeekday returns the configured first weekday. Default: Sunday
func (c *ViewConfig) GetFirstWeekday() time.Weekday {
	wd, err := dateutil.WeekdayByName(c.FirstWeekday)
	if err != nil {
		return time.Sunday
	}
	return wd
}

// EngineOptions returns calendar options for this view configuration
func (c *ViewConfig) EngineOptions() calendar.Options {
	opts := calendar.DefaultOptions()
	opts.FirstWeekday = c.GetFirstWeekday()
	opts.FirstHour = c.FirstHour
	opts.LastHour = c.LastHour
	return opts
}

// GetCacheTTL returns cache TTL duration
func (c *DayOffConfig) GetCacheTTL() time.Duration {
	if c.CacheTTL == "" {
		return 24 * time.Hour
	}
	duration, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 24 * time.Hour
	}
	return duration
}

// GetLocation returns the zone used for ICS times
func (c *AnnotationsConfig) GetLocation() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// GetWatchView returns the view re-rendered by watch mode. Default: day
func (c *WatchConfig) GetWatchView() calendar.ViewMode {
	mode, err := calendar.ParseViewMode(c.View)
	if err != nil {
		return calendar.ViewDay
	}
	return mode
}

// GetLevel returns the log level. Default: info
func (c *LogConfig) GetLevel() zapcore.Level {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// ExpandEnvVars expands environment variables in file paths
func (c *Config) ExpandEnvVars() {
	c.Annotations.File = os.ExpandEnv(c.Annotations.File)
	c.Annotations.ICSFile = os.ExpandEnv(c.Annotations.ICSFile)
	c.State.File = os.ExpandEnv(c.State.File)
	c.Log.File = os.ExpandEnv(c.Log.File)
}

// Save writes cfg to path as YAML. The file is written atomically with 0600
// permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return fmt.Errorf("config path is empty")
	}
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".calview-config-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp config: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set config permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace config: %w", err)
	}
	return nil
}
