package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/Korpiaveli/filingsflow-sub000/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logging   logging.Config  `mapstructure:"logging"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Detection DetectionConfig `mapstructure:"detection"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Registry  RegistryConfig  `mapstructure:"registry"`
	Export    ExportConfig    `mapstructure:"export"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// DatabaseConfig encapsulates PostgreSQL connectivity.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
}

// DetectionConfig sets default thresholds for cluster detection.
type DetectionConfig struct {
	Days            int     `mapstructure:"days"`
	MinParticipants int     `mapstructure:"min_participants"`
	MinValue        float64 `mapstructure:"min_value"`
}

// SchedulerConfig governs batch detection cadence.
type SchedulerConfig struct {
	Interval        time.Duration `mapstructure:"interval"`
	AlignToBucket   bool          `mapstructure:"align_to_bucket"`
	AdvisoryLockKey int64         `mapstructure:"advisory_lock_key"`
	StartupDelay    time.Duration `mapstructure:"startup_delay"`
}

// RegistryConfig describes where the entity registry comes from. Entries
// declared inline are merged with entries loaded from the file at Path.
type RegistryConfig struct {
	Path      string         `mapstructure:"path"`
	Companies []CompanyEntry `mapstructure:"companies"`
	Insiders  []InsiderEntry `mapstructure:"insiders"`
}

// CompanyEntry maps a ticker to its canonical company identity.
type CompanyEntry struct {
	Ticker string `mapstructure:"ticker"`
	CIK    string `mapstructure:"cik"`
	Name   string `mapstructure:"name"`
}

// InsiderEntry records a known insider and their employer.
type InsiderEntry struct {
	Name       string `mapstructure:"name"`
	CIK        string `mapstructure:"cik"`
	CompanyCIK string `mapstructure:"company_cik"`
	Title      string `mapstructure:"title"`
}

// ExportConfig sets CLI export behaviour.
type ExportConfig struct {
	MaxActions int `mapstructure:"max_actions"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FILINGSFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "filingsflow")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("detection.days", 7)
	v.SetDefault("detection.min_participants", 2)
	v.SetDefault("detection.min_value", 100000.0)

	v.SetDefault("scheduler.interval", "6h")
	v.SetDefault("scheduler.align_to_bucket", true)
	v.SetDefault("scheduler.advisory_lock_key", int64(0x66696c66))
	v.SetDefault("scheduler.startup_delay", "0s")

	v.SetDefault("export.max_actions", 1000)

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.migrations_path", "migrations")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.Detection.Days <= 0 {
		return fmt.Errorf("detection.days must be greater than zero")
	}
	if c.Detection.MinParticipants < 1 {
		return fmt.Errorf("detection.min_participants must be at least 1")
	}
	if c.Detection.MinValue < 0 {
		return fmt.Errorf("detection.min_value cannot be negative")
	}
	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler.interval must be greater than zero")
	}
	if c.Export.MaxActions <= 0 {
		return fmt.Errorf("export.max_actions must be greater than zero")
	}
	return nil
}
