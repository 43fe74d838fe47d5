package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	YouTube     YouTubeConfig
	Subscribers SubscribersConfig
	Store       StoreConfig
	Log         LogConfig
	History     HistoryConfig
	Defaults    DefaultsConfig
}

// YouTubeConfig is the configuration for the YouTube Data API.
type YouTubeConfig struct {
	APIKey       string
	Endpoint     string
	PhaseTimeout time.Duration
}

// SubscribersConfig selects where subscriber counts come from.
type SubscribersConfig struct {
	// Source is "placeholder" or "channels".
	Source      string
	Placeholder uint64
}

// StoreConfig is the configuration for history and preference persistence.
type StoreConfig struct {
	// Backend is "sqlite", "redis" or "memory".
	Backend       string
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// LogConfig is the configuration for the logger.
type LogConfig struct {
	Level  string
	Format string
	// File receives logs; empty means stderr for commands and no logs for the TUI.
	File string
}

// HistoryConfig is the configuration for the search history.
type HistoryConfig struct {
	TimeLayout string
}

// DefaultsConfig holds the filter values a fresh session starts with.
type DefaultsConfig struct {
	ResultLimit int
	PeriodDays  int
	Region      string
}

const (
	SubscribersPlaceholder = "placeholder"
	SubscribersChannels    = "channels"

	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

func setDefaults(v *viper.Viper) {
	v.SetDefault("youtube.phase_timeout", 15*time.Second)
	v.SetDefault("subscribers.source", SubscribersPlaceholder)
	v.SetDefault("subscribers.placeholder", 10000)
	v.SetDefault("store.backend", BackendSQLite)
	v.SetDefault("store.sqlite_path", filepath.Join(configDir(), "jmstube.db"))
	v.SetDefault("store.redis_prefix", "jmstube:")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("history.time_layout", "2006-01-02 15:04:05")
	v.SetDefault("defaults.result_limit", 100)
	v.SetDefault("defaults.period_days", 7)
	v.SetDefault("defaults.region", "KR")
}

func configDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "jmstube")
	}
	return "."
}

// Load reads configuration from an optional config file and the environment.
// An explicit path must exist; otherwise jmstube.yaml is searched for in the
// working directory and the user config directory.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("jmstube")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(configDir())
	}

	v.SetEnvPrefix("JMSTUBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	cfg.YouTube.APIKey = v.GetString("youtube.api_key")
	if cfg.YouTube.APIKey == "" {
		cfg.YouTube.APIKey = os.Getenv("GOOGLE_API_KEY")
	}
	cfg.YouTube.Endpoint = v.GetString("youtube.endpoint")
	cfg.YouTube.PhaseTimeout = v.GetDuration("youtube.phase_timeout")

	cfg.Subscribers.Source = strings.ToLower(v.GetString("subscribers.source"))
	cfg.Subscribers.Placeholder = v.GetUint64("subscribers.placeholder")

	cfg.Store.Backend = strings.ToLower(v.GetString("store.backend"))
	cfg.Store.SQLitePath = v.GetString("store.sqlite_path")
	cfg.Store.RedisAddr = v.GetString("store.redis_addr")
	cfg.Store.RedisPassword = v.GetString("store.redis_password")
	cfg.Store.RedisDB = v.GetInt("store.redis_db")
	cfg.Store.RedisPrefix = v.GetString("store.redis_prefix")

	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = strings.ToLower(v.GetString("log.format"))
	cfg.Log.File = v.GetString("log.file")

	cfg.History.TimeLayout = v.GetString("history.time_layout")

	cfg.Defaults.ResultLimit = v.GetInt("defaults.result_limit")
	cfg.Defaults.PeriodDays = v.GetInt("defaults.period_days")
	cfg.Defaults.Region = strings.ToUpper(v.GetString("defaults.region"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enum values and required fields of the selected backends.
// The API key is not checked here; commands that reach the network check it.
func (c *Config) Validate() error {
	switch c.Subscribers.Source {
	case SubscribersPlaceholder, SubscribersChannels:
	default:
		return fmt.Errorf("%w: subscribers.source %q", ErrInvalidConfig, c.Subscribers.Source)
	}

	switch c.Store.Backend {
	case BackendSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("%w: store.sqlite_path is empty", ErrInvalidConfig)
		}
	case BackendRedis:
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("%w: store.redis_addr is empty", ErrInvalidConfig)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("%w: store.backend %q", ErrInvalidConfig, c.Store.Backend)
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalidConfig, c.Log.Format)
	}

	if c.YouTube.PhaseTimeout < 0 {
		return fmt.Errorf("%w: youtube.phase_timeout is negative", ErrInvalidConfig)
	}
	return nil
}
