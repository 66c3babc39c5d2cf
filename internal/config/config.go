package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
	_ "time/tzdata" // Route timezones must resolve on hosts without zoneinfo.

	"gopkg.in/yaml.v3"
)

// Scheduler modes.
const (
	// SchedulerRiver drives route status refreshes from a River periodic job.
	SchedulerRiver = "river"
	// SchedulerInProcess drives them from a clock timer in the server process.
	SchedulerInProcess = "inprocess"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Routes    RoutesConfig    `yaml:"routes"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type SchedulerConfig struct {
	Interval time.Duration `yaml:"interval"`
	Mode     string        `yaml:"mode"`
}

type RoutesConfig struct {
	// Timezone is the IANA zone departure dates and times are entered in.
	Timezone string `yaml:"timezone"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server:    ServerConfig{Port: 8080},
		DB:        DBConfig{Path: "busops.db"},
		Log:       LogConfig{Level: "info"},
		Scheduler: SchedulerConfig{Interval: time.Minute, Mode: SchedulerRiver},
		Routes:    RoutesConfig{Timezone: "UTC"},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("BUSOPS_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if interval := os.Getenv("SCHEDULER_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SCHEDULER_INTERVAL: %w", err)
		}
		cfg.Scheduler.Interval = d
	}
	if mode := os.Getenv("SCHEDULER_MODE"); mode != "" {
		cfg.Scheduler.Mode = mode
	}
	if tz := os.Getenv("TIMEZONE"); tz != "" {
		cfg.Routes.Timezone = tz
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.DB.Path == "" {
		return fmt.Errorf("database path is empty")
	}
	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler interval must be positive, got %s", c.Scheduler.Interval)
	}
	if c.Scheduler.Mode != SchedulerRiver && c.Scheduler.Mode != SchedulerInProcess {
		return fmt.Errorf("unknown scheduler mode %q (use %q or %q)", c.Scheduler.Mode, SchedulerRiver, SchedulerInProcess)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses the configured log level.
func (c Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	return level, nil
}

// Location loads the configured route timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Routes.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Routes.Timezone, err)
	}
	return loc, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
