// Package config loads priorityflow settings with priority: flags > env > file > defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every priorityflow environment override
const EnvPrefix = "PRIORITYFLOW_"

// Config is the full process configuration
type Config struct {
	Portfolio PortfolioConfig `yaml:"portfolio"`
	Events    EventsConfig    `yaml:"events"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Monitor   MonitorConfig   `yaml:"monitor"`
	GRPC      GRPCConfig      `yaml:"grpc"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
}

// PortfolioConfig names the backends the asset collection is loaded from and persisted to
type PortfolioConfig struct {
	Source string `yaml:"source"`
	Sink   string `yaml:"sink"`
}

type EventsConfig struct {
	Source string `yaml:"source"`
}

// PipelineConfig controls the producer/consumer queue.
// Capacity 0 means unbounded. Pace 0 disables inter-event spacing.
type PipelineConfig struct {
	Capacity int           `yaml:"capacity"`
	Pace     time.Duration `yaml:"pace"`
}

type MonitorConfig struct {
	Interval time.Duration `yaml:"interval"`
}

type GRPCConfig struct {
	Addr string `yaml:"addr"`
}

// MetricsConfig holds the Prometheus listener address. Empty disables the endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type DatabaseConfig struct {
	ConnStr string `yaml:"conn_str"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing else is provided
func Default() Config {
	return Config{
		Portfolio: PortfolioConfig{
			Source: "file:data/portfolio.json",
			Sink:   "file:data/portfolio_final_state.json",
		},
		Events: EventsConfig{
			Source: "file:data/events.json",
		},
		Pipeline: PipelineConfig{
			Capacity: 0,
			Pace:     500 * time.Millisecond,
		},
		Monitor: MonitorConfig{
			Interval: 2 * time.Second,
		},
		GRPC: GRPCConfig{
			Addr: ":8080",
		},
		Metrics: MetricsConfig{
			Addr: ":9090",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (optional,
// a missing file is not an error) and environment overrides, then validates it.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := applyEnv(&cfg, os.Getenv); err != nil {
		return cfg, fmt.Errorf("invalid environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides cfg from the environment. Every malformed numeric or
// duration value is reported; the remaining overrides are still applied.
func applyEnv(cfg *Config, getenv func(string) string) error {
	env := func(key string) string { return getenv(EnvPrefix + key) }
	var errs []error

	if v := env("PORTFOLIO_SOURCE"); v != "" {
		cfg.Portfolio.Source = v
	}
	if v := env("PORTFOLIO_SINK"); v != "" {
		cfg.Portfolio.Sink = v
	}
	if v := env("EVENTS_SOURCE"); v != "" {
		cfg.Events.Source = v
	}
	if v := env("PIPELINE_CAPACITY"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Pipeline.Capacity = i
		} else {
			errs = append(errs, fmt.Errorf("%sPIPELINE_CAPACITY=%q: %w", EnvPrefix, v, err))
		}
	}
	if v := env("PIPELINE_PACE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Pipeline.Pace = d
		} else {
			errs = append(errs, fmt.Errorf("%sPIPELINE_PACE=%q: %w", EnvPrefix, v, err))
		}
	}
	if v := env("MONITOR_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Monitor.Interval = d
		} else {
			errs = append(errs, fmt.Errorf("%sMONITOR_INTERVAL=%q: %w", EnvPrefix, v, err))
		}
	}
	if v := env("GRPC_ADDR"); v != "" {
		cfg.GRPC.Addr = v
	}
	if v, ok := lookup(getenv, EnvPrefix+"METRICS_ADDR"); ok {
		cfg.Metrics.Addr = v
	}
	if v := env("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := env("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}

	if v := env("DATABASE_CONN_STR"); v != "" {
		cfg.Database.ConnStr = v
	} else if cfg.Database.ConnStr == "" {
		cfg.Database.ConnStr = connStrFromEnv(getenv)
	}
	return errors.Join(errs...)
}

// lookup treats the literal value "off" as an explicit empty setting
func lookup(getenv func(string) string, key string) (string, bool) {
	v := getenv(key)
	switch {
	case v == "":
		return "", false
	case strings.EqualFold(v, "off"):
		return "", true
	default:
		return v, true
	}
}

// connStrFromEnv builds a Postgres DSN from DB_CONN_STR or the individual DB_* variables.
// It returns "" when none of them are set.
func connStrFromEnv(getenv func(string) string) string {
	if v := getenv("DB_CONN_STR"); v != "" {
		return v
	}

	host := getenv("DB_HOST")
	port := getenv("DB_PORT")
	user := getenv("DB_USER")
	password := getenv("DB_PASSWORD")
	dbname := getenv("DB_NAME")
	if host == "" && port == "" && user == "" && password == "" && dbname == "" {
		return ""
	}

	if host == "" {
		host = "localhost"
	}
	if port == "" {
		port = "5432"
	}
	if user == "" {
		user = "postgres"
	}
	if password == "" {
		password = "postgres"
	}
	if dbname == "" {
		dbname = "priorityflow"
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)
}

// Validate checks that the configuration is usable
func (c Config) Validate() error {
	if c.Pipeline.Capacity < 0 {
		return fmt.Errorf("pipeline.capacity must be >= 0, got %d", c.Pipeline.Capacity)
	}
	if c.Pipeline.Pace < 0 {
		return fmt.Errorf("pipeline.pace must be >= 0, got %s", c.Pipeline.Pace)
	}
	if c.Monitor.Interval <= 0 {
		return fmt.Errorf("monitor.interval must be > 0, got %s", c.Monitor.Interval)
	}
	if c.GRPC.Addr == "" {
		return errors.New("grpc.addr cannot be empty")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// ParseLevel maps a level name to its slog level
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return 0, fmt.Errorf("invalid log.level %q: %w", level, err)
	}
	return l, nil
}
