package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	BackendMemory = "memory"
	BackendMySQL  = "mysql"
)

// Config is the reclamation server configuration, read from SAM_* variables.
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	GRPCAddr string `env:"GRPC_ADDR" envDefault:":50051"`

	InventoryBackend string `env:"INVENTORY_BACKEND" envDefault:"memory"`
	MySQLDSN         string `env:"MYSQL_DSN" envDefault:"root:root@tcp(localhost:3306)/sam?parseTime=true"`
	// RedisAddr enables the software cache and shared idempotency keys.
	RedisAddr string `env:"REDIS_ADDR"`

	InactivityThresholdDays int           `env:"INACTIVITY_THRESHOLD_DAYS" envDefault:"60"`
	SoftwareCacheTTL        time.Duration `env:"SOFTWARE_CACHE_TTL" envDefault:"10m"`
	IdempotencyTTL          time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`
	CommandQueueSize        int           `env:"COMMAND_QUEUE_SIZE" envDefault:"64"`

	OTelEndpoint string `env:"OTEL_ENDPOINT"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat    string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Prefix: "SAM_"})
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	switch c.InventoryBackend {
	case BackendMemory:
	case BackendMySQL:
		if c.MySQLDSN == "" {
			errs = append(errs, errors.New("SAM_MYSQL_DSN is required for the mysql backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown inventory backend %q", c.InventoryBackend))
	}
	if c.InactivityThresholdDays < 0 {
		errs = append(errs, fmt.Errorf("inactivity threshold must not be negative, got %d", c.InactivityThresholdDays))
	}
	if c.CommandQueueSize <= 0 {
		errs = append(errs, fmt.Errorf("command queue size must be positive, got %d", c.CommandQueueSize))
	}
	if c.SoftwareCacheTTL <= 0 || c.IdempotencyTTL <= 0 {
		errs = append(errs, errors.New("cache ttls must be positive"))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

// NewLogger builds the process logger described by LogLevel and LogFormat.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}
