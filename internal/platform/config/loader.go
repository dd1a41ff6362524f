package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigFile = ".config.yaml"

// Loader reads configuration from an optional yaml file layered over the
// defaults, with selected environment variable overrides on top.
type Loader struct {
	path      string
	useDotEnv bool
}

// NewLoader creates a loader reading the default config file path.
func NewLoader() *Loader {
	return &Loader{
		path:      defaultConfigFile,
		useDotEnv: true,
	}
}

// WithPath overrides the config file location.
func (l *Loader) WithPath(path string) *Loader {
	if path != "" {
		l.path = path
	}
	return l
}

// WithDotEnv toggles loading variables from a .env file before reading config.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// Load produces the effective configuration.
func (l *Loader) Load() (*Config, error) {
	if l.useDotEnv {
		_ = godotenv.Load()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(l.path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", l.path, err)
		}
	case os.IsNotExist(err):
		// Missing file is fine; defaults plus env apply.
	default:
		return nil, fmt.Errorf("read config file %s: %w", l.path, err)
	}

	l.applyEnv(cfg)

	if err := l.validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays secrets and endpoints that are conventionally supplied
// via the environment rather than the config file.
func (l *Loader) applyEnv(cfg *Config) {
	if v := os.Getenv("IDENTITY_BASE_URL"); v != "" {
		cfg.Identity.BaseURL = v
	}
	if v := os.Getenv("IDENTITY_API_KEY"); v != "" {
		cfg.Identity.APIKey = v
	}
	if v := os.Getenv("IDENTITY_SERVICE_KEY"); v != "" {
		cfg.Identity.ServiceKey = v
	}
	if v := os.Getenv("IDENTITY_JWT_SECRET"); v != "" {
		cfg.Identity.JWTSecret = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Lockout.Store.Redis.Addr = v
		cfg.RateLimit.Store.Redis.Addr = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
}

func (l *Loader) validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}
	if cfg.Lockout.MaxAttempts <= 0 {
		return fmt.Errorf("lockout max_attempts must be positive")
	}
	if cfg.Lockout.AttemptWindow <= 0 || cfg.Lockout.LockoutDuration <= 0 {
		return fmt.Errorf("lockout window and duration must be positive")
	}
	if cfg.Broadcast.QueueSize <= 0 {
		return fmt.Errorf("broadcast queue_size must be positive")
	}
	if cfg.Broadcast.Workers <= 0 {
		return fmt.Errorf("broadcast workers must be positive")
	}
	return nil
}
