package ratelimit

import (
	platformerrors "github.com/codegoddy/skincare/internal/platform/errors"
)

// New constructs a limiter for the configured driver.
func New(cfg *Config) (Limiter, error) {
	const op = "ratelimit.New"
	if cfg == nil {
		cfg = &Config{Driver: DriverMemory}
	}
	switch cfg.Driver {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverRedis:
		return NewRedis(cfg.Redis)
	default:
		return nil, platformerrors.New(platformerrors.KindConfig, op, "unsupported ratelimit driver: "+cfg.Driver)
	}
}
