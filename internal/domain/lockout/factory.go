package lockout

import "fmt"

// New creates a tracker based on the provided configuration.
func New(cfg Config) (Tracker, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverMemory
	}

	switch driver {
	case DriverMemory:
		return NewMemory(cfg), nil
	case DriverRedis:
		return NewRedis(cfg)
	default:
		return nil, fmt.Errorf("unsupported lockout store driver: %s", driver)
	}
}
