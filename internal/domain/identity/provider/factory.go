package provider

import "fmt"

// New creates a token validator based on the provided configuration.
func New(cfg Config) (Validator, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverRemote
	}

	switch driver {
	case DriverRemote:
		return NewRemote(cfg)
	case DriverJWT:
		return NewJWT(cfg)
	default:
		return nil, fmt.Errorf("unsupported identity provider driver: %s", driver)
	}
}
