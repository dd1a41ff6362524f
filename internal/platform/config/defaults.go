package config

import "time"

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			IP:        "0.0.0.0",
			Port:      8000,
			StaticDir: "./web",
		},
		Log: LogConfig{
			Level: "INFO",
			Dir:   "data/logs",
			File:  "server.log",
		},
		Identity: IdentityConfig{
			Driver:  "remote",
			Timeout: 10 * time.Second,
		},
		Lockout: LockoutConfig{
			MaxAttempts:     5,
			AttemptWindow:   10 * time.Minute,
			LockoutDuration: 15 * time.Minute,
			CleanupInterval: 5 * time.Minute,
			Store: KVStoreConfig{
				Driver: "memory",
				Memory: MemoryConfig{GCInterval: 5 * time.Minute},
			},
		},
		RateLimit: RateLimitConfig{
			Enabled:         true,
			RequestsPerMin:  120,
			AuthRequestsMin: 10,
			Store: KVStoreConfig{
				Driver: "memory",
			},
		},
		Broadcast: BroadcastConfig{
			Path:        "/ws",
			QueueSize:   256,
			Workers:     4,
			SendTimeout: 5 * time.Second,
		},
		Storage: StorageConfig{
			Driver: "sqlite",
			DSN:    "data/skincare.db",
		},
	}
}
