package config

import (
	"time"
)

type Config struct {
	Server      ServerConfig    `yaml:"server" mapstructure:"server"`
	Log         LogConfig       `yaml:"log" mapstructure:"log"`
	Identity    IdentityConfig  `yaml:"identity" mapstructure:"identity"`
	Lockout     LockoutConfig   `yaml:"lockout" mapstructure:"lockout"`
	RateLimit   RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	Broadcast   BroadcastConfig `yaml:"broadcast" mapstructure:"broadcast"`
	Storage     StorageConfig   `yaml:"storage" mapstructure:"storage"`
	Maintenance bool            `yaml:"maintenance_mode" mapstructure:"maintenance_mode"`
}

type ServerConfig struct {
	IP        string `yaml:"ip" mapstructure:"ip"`
	Port      int    `yaml:"port" mapstructure:"port"`
	StaticDir string `yaml:"static_dir" mapstructure:"static_dir"`
}

type LogConfig struct {
	Level string `yaml:"log_level" mapstructure:"log_level"`
	Dir   string `yaml:"log_dir" mapstructure:"log_dir"`
	File  string `yaml:"log_file" mapstructure:"log_file"`
}

// IdentityConfig selects and configures the external identity provider
// integration. The remote driver calls the provider's validate endpoint,
// the jwt driver verifies tokens locally with the shared signing secret.
type IdentityConfig struct {
	Driver     string        `yaml:"driver" mapstructure:"driver"`
	BaseURL    string        `yaml:"base_url" mapstructure:"base_url"`
	APIKey     string        `yaml:"api_key" mapstructure:"api_key"`
	ServiceKey string        `yaml:"service_key" mapstructure:"service_key"`
	JWTSecret  string        `yaml:"jwt_secret" mapstructure:"jwt_secret"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// LockoutConfig carries the brute-force policy values. Window and lockout
// semantics are load-bearing; these knobs only tune the numbers.
type LockoutConfig struct {
	MaxAttempts     int           `yaml:"max_attempts" mapstructure:"max_attempts"`
	AttemptWindow   time.Duration `yaml:"attempt_window" mapstructure:"attempt_window"`
	LockoutDuration time.Duration `yaml:"lockout_duration" mapstructure:"lockout_duration"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
	Store           KVStoreConfig `yaml:"store" mapstructure:"store"`
}

// KVStoreConfig selects the backing store for process-local or shared
// keyed state (lockout tracking, rate-limit counters).
type KVStoreConfig struct {
	Driver string       `yaml:"driver" mapstructure:"driver"`
	Redis  RedisConfig  `yaml:"redis,omitempty" mapstructure:"redis"`
	Memory MemoryConfig `yaml:"memory,omitempty" mapstructure:"memory"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Username string `yaml:"username,omitempty" mapstructure:"username"`
	Password string `yaml:"password,omitempty" mapstructure:"password"`
	DB       int    `yaml:"db,omitempty" mapstructure:"db"`
	Prefix   string `yaml:"prefix,omitempty" mapstructure:"prefix"`
}

type MemoryConfig struct {
	GCInterval time.Duration `yaml:"gc_interval" mapstructure:"gc_interval"`
}

type RateLimitConfig struct {
	Enabled          bool          `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerMin   int           `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
	AuthRequestsMin  int           `yaml:"auth_requests_per_minute" mapstructure:"auth_requests_per_minute"`
	Store            KVStoreConfig `yaml:"store" mapstructure:"store"`
}

type BroadcastConfig struct {
	Path        string        `yaml:"path" mapstructure:"path"`
	QueueSize   int           `yaml:"queue_size" mapstructure:"queue_size"`
	Workers     int           `yaml:"workers" mapstructure:"workers"`
	SendTimeout time.Duration `yaml:"send_timeout" mapstructure:"send_timeout"`
}

type StorageConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	DSN    string `yaml:"dsn" mapstructure:"dsn"`
}
