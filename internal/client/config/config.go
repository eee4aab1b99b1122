package config

import (
	"fmt"
	"time"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

type MirrorConfig struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Enabled reports whether profile images should be mirrored.
func (m MirrorConfig) Enabled() bool { return m.Bucket != "" }

// Config holds runtime settings for the SkillSync CLI.
type Config struct {
	IdentityEndpoint    string
	ProviderTimeout     time.Duration
	OnlineCheckInterval time.Duration

	// DataDir holds the local database and saved profile images.
	DataDir      string
	StoreBackend string
	RedisAddr    string
	RedisPrefix  string

	ProfileScope       string
	ProfilePlaceholder string
	SignOutOnExit      bool

	LogLevel string

	Mirror MirrorConfig
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.IdentityEndpoint = "127.0.0.1:50051"
	c.ProviderTimeout = 15 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.DataDir = ".skillsync"
	c.StoreBackend = BackendSQLite
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisPrefix = "skillsync:"
	c.ProfileScope = "device"
	c.ProfilePlaceholder = "asset://profile_placeholder.png"
	c.SignOutOnExit = true
	c.LogLevel = "warn"
	c.Mirror.Region = "us-east-1"
}

func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendSQLite, BackendRedis:
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
	switch c.ProfileScope {
	case "device", "identity":
	default:
		return fmt.Errorf("unknown profile scope %q", c.ProfileScope)
	}
	if c.ProviderTimeout <= 0 {
		return fmt.Errorf("provider timeout must be positive")
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("online check interval must be positive")
	}
	return nil
}

// LoadConfig builds a Config from defaults, environment, JSON and flags.
// Malformed input panics.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
