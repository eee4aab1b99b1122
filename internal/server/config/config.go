// Package config handles configuration for identityd, the SkillSync
// identity service: defaults, environment, JSON overlay and command-line
// flags, in that order.
package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings for identityd.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the public gRPC endpoint.
//   - EndpointAddrHTTP: bind address for /healthz and /readyz.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps accounts in memory.
//   - SecretKey: HMAC secret for signing ID and reset tokens (HS256). Do not use test defaults in prod.
//   - IDTokenValidityDuration / ResetTokenValidityDuration: token lifetimes.
//   - RecentLoginWindow: how old a sign-in may be for sensitive changes.
type Config struct {
	EndpointAddrGRPC           string
	EndpointAddrHTTP           string
	DatabaseDSN                string
	SecretKey                  string
	IDTokenValidityDuration    time.Duration
	ResetTokenValidityDuration time.Duration
	RecentLoginWindow          time.Duration
	MinPasswordLength          int
	LogLevel                   string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.EndpointAddrHTTP = ":8080"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.IDTokenValidityDuration = 60 * time.Minute
	c.ResetTokenValidityDuration = 15 * time.Minute
	c.RecentLoginWindow = 5 * time.Minute
	c.MinPasswordLength = 6
	c.LogLevel = "info"
}

func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("secret key must not be empty")
	}
	if c.IDTokenValidityDuration <= 0 || c.ResetTokenValidityDuration <= 0 {
		return fmt.Errorf("token validity must be positive")
	}
	if c.MinPasswordLength < 1 {
		return fmt.Errorf("minimum password length must be positive")
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment, an optional JSON file and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
