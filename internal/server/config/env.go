package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var envFiles = []string{".env"}

// parseEnv overlays cfg with IDENTITYD_* variables. A .env file in the
// working directory is loaded first; the process environment wins over it.
func parseEnv(cfg *Config) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	if v, ok := os.LookupEnv("IDENTITYD_GRPC_ADDR"); ok {
		cfg.EndpointAddrGRPC = v
	}
	if v, ok := os.LookupEnv("IDENTITYD_HTTP_ADDR"); ok {
		cfg.EndpointAddrHTTP = v
	}
	if v, ok := os.LookupEnv("IDENTITYD_DATABASE_DSN"); ok {
		cfg.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("IDENTITYD_SECRET_KEY"); ok {
		cfg.SecretKey = v
	}
	if v, ok := os.LookupEnv("IDENTITYD_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	envDuration(&cfg.IDTokenValidityDuration, "IDENTITYD_ID_TOKEN_TTL")
	envDuration(&cfg.ResetTokenValidityDuration, "IDENTITYD_RESET_TOKEN_TTL")
	envDuration(&cfg.RecentLoginWindow, "IDENTITYD_RECENT_LOGIN_WINDOW")

	if v, ok := os.LookupEnv("IDENTITYD_MIN_PASSWORD_LENGTH"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		cfg.MinPasswordLength = n
	}
}

func envDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
