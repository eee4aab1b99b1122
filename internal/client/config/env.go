package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// envFiles are loaded into the environment before it is read. Variables
// already set in the process take precedence.
var envFiles = []string{".env"}

// parseEnv overlays cfg with SKILLSYNC_* environment variables.
func parseEnv(cfg *Config) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	envString(&cfg.IdentityEndpoint, "SKILLSYNC_IDENTITY_ENDPOINT")
	envDuration(&cfg.ProviderTimeout, "SKILLSYNC_PROVIDER_TIMEOUT")
	envDuration(&cfg.OnlineCheckInterval, "SKILLSYNC_ONLINE_CHECK_INTERVAL")
	envString(&cfg.DataDir, "SKILLSYNC_DATA_DIR")
	envString(&cfg.StoreBackend, "SKILLSYNC_STORE_BACKEND")
	envString(&cfg.RedisAddr, "SKILLSYNC_REDIS_ADDR")
	envString(&cfg.RedisPrefix, "SKILLSYNC_REDIS_PREFIX")
	envString(&cfg.ProfileScope, "SKILLSYNC_PROFILE_SCOPE")
	envString(&cfg.ProfilePlaceholder, "SKILLSYNC_PROFILE_PLACEHOLDER")
	envBool(&cfg.SignOutOnExit, "SKILLSYNC_SIGN_OUT_ON_EXIT")
	envString(&cfg.LogLevel, "SKILLSYNC_LOG_LEVEL")
	envString(&cfg.Mirror.Bucket, "SKILLSYNC_S3_BUCKET")
	envString(&cfg.Mirror.Region, "SKILLSYNC_S3_REGION")
	envString(&cfg.Mirror.Endpoint, "SKILLSYNC_S3_ENDPOINT")
	envString(&cfg.Mirror.AccessKey, "SKILLSYNC_S3_ACCESS_KEY")
	envString(&cfg.Mirror.SecretKey, "SKILLSYNC_S3_SECRET_KEY")
}

func envString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
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

func envBool(dst *bool, key string) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		panic(err)
	}
	*dst = b
}
