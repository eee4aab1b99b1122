package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/skillsync/internal/flagx"
	"github.com/dmitrijs2005/skillsync/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Omitted fields keep
// their previous value.
type JsonConfig struct {
	IdentityEndpoint   string         `json:"identity_endpoint"`
	ProviderTimeout    timex.Duration `json:"provider_timeout"`
	OnlineCheck        timex.Duration `json:"online_check_interval"`
	DataDir            string         `json:"data_dir"`
	StoreBackend       string         `json:"store_backend"`
	RedisAddr          string         `json:"redis_addr"`
	RedisPrefix        string         `json:"redis_prefix"`
	ProfileScope       string         `json:"profile_scope"`
	ProfilePlaceholder string         `json:"profile_placeholder"`
	SignOutOnExit      *bool          `json:"sign_out_on_exit"`
	LogLevel           string         `json:"log_level"`
	Mirror             struct {
		Bucket    string `json:"bucket"`
		Region    string `json:"region"`
		Endpoint  string `json:"endpoint"`
		AccessKey string `json:"access_key"`
		SecretKey string `json:"secret_key"`
	} `json:"mirror"`
}

// parseJson overlays cfg with the file named by -c/-config or
// SKILLSYNC_CONFIG. It panics on read or decode errors.
func parseJson(cfg *Config) {
	path := flagx.ConfigFileFlag(os.Args[1:], "SKILLSYNC_CONFIG")
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	set(&cfg.IdentityEndpoint, jc.IdentityEndpoint)
	if jc.ProviderTimeout.Duration != 0 {
		cfg.ProviderTimeout = jc.ProviderTimeout.Duration
	}
	if jc.OnlineCheck.Duration != 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheck.Duration
	}
	set(&cfg.DataDir, jc.DataDir)
	set(&cfg.StoreBackend, jc.StoreBackend)
	set(&cfg.RedisAddr, jc.RedisAddr)
	set(&cfg.RedisPrefix, jc.RedisPrefix)
	set(&cfg.ProfileScope, jc.ProfileScope)
	set(&cfg.ProfilePlaceholder, jc.ProfilePlaceholder)
	if jc.SignOutOnExit != nil {
		cfg.SignOutOnExit = *jc.SignOutOnExit
	}
	set(&cfg.LogLevel, jc.LogLevel)
	set(&cfg.Mirror.Bucket, jc.Mirror.Bucket)
	set(&cfg.Mirror.Region, jc.Mirror.Region)
	set(&cfg.Mirror.Endpoint, jc.Mirror.Endpoint)
	set(&cfg.Mirror.AccessKey, jc.Mirror.AccessKey)
	set(&cfg.Mirror.SecretKey, jc.Mirror.SecretKey)
}

func set(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
