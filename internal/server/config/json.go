package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/skillsync/internal/flagx"
	"github.com/dmitrijs2005/skillsync/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "1s" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. Omitted fields keep their previous value.
type JsonConfig struct {
	EndpointAddrGRPC           string         `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP           string         `json:"endpoint_addr_http"`
	DatabaseDSN                string         `json:"database_dsn"`
	SecretKey                  string         `json:"secret_key"`
	IDTokenValidityDuration    timex.Duration `json:"id_token_validity_duration"`
	ResetTokenValidityDuration timex.Duration `json:"reset_token_validity_duration"`
	RecentLoginWindow          timex.Duration `json:"recent_login_window"`
	MinPasswordLength          int            `json:"min_password_length"`
	LogLevel                   string         `json:"log_level"`
}

// parseJson loads configuration values from a JSON file into config.
//
// The file is named by the -c/-config flags or, failing that, by
// IDENTITYD_CONFIG. If the file cannot be read or contains invalid JSON,
// the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.ConfigFileFlag(os.Args[1:], "IDENTITYD_CONFIG")

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.EndpointAddrGRPC != "" {
		config.EndpointAddrGRPC = c.EndpointAddrGRPC
	}
	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.IDTokenValidityDuration.Duration != 0 {
		config.IDTokenValidityDuration = c.IDTokenValidityDuration.Duration
	}
	if c.ResetTokenValidityDuration.Duration != 0 {
		config.ResetTokenValidityDuration = c.ResetTokenValidityDuration.Duration
	}
	if c.RecentLoginWindow.Duration != 0 {
		config.RecentLoginWindow = c.RecentLoginWindow.Duration
	}
	if c.MinPasswordLength != 0 {
		config.MinPasswordLength = c.MinPasswordLength
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
}
