// Package config loads runtime configuration for the SkillSync CLI.
//
// Sources, later ones win:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment, optionally seeded from a .env file in the working
//     directory (SKILLSYNC_* variables, see parseEnv).
//  3. A JSON file selected with -c/-config or SKILLSYNC_CONFIG.
//  4. Command-line flags.
//
// Flags
//
//	-a string    identity service address (host:port)
//	-d string    local data directory
//	-s string    key-value backend: sqlite or redis
//	-t duration  identity provider call timeout
//	-scope string  profile scope: device or identity
//	-l string    log level
//
// JSON durations use timex.Duration, so "15s" and 15000000000 are both
// accepted:
//
//	{
//	  "identity_endpoint": "127.0.0.1:50051",
//	  "provider_timeout": "15s",
//	  "store_backend": "redis",
//	  "redis_addr": "127.0.0.1:6379",
//	  "mirror": {"bucket": "avatars", "region": "eu-north-1"}
//	}
package config
