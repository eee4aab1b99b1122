package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/skillsync/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-w string   HTTP health bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN; empty keeps accounts in memory
//	-s string   JWT HMAC secret key
//	-t int      ID token validity, minutes
//	-r int      reset token validity, minutes
//	-l string   log level
//
// Duration flags are accepted as integers in minutes and then converted
// to time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-w", "-d", "-s", "-t", "-r", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.EndpointAddrHTTP, "w", config.EndpointAddrHTTP, "HTTP health address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	idTokenValidity := fs.Int("t", int(config.IDTokenValidityDuration.Minutes()), "id_token_validity_duration (in minutes)")
	resetTokenValidity := fs.Int("r", int(config.ResetTokenValidityDuration.Minutes()), "reset_token_validity_duration (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.IDTokenValidityDuration = time.Duration(*idTokenValidity) * time.Minute
	config.ResetTokenValidityDuration = time.Duration(*resetTokenValidity) * time.Minute
}
