package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/skillsync/internal/flagx"
)

// parseFlags overlays cfg with the command-line flags this package owns.
// Other flags are filtered out first so they cannot break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-scope", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.IdentityEndpoint, "a", cfg.IdentityEndpoint, "identity service address and port")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "local data directory")
	fs.StringVar(&cfg.StoreBackend, "s", cfg.StoreBackend, "key-value backend (sqlite|redis)")
	fs.DurationVar(&cfg.ProviderTimeout, "t", cfg.ProviderTimeout, "identity call timeout")
	fs.StringVar(&cfg.ProfileScope, "scope", cfg.ProfileScope, "profile scope (device|identity)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
