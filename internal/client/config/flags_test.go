package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func Test_parseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		name string
		args []string
		want func(*Config)
	}{
		{
			name: "no flags",
			args: []string{"testbin"},
			want: func(*Config) {},
		},
		{
			name: "all flags",
			args: []string{"testbin", "-a", "id:1", "-d", "/data", "-s", "redis", "-t", "3s", "-scope", "identity", "-l", "debug"},
			want: func(c *Config) {
				c.IdentityEndpoint = "id:1"
				c.DataDir = "/data"
				c.StoreBackend = BackendRedis
				c.ProviderTimeout = 3 * time.Second
				c.ProfileScope = "identity"
				c.LogLevel = "debug"
			},
		},
		{
			name: "foreign flags ignored",
			args: []string{"testbin", "-c", "cfg.json", "-x", "-a=id:2"},
			want: func(c *Config) { c.IdentityEndpoint = "id:2" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			var got Config
			got.LoadDefaults()
			parseFlags(&got)

			var want Config
			want.LoadDefaults()
			tt.want(&want)

			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func Test_parseFlags_BadDurationPanics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin", "-t", "later"}

	assert.Panics(t, func() { parseFlags(&Config{}) })
}
