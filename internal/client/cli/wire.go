package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/skillsync/internal/client/config"
	"github.com/dmitrijs2005/skillsync/internal/client/identity"
	"github.com/dmitrijs2005/skillsync/internal/client/migrations"
	"github.com/dmitrijs2005/skillsync/internal/client/repositories/images"
	"github.com/dmitrijs2005/skillsync/internal/client/repositories/kv"
	"github.com/dmitrijs2005/skillsync/internal/client/services"
	"github.com/dmitrijs2005/skillsync/internal/common"
	"github.com/dmitrijs2005/skillsync/internal/filex"
	"github.com/dmitrijs2005/skillsync/internal/logging"
	"github.com/redis/go-redis/v9"

	_ "modernc.org/sqlite"
)

// NewApp opens local storage and connects the account core as described
// by c. Call Close (or Run) to release everything.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	logger := logging.New(os.Stderr, "text", c.LogLevel)

	var closers []func() error
	fail := func(err error) (*App, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
		return nil, err
	}

	if err := os.MkdirAll(c.DataDir, 0o770); err != nil {
		return fail(fmt.Errorf("create data dir: %w", err))
	}
	imageDir, err := filex.EnsureSubdDir(c.DataDir, "images")
	if err != nil {
		return fail(err)
	}

	db, err := openLocalDB(ctx, filepath.Join(c.DataDir, "local.db"))
	if err != nil {
		return fail(err)
	}
	closers = append(closers, db.Close)

	var store kv.Repository
	switch c.StoreBackend {
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return fail(fmt.Errorf("redis %s: %w", c.RedisAddr, err))
		}
		closers = append(closers, rdb.Close)
		store = kv.NewRedisRepository(rdb, c.RedisPrefix, common.ProfileNamespace)
	default:
		store = kv.NewSQLiteRepository(db, common.ProfileNamespace)
	}

	provider, err := identity.NewGRPCProvider(c.IdentityEndpoint, store.WithNamespace(common.IdentityNamespace))
	if err != nil {
		return fail(err)
	}
	closers = append(closers, provider.Close)

	opts := []services.ProfileOption{services.WithProfileLogger(logger.With("component", "profile"))}
	if c.Mirror.Enabled() {
		mirror, err := services.NewS3Mirror(ctx, services.MirrorConfig{
			Bucket:    c.Mirror.Bucket,
			Region:    c.Mirror.Region,
			Endpoint:  c.Mirror.Endpoint,
			AccessKey: c.Mirror.AccessKey,
			SecretKey: c.Mirror.SecretKey,
		})
		if err != nil {
			return fail(err)
		}
		opts = append(opts, services.WithMirror(mirror, images.NewSQLiteRepository(db)))
	}

	profile, err := services.NewProfileStore(ctx, store, services.ProfileConfig{
		ImageDir:    imageDir,
		Placeholder: c.ProfilePlaceholder,
		Scope:       c.ProfileScope,
	}, opts...)
	if err != nil {
		return fail(err)
	}

	manager := services.NewManager(provider, profile, logger.With("component", "session"),
		services.WithProviderTimeout(c.ProviderTimeout),
		services.WithSignOutOnClose(c.SignOutOnExit),
	)
	profile.SetReporter(manager)

	if err := manager.Initialize(ctx); err != nil {
		logger.Warn(ctx, "restore session failed", "error", err)
	}

	app := newApp(c, logger, manager, profile, provider)
	app.closers = closers
	return app, nil
}

func openLocalDB(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open local database: %w", err)
	}
	// one writer keeps sqlite from returning SQLITE_BUSY
	db.SetMaxOpenConns(1)
	if err := migrations.Up(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
