package kv

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/skillsync/internal/client/migrations"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func openSQLite(t *testing.T, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Up(context.Background(), db))
	return db
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

type backend struct {
	name string
	new  func(t *testing.T, ns string) Repository
}

func backends() []backend {
	return []backend{
		{"sqlite", func(t *testing.T, ns string) Repository {
			return NewSQLiteRepository(openSQLite(t, ":memory:"), ns)
		}},
		{"redis", func(t *testing.T, ns string) Repository {
			_, rdb := setupRedis(t)
			return NewRedisRepository(rdb, "skillsync:", ns)
		}},
	}
}

func TestRepository_Contract(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			r := b.new(t, "local_user_data")
			require.Equal(t, "local_user_data", r.Namespace())

			_, ok, err := r.Get(ctx, "user_name_detail")
			require.NoError(t, err)
			assert.False(t, ok, "missing key reports not found")

			require.NoError(t, r.Put(ctx, "user_name_detail", "Ada"))
			require.NoError(t, r.Put(ctx, "user_name_detail", "Grace"))
			require.NoError(t, r.Put(ctx, "user_age_detail", ""))

			v, ok, err := r.Get(ctx, "user_name_detail")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "Grace", v, "last write wins")

			v, ok, err = r.Get(ctx, "user_age_detail")
			require.NoError(t, err)
			assert.True(t, ok, "empty value is still present")
			assert.Equal(t, "", v)

			all, err := r.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, map[string]string{"user_name_detail": "Grace", "user_age_detail": ""}, all)

			require.NoError(t, r.Delete(ctx, "user_age_detail"))
			require.NoError(t, r.Delete(ctx, "absent"))
			_, ok, err = r.Get(ctx, "user_age_detail")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, r.Clear(ctx))
			all, err = r.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestRepository_NamespacesAreIsolated(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			profile := b.new(t, "local_user_data")
			identity := profile.WithNamespace("identity")
			require.Equal(t, "identity", identity.Namespace())

			require.NoError(t, profile.Put(ctx, "k", "profile"))
			require.NoError(t, identity.Put(ctx, "k", "identity"))

			v, _, err := profile.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "profile", v)

			require.NoError(t, identity.Clear(ctx))
			v, ok, err := profile.Get(ctx, "k")
			require.NoError(t, err)
			assert.True(t, ok, "clearing one namespace leaves others intact")
			assert.Equal(t, "profile", v)
		})
	}
}

func TestSQLiteRepository_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "local.db")

	db := openSQLite(t, path)
	require.NoError(t, NewSQLiteRepository(db, "local_user_data").Put(ctx, "user_skills_detail", "Go"))
	require.NoError(t, db.Close())

	reopened := openSQLite(t, path)
	v, ok, err := NewSQLiteRepository(reopened, "local_user_data").Get(ctx, "user_skills_detail")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Go", v)
}

func TestSQLiteRepository_ErrorsAreWrapped(t *testing.T) {
	db := openSQLite(t, ":memory:")
	r := NewSQLiteRepository(db, "ns")
	require.NoError(t, db.Close())

	ctx := context.Background()
	_, _, err := r.Get(ctx, "k")
	require.ErrorContains(t, err, "failed to get kv[ns/k]")
	require.ErrorContains(t, r.Put(ctx, "k", "v"), "failed to put kv[ns/k]")
	require.ErrorContains(t, r.Delete(ctx, "k"), "failed to delete kv[ns/k]")
	require.ErrorContains(t, r.Clear(ctx), "failed to clear kv[ns]")
	_, err = r.List(ctx)
	require.ErrorContains(t, err, "failed to list kv[ns]")
}

func TestRedisRepository_UsesOneHashPerNamespace(t *testing.T) {
	mr, rdb := setupRedis(t)
	ctx := context.Background()
	r := NewRedisRepository(rdb, "skillsync:", "local_user_data")

	require.NoError(t, r.Put(ctx, "user_location_detail", "Riga"))
	assert.Equal(t, "Riga", mr.HGet("skillsync:local_user_data", "user_location_detail"))

	mr.SetError("server down")
	_, _, err := r.Get(ctx, "user_location_detail")
	require.ErrorContains(t, err, "failed to get kv[local_user_data/user_location_detail]")
}
