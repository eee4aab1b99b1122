package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisRepository keeps each namespace in a single hash named
// <prefix><namespace>.
type RedisRepository struct {
	rdb    redis.UniversalClient
	prefix string
	ns     string
}

// NewRedisRepository keeps each namespace in one hash named prefix+namespace.
func NewRedisRepository(rdb redis.UniversalClient, prefix, namespace string) *RedisRepository {
	return &RedisRepository{rdb: rdb, prefix: prefix, ns: namespace}
}

func (r *RedisRepository) hash() string { return r.prefix + r.ns }

func (r *RedisRepository) Namespace() string { return r.ns }

// WithNamespace returns a repository on the same client bound to ns.
func (r *RedisRepository) WithNamespace(ns string) Repository {
	return &RedisRepository{rdb: r.rdb, prefix: r.prefix, ns: ns}
}

func (r *RedisRepository) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.rdb.HGet(ctx, r.hash(), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get kv[%s/%s]: %w", r.ns, key, err)
	}
	return v, true, nil
}

func (r *RedisRepository) Put(ctx context.Context, key, value string) error {
	if err := r.rdb.HSet(ctx, r.hash(), key, value).Err(); err != nil {
		return fmt.Errorf("failed to put kv[%s/%s]: %w", r.ns, key, err)
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, key string) error {
	if err := r.rdb.HDel(ctx, r.hash(), key).Err(); err != nil {
		return fmt.Errorf("failed to delete kv[%s/%s]: %w", r.ns, key, err)
	}
	return nil
}

func (r *RedisRepository) Clear(ctx context.Context) error {
	if err := r.rdb.Del(ctx, r.hash()).Err(); err != nil {
		return fmt.Errorf("failed to clear kv[%s]: %w", r.ns, err)
	}
	return nil
}

func (r *RedisRepository) List(ctx context.Context) (map[string]string, error) {
	m, err := r.rdb.HGetAll(ctx, r.hash()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list kv[%s]: %w", r.ns, err)
	}
	return m, nil
}
