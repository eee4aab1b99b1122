package kv

import "context"

// Repository is a flat string key-value store partitioned into
// namespaces. Values are written through immediately; there are no
// transactions.
type Repository interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// List returns every key/value pair of the namespace.
	List(ctx context.Context) (map[string]string, error)
	// Clear removes every key of the namespace.
	Clear(ctx context.Context) error

	Namespace() string
	WithNamespace(ns string) Repository
}
