// Package kv provides the flat, namespaced key-value store that backs all
// local client state.
//
// A Repository is always bound to one namespace; WithNamespace returns a
// sibling view over the same backend. Two backends exist:
//
//   - SQLiteRepository: table kv(namespace, key, value) in the local database
//   - RedisRepository:  one hash per namespace
//
// Writes are immediate; there are no transactions and no per-key versioning.
package kv
