package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/skillsync/internal/dbx"
)

// SQLiteRepository stores every namespace in the kv table.
type SQLiteRepository struct {
	db dbx.DBTX
	ns string
}

// NewSQLiteRepository binds db to namespace.
func NewSQLiteRepository(db dbx.DBTX, namespace string) *SQLiteRepository {
	return &SQLiteRepository{db: db, ns: namespace}
}

func (r *SQLiteRepository) Namespace() string { return r.ns }

// WithNamespace returns a repository over the same table bound to ns.
func (r *SQLiteRepository) WithNamespace(ns string) Repository {
	return &SQLiteRepository{db: r.db, ns: ns}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE namespace = ? AND key = ?`, r.ns, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get kv[%s/%s]: %w", r.ns, key, err)
	}
	return value, true, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO kv (namespace, key, value) VALUES (?, ?, ?)
		ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value
	`, r.ns, key, value)
	if err != nil {
		return fmt.Errorf("failed to put kv[%s/%s]: %w", r.ns, key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE namespace = ? AND key = ?`, r.ns, key)
	if err != nil {
		return fmt.Errorf("failed to delete kv[%s/%s]: %w", r.ns, key, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE namespace = ?`, r.ns)
	if err != nil {
		return fmt.Errorf("failed to clear kv[%s]: %w", r.ns, err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM kv WHERE namespace = ?`, r.ns)
	if err != nil {
		return nil, fmt.Errorf("failed to list kv[%s]: %w", r.ns, err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan kv row: %w", err)
		}
		result[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate kv rows: %w", err)
	}

	return result, nil
}
