// Package postgres provides a PostgreSQL-backed storage driver for cart
// snapshots, keyed by storage key in a single table.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgxpool.Pool the store depends on. Tests satisfy
// it with pgxmock.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	createTableSQL = `
		CREATE TABLE IF NOT EXISTS cart_snapshots (
			storage_key TEXT PRIMARY KEY,
			data        BYTEA NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`

	upsertSQL = `
		INSERT INTO cart_snapshots (storage_key, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (storage_key)
		DO UPDATE SET data = EXCLUDED.data, updated_at = now()`

	selectSQL = `SELECT data FROM cart_snapshots WHERE storage_key = $1`

	deleteSQL = `DELETE FROM cart_snapshots WHERE storage_key = $1`
)

// Store implements storage.Driver using PostgreSQL.
type Store struct {
	db Querier
}

// New creates a new PostgreSQL-backed store.
func New(db Querier) *Store {
	return &Store{db: db}
}

// Migrate creates the snapshot table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create cart_snapshots table: %w", err)
	}
	return nil
}

// Save upserts the blob under the key.
func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	if _, err := s.db.Exec(ctx, upsertSQL, key, data); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

// Restore retrieves the blob stored under the key, if any.
func (s *Store) Restore(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	if err := s.db.QueryRow(ctx, selectSQL, key).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("select snapshot: %w", err)
	}
	return data, true, nil
}

// Clear removes the blob stored under the key.
func (s *Store) Clear(ctx context.Context, key string) error {
	if _, err := s.db.Exec(ctx, deleteSQL, key); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}
