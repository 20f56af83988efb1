package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/bridge-core/internal/core/domain"
	"github.com/custodia-labs/bridge-core/internal/core/ports/driven"
)

// Ensure KVStore implements the interface.
var _ driven.KVStore = (*KVStore)(nil)

// KVStore implements driven.KVStore using PostgreSQL. Used when Redis is
// not configured. Expiry is enforced on read; Cleanup sweeps expired rows.
type KVStore struct {
	db *DB
}

// NewKVStore creates a new PostgreSQL-backed KVStore.
func NewKVStore(db *DB) *KVStore {
	return &KVStore{db: db}
}

// Set stores value under key with the given TTL, replacing any existing
// entry.
func (s *KVStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	query := `
		INSERT INTO kv_entries (key, value, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = $2, expires_at = $3
	`

	_, err := s.db.ExecContext(ctx, query, key, value, time.Now().Add(ttl))
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Get retrieves the value for key. Expired rows count as absent.
func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM kv_entries WHERE key = $1 AND expires_at > NOW()`

	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

// Delete removes the entry for key. Missing keys are not an error.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Cleanup removes expired entries.
// Should be called periodically to clean up abandoned flows.
func (s *KVStore) Cleanup(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE expires_at < NOW()`)
	if err != nil {
		return fmt.Errorf("cleanup kv entries: %w", err)
	}
	return nil
}

// Ping checks if the database is reachable.
func (s *KVStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
