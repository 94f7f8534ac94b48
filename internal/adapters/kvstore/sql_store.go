package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

const DefaultTable = "kv_store"

var _ domain.KVStore = (*SQLStore)(nil)

// SQLStore keeps key-value pairs in a single table. It works on any driver
// sqlx knows the bind style of and that supports INSERT ... ON CONFLICT
// (Postgres, SQLite 3.24+).
type SQLStore struct {
	db    *sqlx.DB
	table string
}

func NewSQLStore(db *sqlx.DB, table string) *SQLStore {
	if table == "" {
		table = DefaultTable
	}
	return &SQLStore{
		db:    db,
		table: pq.QuoteIdentifier(table),
	}
}

func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            store_key   TEXT PRIMARY KEY,
            store_value TEXT NOT NULL,
            updated_at  TIMESTAMP NOT NULL
        )`, s.table)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create %s: %w", s.table, err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, error) {
	query := s.db.Rebind(fmt.Sprintf(`SELECT store_value FROM %s WHERE store_key = ?`, s.table))

	var value string
	if err := s.db.GetContext(ctx, &value, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrKeyNotFound
		}
		return "", fmt.Errorf("select query failed: %w", err)
	}
	return value, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	query := s.db.Rebind(fmt.Sprintf(`
        INSERT INTO %s (store_key, store_value, updated_at)
        VALUES (?, ?, ?)
        ON CONFLICT (store_key) DO UPDATE SET
            store_value = excluded.store_value,
            updated_at = excluded.updated_at`, s.table))

	if _, err := s.db.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert query failed: %w", err)
	}
	return nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
