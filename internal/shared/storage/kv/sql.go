package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pdfextract-backend/internal/shared/storage/db"
)

// SQLStore keeps records in the records table created by the db migrations.
// It serves both Postgres and SQLite.
type SQLStore struct {
	db     *sql.DB
	putSQL string
	getSQL string
}

func NewSQLStore(database *sql.DB, dialect db.Dialect) *SQLStore {
	s := &SQLStore{db: database}
	switch dialect {
	case db.SQLite:
		s.putSQL = `INSERT INTO records (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
		s.getSQL = `SELECT value FROM records WHERE key = ?`
	default:
		s.putSQL = `INSERT INTO records (key, value, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
		s.getSQL = `SELECT value FROM records WHERE key = $1`
	}
	return s
}

func (s *SQLStore) Put(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, s.putSQL, key, value); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, s.getSQL, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
