package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"kickoff/internal/storage/interfaces"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SqliteBackend is a single kv table, the same layout mobile async storage uses on Android.
type SqliteBackend struct {
	sql        *sql.DB
	compressor interfaces.CompressorInterface
}

func OpenSqliteBackend(path string, compressor interfaces.CompressorInterface) (*SqliteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("sqlite backend: %w", err)
	}

	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS kv (
  key        TEXT PRIMARY KEY,
  value      BLOB NOT NULL,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`); err != nil {
		db.Close()
		return nil, err
	}
	return &SqliteBackend{sql: db, compressor: compressor}, nil
}

func (s *SqliteBackend) Name() string {
	return "sqlite"
}

func (s *SqliteBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.sql.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, interfaces.ErrNotFound
		}
		return nil, err
	}
	return s.compressor.Decompress(value)
}

func (s *SqliteBackend) Set(ctx context.Context, key string, value []byte) error {
	data, err := s.compressor.Compress(value)
	if err != nil {
		return err
	}
	_, err = s.sql.ExecContext(ctx, `INSERT INTO kv(key, value, updated_at) VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`, key, data)
	return err
}

func (s *SqliteBackend) Remove(ctx context.Context, key string) error {
	_, err := s.sql.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key)
	return err
}

func (s *SqliteBackend) Close() error {
	if s == nil || s.sql == nil {
		return nil
	}
	return s.sql.Close()
}
