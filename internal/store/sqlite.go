package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gembakit/photopair/internal/photo"
)

// SQLite is a single-file analysis cache.
type SQLite struct {
	db *sql.DB
}

var _ Cache = (*SQLite)(nil)

// OpenSQLite opens (and creates if needed) the cache database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent use.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	const schema = `
		CREATE TABLE IF NOT EXISTS cache (
			key        TEXT PRIMARY KEY,
			analysis   TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) (*photo.Analysis, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT analysis FROM cache WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}

	var analysis photo.Analysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		// A corrupt entry behaves like a miss; it gets overwritten on
		// the next Put.
		return nil, nil
	}
	return &analysis, nil
}

func (s *SQLite) Put(ctx context.Context, key string, analysis *photo.Analysis) error {
	raw, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO cache (key, analysis, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET analysis = excluded.analysis, created_at = excluded.created_at`,
		key, string(raw), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
