// Package sqlite provides a SQLite-backed time-to-live cache.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Registers the sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

// InMemory opens a private cache that lives only as long as the process
const InMemory = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS cache (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	stored_at INTEGER NOT NULL
);
`

// Cache stores string values with a time-to-live
type Cache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// DefaultCachePath returns <user cache dir>/extenscan/cache.db
func DefaultCachePath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate cache directory: %w", err)
	}
	return filepath.Join(dir, "extenscan", "cache.db"), nil
}

// Open opens or creates the cache database at path. Entries older than
// ttlHours are treated as missing.
func Open(path string, ttlHours uint64) (*Cache, error) {
	if path != InMemory {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	if path == InMemory {
		// Each connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		//nolint:errcheck // Close after failed ping
		db.Close()
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		//nolint:errcheck // Close after failed migration
		db.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}

	return &Cache{
		db:  db,
		ttl: time.Duration(ttlHours) * time.Hour,
		now: time.Now,
	}, nil
}

// Get returns a live entry
func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	var (
		value    string
		storedAt int64
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT value, stored_at FROM cache WHERE key = ?`, SanitizeKey(key)).
		Scan(&value, &storedAt)
	if err != nil {
		return "", false
	}

	if c.now().Sub(time.Unix(storedAt, 0)) > c.ttl {
		return "", false
	}
	return value, true
}

// Set stores value under key, replacing any previous entry
func (c *Cache) Set(ctx context.Context, key, value string) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO cache (key, value, stored_at) VALUES (?, ?, ?)`,
		SanitizeKey(key), value, c.now().Unix())
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Clear removes every entry
func (c *Cache) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM cache`); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// Prune deletes expired entries and returns how many were removed
func (c *Cache) Prune(ctx context.Context) (int64, error) {
	cutoff := c.now().Add(-c.ttl).Unix()
	res, err := c.db.ExecContext(ctx, `DELETE FROM cache WHERE stored_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned entries: %w", err)
	}
	return n, nil
}

// Close releases the database handle
func (c *Cache) Close() error {
	if c.db == nil {
		return errors.New("cache already closed")
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// SanitizeKey replaces every character outside [A-Za-z0-9_-] with '_'
func SanitizeKey(key string) string {
	out := []byte(key)
	for i := 0; i < len(out); i++ {
		b := out[i]
		switch {
		case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9', b == '_', b == '-':
		default:
			out[i] = '_'
		}
	}
	return string(out)
}
