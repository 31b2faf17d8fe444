// Package cache persists rendered HTML across restarts so an unchanged body
// does not go through markdown conversion again.
package cache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/RagibHasin/mudawanah/internal/config"
)

// Cache is a SQLite-backed render cache. Entries are keyed by the qualified
// record key ("posts/hello.en") and guarded by a hash of the raw body, so a
// changed body is a miss rather than stale HTML.
type Cache struct {
	db *sqlx.DB
}

// New opens the SQLite database at the configured path and ensures the
// render table exists.
func New(cfg config.CacheConfig) (*Cache, error) {
	db, err := sqlx.Connect("sqlite", cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite cache: %w", err)
	}

	// WAL mode is generally better for concurrency.
	_, err = db.Exec("PRAGMA journal_mode=WAL;")
	if err != nil {
		return nil, fmt.Errorf("failed to set WAL mode on sqlite cache: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS rendered (
		key TEXT PRIMARY KEY,
		hash TEXT NOT NULL,
		html BLOB,
		rendered_at INTEGER
	);
	`
	_, err = db.Exec(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Get retrieves the cached HTML for key. It returns nil when the key is
// absent or was rendered from a different body hash; neither is an error.
func (c *Cache) Get(key, hash string) ([]byte, error) {
	var item struct {
		Hash string `db:"hash"`
		HTML []byte `db:"html"`
	}
	query := `SELECT hash, html FROM rendered WHERE key = ?`
	err := c.db.Get(&item, query, key)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // cache miss
		}
		return nil, fmt.Errorf("failed to get item from cache: %w", err)
	}

	if item.Hash != hash {
		// The body changed since this entry was rendered.
		return nil, nil
	}
	return item.HTML, nil
}

// Set stores the rendered HTML for key together with its body hash.
func (c *Cache) Set(key, hash string, html []byte) error {
	query := `INSERT OR REPLACE INTO rendered (key, hash, html, rendered_at) VALUES (?, ?, ?, ?)`
	_, err := c.db.Exec(query, key, hash, html, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to set item in cache: %w", err)
	}
	return nil
}

// Delete removes an entry from the cache.
func (c *Cache) Delete(key string) error {
	query := `DELETE FROM rendered WHERE key = ?`
	_, err := c.db.Exec(query, key)
	if err != nil {
		return fmt.Errorf("failed to delete item from cache: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}
