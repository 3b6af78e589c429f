package respcache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/pokedex/internal/checksum"
)

// Store is the cache surface used by the PokeAPI client.
type Store interface {
	Get(url string) ([]byte, bool, error)
	Put(url string, body []byte) error
}

// Verify *Cache satisfies Store at compile time.
var _ Store = (*Cache)(nil)

// Cache applies a TTL on top of DB. A zero TTL keeps entries forever.
type Cache struct {
	db  *DB
	ttl time.Duration
	now func() time.Time
}

// New creates a Cache over db.
func New(db *DB, ttl time.Duration) *Cache {
	return &Cache{db: db, ttl: ttl, now: time.Now}
}

// Get returns the cached body for url. Expired entries are reported as misses.
func (c *Cache) Get(url string) ([]byte, bool, error) {
	var (
		body      []byte
		fetchedAt time.Time
	)
	err := c.db.conn.QueryRow(`SELECT body, fetched_at FROM responses WHERE key = ?`, checksum.Sum([]byte(url))).
		Scan(&body, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("respcache: get: %w", err)
	}
	if c.ttl > 0 && c.now().Sub(fetchedAt) > c.ttl {
		return nil, false, nil
	}
	return body, true, nil
}

// Put inserts or replaces the body cached for url.
func (c *Cache) Put(url string, body []byte) error {
	_, err := c.db.conn.Exec(`
		INSERT INTO responses (key, url, body, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			body       = excluded.body,
			fetched_at = excluded.fetched_at
	`, checksum.Sum([]byte(url)), url, body, c.now().UTC())
	if err != nil {
		return fmt.Errorf("respcache: put: %w", err)
	}
	return nil
}

// Prune removes entries older than the TTL and returns how many were deleted.
func (c *Cache) Prune() (int64, error) {
	if c.ttl <= 0 {
		return 0, nil
	}
	res, err := c.db.conn.Exec(`DELETE FROM responses WHERE fetched_at < ?`, c.now().Add(-c.ttl).UTC())
	if err != nil {
		return 0, fmt.Errorf("respcache: prune: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of cached responses.
func (c *Cache) Count() (int, error) {
	var n int
	if err := c.db.conn.QueryRow(`SELECT count(*) FROM responses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("respcache: count: %w", err)
	}
	return n, nil
}
