package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"rab/internal/symbols"
)

// SymbolCache stores workspace-symbol query results with a TTL. Entries
// are keyed by the query string; a repeated query within the TTL window
// returns the cached identities without touching the analyzer.
type SymbolCache struct {
	db  *DB
	ttl time.Duration
}

// NewSymbolCache creates a cache over db with the given entry lifetime.
func NewSymbolCache(db *DB, ttlSeconds int) *SymbolCache {
	return &SymbolCache{db: db, ttl: time.Duration(ttlSeconds) * time.Second}
}

// Get returns the cached identities for query, or (nil, false) when the
// entry is absent or expired. Expired entries are deleted on read.
func (c *SymbolCache) Get(query string) ([]symbols.Identity, bool, error) {
	var valueJSON, expiresAt string

	err := c.db.conn.QueryRow(`
		SELECT value_json, expires_at
		FROM symbol_cache
		WHERE query = ?
	`, query).Scan(&valueJSON, &expiresAt)

	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("symbol cache lookup failed: %w", err)
	}

	expiresAtTime, err := time.Parse(time.RFC3339, expiresAt)
	if err != nil {
		return nil, false, fmt.Errorf("invalid expires_at format: %w", err)
	}
	if time.Now().After(expiresAtTime) {
		_, _ = c.db.conn.Exec("DELETE FROM symbol_cache WHERE query = ?", query)
		return nil, false, nil
	}

	var identities []symbols.Identity
	if err := json.Unmarshal([]byte(valueJSON), &identities); err != nil {
		return nil, false, fmt.Errorf("corrupt symbol cache entry: %w", err)
	}
	return identities, true, nil
}

// Put stores the identities for query, replacing any previous entry.
func (c *SymbolCache) Put(query string, identities []symbols.Identity) error {
	valueJSON, err := json.Marshal(identities)
	if err != nil {
		return fmt.Errorf("failed to encode identities: %w", err)
	}

	now := time.Now()
	_, err = c.db.conn.Exec(`
		INSERT OR REPLACE INTO symbol_cache (query, value_json, expires_at, created_at)
		VALUES (?, ?, ?, ?)
	`, query, string(valueJSON),
		now.Add(c.ttl).Format(time.RFC3339), now.Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("failed to set symbol cache: %w", err)
	}
	return nil
}

// Invalidate drops every cached entry. Called when the workspace changes
// underneath the analyzer.
func (c *SymbolCache) Invalidate() error {
	if _, err := c.db.conn.Exec("DELETE FROM symbol_cache"); err != nil {
		return fmt.Errorf("failed to clear symbol cache: %w", err)
	}
	return nil
}

// CleanupExpired removes every expired entry.
func (c *SymbolCache) CleanupExpired() error {
	now := time.Now().Format(time.RFC3339)
	if _, err := c.db.conn.Exec("DELETE FROM symbol_cache WHERE expires_at < ?", now); err != nil {
		return fmt.Errorf("failed to cleanup symbol cache: %w", err)
	}
	return nil
}

// Stats reports entry count and payload size.
func (c *SymbolCache) Stats() (map[string]interface{}, error) {
	var count, sizeBytes int
	err := c.db.conn.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(LENGTH(value_json)), 0)
		FROM symbol_cache
	`).Scan(&count, &sizeBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to get symbol cache stats: %w", err)
	}

	return map[string]interface{}{
		"entries":    count,
		"size_bytes": sizeBytes,
	}, nil
}
