// Package storage caches workspace-symbol lookups in a local SQLite
// database so repeated queries skip the analyzer round trip.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"rab/internal/logging"
)

// DB is the cache database connection.
type DB struct {
	conn   *sql.DB
	logger *logging.Logger
	dbPath string
}

const schema = `
CREATE TABLE IF NOT EXISTS symbol_cache (
	query       TEXT PRIMARY KEY,
	value_json  TEXT NOT NULL,
	expires_at  TEXT NOT NULL,
	created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_symbol_cache_expires ON symbol_cache(expires_at);
`

// Open opens or creates the cache database at workspaceRoot/.rab/cache.db.
func Open(workspaceRoot string, logger *logging.Logger) (*DB, error) {
	rabDir := filepath.Join(workspaceRoot, ".rab")
	if err := os.MkdirAll(rabDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .rab directory: %w", err)
	}

	dbPath := filepath.Join(rabDir, "cache.db")

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Debug("Opened symbol cache", map[string]interface{}{
		"path": dbPath,
	})

	return &DB{conn: conn, logger: logger, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}
