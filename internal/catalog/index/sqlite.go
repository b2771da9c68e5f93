// Package index holds the search index adapter: a derived full-text
// projection of the record store, kept in SQLite FTS5 tables.
//
// Error Contract:
//   - Get returns sentinel.ErrNotFound when no document has the id
//   - Search returns sentinel.ErrInvalidInput for a query FTS5 cannot parse
//   - Other failures wrap sentinel.ErrUnavailable
package index

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Open opens the SQLite database holding every variant's FTS table. An empty
// path opens a private in-memory database, which lives as long as the pool's
// single connection.
func Open(path string) (*sql.DB, error) {
	dsn := ":memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create index directory: %w", err)
		}
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open index database: %w", err)
	}
	// One connection: SQLite has a single writer and :memory: is per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var fts5Enabled bool
	err = db.QueryRowContext(ctx,
		"SELECT COUNT(*) > 0 FROM pragma_compile_options WHERE compile_options = 'ENABLE_FTS5'",
	).Scan(&fts5Enabled)
	if err != nil {
		db.Close() //nolint:errcheck // best-effort cleanup on init failure
		return nil, fmt.Errorf("verify fts5: %w", err)
	}
	if !fts5Enabled {
		db.Close() //nolint:errcheck // best-effort cleanup on init failure
		return nil, fmt.Errorf("fts5 is not enabled in this sqlite build")
	}
	return db, nil
}
