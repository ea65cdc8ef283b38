package database

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// New opens the SQLite database at dsn and verifies the connection.
//
// Foreign key checks and a busy timeout are enabled through the DSN so every
// pooled connection gets them, not just the first one.
func New(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("dsn required")
	}

	db, err := sql.Open("sqlite3", withDefaults(dsn))
	if err != nil {
		return nil, err
	}

	// Each connection to an in-memory database is a separate database.
	if isMemory(dsn) {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if !isMemory(dsn) {
		// WAL lets readers proceed while a page save is being written.
		if _, err := db.Exec(`PRAGMA journal_mode = wal;`); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable wal: %w", err)
		}
	}

	return db, nil
}

func isMemory(dsn string) bool {
	return strings.HasPrefix(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

func withDefaults(dsn string) string {
	params := []string{}
	if !strings.Contains(dsn, "_foreign_keys") && !strings.Contains(dsn, "_fk") {
		params = append(params, "_foreign_keys=1")
	}
	if !strings.Contains(dsn, "_busy_timeout") && !strings.Contains(dsn, "_timeout") {
		params = append(params, "_busy_timeout=5000")
	}
	if len(params) == 0 {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

// Migrate creates the schema if it does not exist yet.
func Migrate(db *sql.DB) error {
	_, err := db.Exec(`
-- kanwiki database schema

-- Users are the authors of pages. Names are unique so two concurrent
-- signups for the same name cannot both succeed.
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT UNIQUE NOT NULL,
    pw_hash TEXT NOT NULL,
    email TEXT
);

-- Pages hold exactly one current record per name.
CREATE TABLE IF NOT EXISTS pages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT UNIQUE NOT NULL,
    content TEXT NOT NULL,
    created TIMESTAMP NOT NULL,
    last_modified TIMESTAMP NOT NULL
);

-- Page history receives a copy of the current record before each overwrite.
CREATE TABLE IF NOT EXISTS page_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    page_id INTEGER NOT NULL,
    version INTEGER NOT NULL,
    name TEXT NOT NULL,
    content TEXT NOT NULL,
    created TIMESTAMP NOT NULL,
    last_modified TIMESTAMP NOT NULL,
    FOREIGN KEY(page_id) REFERENCES pages(id),
    UNIQUE (page_id, version)
);

CREATE INDEX IF NOT EXISTS idx_page_history_name ON page_history(name);
`)
	return err
}
