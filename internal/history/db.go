package history

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

var (
	dbMu   sync.Mutex
	dbPath string
	db     *sql.DB
)

const schema = `
CREATE TABLE IF NOT EXISTS downloads (
	id           TEXT PRIMARY KEY,
	url          TEXT NOT NULL,
	filename     TEXT NOT NULL,
	title        TEXT,
	total_size   INTEGER NOT NULL DEFAULT 0,
	completed_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_downloads_url ON downloads(url);
`

// Configure sets the database path. The connection opens lazily on
// first use; reconfiguring closes any open connection.
func Configure(path string) {
	dbMu.Lock()
	defer dbMu.Unlock()

	if db != nil {
		db.Close()
		db = nil
	}
	dbPath = path
}

// Close closes the database connection if open.
func Close() error {
	dbMu.Lock()
	defer dbMu.Unlock()

	if db == nil {
		return nil
	}
	err := db.Close()
	db = nil
	return err
}

func getDB() (*sql.DB, error) {
	dbMu.Lock()
	defer dbMu.Unlock()

	if db != nil {
		return db, nil
	}
	if dbPath == "" {
		return nil, fmt.Errorf("history database not configured")
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	db = conn
	return db, nil
}

func withTx(fn func(tx *sql.Tx) error) error {
	conn, err := getDB()
	if err != nil {
		return err
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
