// Package history records completed downloads in a sqlite database so
// already-fetched episodes can be marked in the episode list and
// reviewed later.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Entry is one completed download.
type Entry struct {
	ID          string
	URL         string
	Filename    string
	Title       string
	TotalSize   int64
	CompletedAt int64
}

// CompletedTime returns the completion timestamp as a time.Time.
func (e Entry) CompletedTime() time.Time {
	return time.Unix(e.CompletedAt, 0)
}

// Add inserts a completed download. A missing ID or timestamp is
// filled in.
func Add(entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CompletedAt == 0 {
		entry.CompletedAt = time.Now().Unix()
	}

	return withTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO downloads (id, url, filename, title, total_size, completed_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				url=excluded.url,
				filename=excluded.filename,
				title=excluded.title,
				total_size=excluded.total_size,
				completed_at=excluded.completed_at
		`, entry.ID, entry.URL, entry.Filename, entry.Title, entry.TotalSize, entry.CompletedAt)
		if err != nil {
			return fmt.Errorf("failed to insert download: %w", err)
		}
		return nil
	})
}

// List returns all completed downloads, newest first.
func List() ([]Entry, error) {
	conn, err := getDB()
	if err != nil {
		return nil, err
	}

	rows, err := conn.Query(`
		SELECT id, url, filename, title, total_size, completed_at
		FROM downloads
		ORDER BY completed_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query downloads: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var title sql.NullString
		if err := rows.Scan(&e.ID, &e.URL, &e.Filename, &title, &e.TotalSize, &e.CompletedAt); err != nil {
			return nil, err
		}
		if title.Valid {
			e.Title = title.String
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Has reports whether a download with the given URL has completed.
func Has(url string) (bool, error) {
	conn, err := getDB()
	if err != nil {
		return false, err
	}

	var count int
	if err := conn.QueryRow("SELECT COUNT(*) FROM downloads WHERE url = ?", url).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to query download existence: %w", err)
	}
	return count > 0, nil
}

// URLSet returns the set of completed download URLs, for marking the
// episode list in one query.
func URLSet() (map[string]bool, error) {
	conn, err := getDB()
	if err != nil {
		return nil, err
	}

	rows, err := conn.Query("SELECT url FROM downloads")
	if err != nil {
		return nil, fmt.Errorf("failed to query URLs: %w", err)
	}
	defer rows.Close()

	urls := make(map[string]bool)
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		urls[u] = true
	}
	return urls, rows.Err()
}

// Remove deletes an entry by ID.
func Remove(id string) error {
	conn, err := getDB()
	if err != nil {
		return err
	}
	_, err = conn.Exec("DELETE FROM downloads WHERE id = ?", id)
	return err
}
