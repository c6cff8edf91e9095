package reminder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Cache is a SQLite-backed snapshot of the last reminder list fetched from
// the backend. The daemon replaces it on every successful refresh and falls
// back to it at startup when the backend is unreachable.
type Cache struct {
	db *sql.DB
}

// OpenCache opens (or creates) the SQLite database at dbPath and ensures
// the snapshot table exists.
func OpenCache(dbPath string) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createTable(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Cache{db: db}, nil
}

func createTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS reminders (
			id                  TEXT    PRIMARY KEY,
			title               TEXT    NOT NULL,
			description         TEXT    NOT NULL DEFAULT '',
			due_date            TEXT    NOT NULL,
			priority            TEXT    NOT NULL DEFAULT 'medium',
			status              TEXT    NOT NULL DEFAULT 'pending',
			is_recurring        INTEGER NOT NULL DEFAULT 0,
			recurrence_type     TEXT    NOT NULL DEFAULT '',
			recurrence_interval INTEGER NOT NULL DEFAULT 0,
			tags                TEXT    NOT NULL DEFAULT '[]',
			created_at          TEXT    NOT NULL,
			updated_at          TEXT    NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Replace swaps the cached snapshot for the given list atomically.
func (c *Cache) Replace(reminders []Reminder) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM reminders`); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO reminders (id, title, description, due_date, priority, status,
			is_recurring, recurrence_type, recurrence_interval, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range reminders {
		tags, err := json.Marshal(r.Tags)
		if err != nil {
			return fmt.Errorf("failed to encode tags: %w", err)
		}

		recurring := 0
		if r.IsRecurring {
			recurring = 1
		}

		_, err = stmt.Exec(r.ID, r.Title, r.Description,
			r.DueDate.UTC().Format(time.RFC3339), r.Priority, r.Status,
			recurring, r.RecurrenceType, r.RecurrenceInterval, string(tags),
			r.CreatedAt.UTC().Format(time.RFC3339), r.UpdatedAt.UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("failed to insert reminder: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// Load returns the cached snapshot ordered by due date.
func (c *Cache) Load() ([]Reminder, error) {
	rows, err := c.db.Query(`
		SELECT id, title, description, due_date, priority, status,
			is_recurring, recurrence_type, recurrence_interval, tags, created_at, updated_at
		FROM reminders ORDER BY due_date ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	defer rows.Close()

	var reminders []Reminder
	for rows.Next() {
		var r Reminder
		var dueDate, tags, createdAt, updatedAt string
		var recurring int

		if err := rows.Scan(&r.ID, &r.Title, &r.Description,
			&dueDate, &r.Priority, &r.Status,
			&recurring, &r.RecurrenceType, &r.RecurrenceInterval, &tags,
			&createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}

		r.IsRecurring = recurring != 0
		r.DueDate, _ = time.Parse(time.RFC3339, dueDate)
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		r.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		_ = json.Unmarshal([]byte(tags), &r.Tags)

		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}
