package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecentsRepository stores the recents list in a single-row key/value
// table inside a SQLite database.
type SQLiteRecentsRepository struct {
	db *sql.DB
}

// NewSQLiteRecentsRepository opens (creating if needed) the SQLite database
// at dbPath and ensures the app_state table exists.
func NewSQLiteRecentsRepository(dbPath string) (*SQLiteRecentsRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal=WAL&_fk=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS app_state (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create app_state table: %w", err)
	}

	return &SQLiteRecentsRepository{db: db}, nil
}

// Close closes the database connection
func (r *SQLiteRecentsRepository) Close() error {
	return r.db.Close()
}

// Load reads the persisted recents list. A missing key yields an empty list;
// a corrupt value is an error the caller is expected to swallow.
func (r *SQLiteRecentsRepository) Load(ctx context.Context) ([]string, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM app_state WHERE key = ?`, recentsKey).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load recents: %w", err)
	}

	var terms []string
	if err := json.Unmarshal([]byte(raw), &terms); err != nil {
		return nil, fmt.Errorf("corrupt recents value: %w", err)
	}
	return terms, nil
}

// Save writes the full recents list as one JSON array.
func (r *SQLiteRecentsRepository) Save(ctx context.Context, terms []string) error {
	raw, err := json.Marshal(terms)
	if err != nil {
		return fmt.Errorf("failed to encode recents: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO app_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, recentsKey, string(raw))
	if err != nil {
		return fmt.Errorf("failed to save recents: %w", err)
	}
	return nil
}

// Clear removes the persisted value entirely.
func (r *SQLiteRecentsRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM app_state WHERE key = ?`, recentsKey); err != nil {
		return fmt.Errorf("failed to clear recents: %w", err)
	}
	return nil
}
