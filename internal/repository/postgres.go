package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRecentsRepository stores the recents list in Postgres, for
// deployments that already run one alongside the marketplace backend.
type PostgresRecentsRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRecentsRepository connects to Postgres and ensures the
// app_state table exists.
func NewPostgresRecentsRepository(databaseURL string) (*PostgresRecentsRepository, error) {
	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS app_state (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`
	if _, err := pool.Exec(context.Background(), schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create app_state table: %w", err)
	}

	return &PostgresRecentsRepository{pool: pool}, nil
}

// Close closes the connection pool
func (r *PostgresRecentsRepository) Close() error {
	r.pool.Close()
	return nil
}

// Load reads the persisted recents list. A missing key yields an empty list.
func (r *PostgresRecentsRepository) Load(ctx context.Context) ([]string, error) {
	var raw string
	err := r.pool.QueryRow(ctx,
		`SELECT value FROM app_state WHERE key = $1`, recentsKey).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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
func (r *PostgresRecentsRepository) Save(ctx context.Context, terms []string) error {
	raw, err := json.Marshal(terms)
	if err != nil {
		return fmt.Errorf("failed to encode recents: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO app_state (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, recentsKey, string(raw))
	if err != nil {
		return fmt.Errorf("failed to save recents: %w", err)
	}
	return nil
}

// Clear removes the persisted value entirely.
func (r *PostgresRecentsRepository) Clear(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx,
		`DELETE FROM app_state WHERE key = $1`, recentsKey); err != nil {
		return fmt.Errorf("failed to clear recents: %w", err)
	}
	return nil
}
