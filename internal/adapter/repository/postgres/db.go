package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=priorityflow sslmode=disable"
func NewDB(connectionString string) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS assets (
	position       INTEGER NOT NULL,
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL DEFAULT '',
	asset_type     TEXT NOT NULL DEFAULT '',
	current_value  NUMERIC NOT NULL DEFAULT 0,
	priority_score INTEGER NOT NULL DEFAULT 0,
	suggestion     TEXT NOT NULL DEFAULT 'None'
);

CREATE TABLE IF NOT EXISTS events (
	seq           BIGSERIAL PRIMARY KEY,
	asset_id      TEXT NOT NULL,
	suggestion    TEXT NOT NULL DEFAULT '',
	priority_bump INTEGER NOT NULL
);
`

// EnsureSchema creates the assets and events tables when missing
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
