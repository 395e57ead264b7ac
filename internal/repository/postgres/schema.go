package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema creates the users table if it does not exist yet.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id SERIAL PRIMARY KEY,
	name VARCHAR NOT NULL,
	email VARCHAR NOT NULL
)`

// EnsureSchema prepares the users table.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}
