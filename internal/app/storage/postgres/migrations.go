package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// statements are applied in order at startup. Each is idempotent so the
// service can re-run them on every boot.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS invoices (
		id UUID PRIMARY KEY,
		invoice_id TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		bill_address TEXT NOT NULL DEFAULT '',
		issue_date TIMESTAMPTZ NOT NULL,
		line_items JSONB NOT NULL DEFAULT '[]',
		amount_paid BIGINT NOT NULL DEFAULT 0,
		created_by TEXT NOT NULL DEFAULT '',
		next_due_date TIMESTAMPTZ NOT NULL,
		total_amount BIGINT NOT NULL DEFAULT 0,
		payment_status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_created_at ON invoices (created_at)`,
}

// Apply executes all schema migrations sequentially.
func Apply(ctx context.Context, db *sql.DB) error {
	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
