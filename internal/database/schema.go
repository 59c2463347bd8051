package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS customers (
        id           BIGINT PRIMARY KEY,
        name         TEXT NOT NULL,
        employees    INTEGER NOT NULL CHECK (employees >= 0),
        contact_info JSONB,
        size         TEXT NOT NULL,
        industry     TEXT NOT NULL,
        address      JSONB
    )`,
	`CREATE INDEX IF NOT EXISTS customers_size_industry_idx ON customers (size, industry)`,
}

// Migrate creates the customers table and its indexes when they are missing.
func Migrate(ctx context.Context, db execer) error {
	for i, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
