package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the DDL for the stock ingestion tables. The uniqueness
// constraints on categories(name) and products(name, category_id) are what
// make concurrent create-if-absent race-safe.
const Schema = `
	CREATE TABLE IF NOT EXISTS categories (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		category_id UUID NOT NULL REFERENCES categories(id),
		available_quantity BIGINT NOT NULL DEFAULT 0 CHECK (available_quantity >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (name, category_id)
	);

	CREATE TABLE IF NOT EXISTS scan_records (
		id UUID PRIMARY KEY,
		raw_payload TEXT NOT NULL,
		received_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		processed BOOLEAN NOT NULL DEFAULT FALSE
	);

	CREATE INDEX IF NOT EXISTS idx_products_category_id ON products(category_id);
	CREATE INDEX IF NOT EXISTS idx_scan_records_processed ON scan_records(processed);
`

// EnsureSchema creates the tables if they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
