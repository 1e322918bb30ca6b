package repository

import (
	"context"

	"stock-ingest/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ScanRepository defines the interface for the durable scan log.
type ScanRepository interface {
	// Append stores a raw payload as an unprocessed ScanRecord and returns
	// its ID. It is called before any decoding is attempted so malformed
	// payloads are still retained.
	Append(ctx context.Context, raw string) (uuid.UUID, error)

	// MarkProcessed flips a ScanRecord to processed within the provided
	// transaction. A record is marked at most once, and only after its
	// inventory mutation is part of the same transaction.
	MarkProcessed(ctx context.Context, tx pgx.Tx, id uuid.UUID) error

	// GetByID retrieves a single ScanRecord, or nil if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.ScanRecord, error)
}

// InventoryRepository defines the interface for category/product state.
type InventoryRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// UpsertCategory resolves or creates a category by exact name and
	// returns its ID. Safe under concurrent creates for the same name.
	UpsertCategory(ctx context.Context, tx pgx.Tx, name string) (uuid.UUID, error)

	// AddQuantity resolves or creates the product identified by
	// (name, categoryID) and atomically adds qty to its available
	// quantity, returning the product ID and the new quantity. Concurrent
	// calls for the same product must not lose updates.
	AddQuantity(ctx context.Context, tx pgx.Tx, name string, categoryID uuid.UUID, qty int64) (uuid.UUID, int64, error)

	// GetProduct retrieves a product by (name, categoryID), or nil if it
	// does not exist.
	GetProduct(ctx context.Context, name string, categoryID uuid.UUID) (*model.Product, error)
}
