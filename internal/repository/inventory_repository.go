package repository

import (
	"context"
	"fmt"

	"stock-ingest/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// inventoryRepository implements the InventoryRepository interface using
// PostgreSQL. All mutations go through upserts on uniqueness constraints so
// that concurrent scans for the same category or product never create
// duplicates or lose increments.
type inventoryRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewInventoryRepository creates a new PostgreSQL-backed inventory repository.
func NewInventoryRepository(pool *pgxpool.Pool, logger zerolog.Logger) InventoryRepository {
	return &inventoryRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "inventory").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *inventoryRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// UpsertCategory resolves or creates a category by exact name.
// The no-op DO UPDATE makes the statement return the existing row's ID on
// conflict, so two concurrent creates both observe the same category.
func (r *inventoryRepository) UpsertCategory(ctx context.Context, tx pgx.Tx, name string) (uuid.UUID, error) {
	query := `
		INSERT INTO categories (id, name)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`

	var id uuid.UUID
	err := tx.QueryRow(ctx, query, uuid.New(), name).Scan(&id)
	if err != nil {
		r.logger.Error().Err(err).Str("category", name).Msg("failed to upsert category")
		return uuid.Nil, fmt.Errorf("failed to upsert category %q: %w", name, err)
	}

	return id, nil
}

// AddQuantity resolves or creates the product and adds qty to its available
// quantity in a single statement. The increment happens inside the upsert
// (available_quantity + EXCLUDED.available_quantity), an atomic add-in-place
// on the row, so interleaved scans of the same product always sum correctly.
func (r *inventoryRepository) AddQuantity(ctx context.Context, tx pgx.Tx, name string, categoryID uuid.UUID, qty int64) (uuid.UUID, int64, error) {
	query := `
		INSERT INTO products (id, name, category_id, available_quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name, category_id) DO UPDATE
		SET available_quantity = products.available_quantity + EXCLUDED.available_quantity
		RETURNING id, available_quantity
	`

	var (
		id       uuid.UUID
		quantity int64
	)
	err := tx.QueryRow(ctx, query, uuid.New(), name, categoryID, qty).Scan(&id, &quantity)
	if err != nil {
		r.logger.Error().Err(err).
			Str("product", name).
			Str("category_id", categoryID.String()).
			Int64("quantity", qty).
			Msg("failed to add product quantity")
		return uuid.Nil, 0, fmt.Errorf("failed to add quantity for product %q: %w", name, err)
	}

	return id, quantity, nil
}

// GetProduct retrieves a product by its (name, category) identity.
func (r *inventoryRepository) GetProduct(ctx context.Context, name string, categoryID uuid.UUID) (*model.Product, error) {
	query := `
		SELECT id, name, category_id, available_quantity, created_at
		FROM products
		WHERE name = $1 AND category_id = $2
	`

	var p model.Product
	err := r.pool.QueryRow(ctx, query, name, categoryID).Scan(&p.ID, &p.Name, &p.CategoryID, &p.AvailableQuantity, &p.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("product", name).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product", name).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}
