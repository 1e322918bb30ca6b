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

// scanRepository implements the ScanRepository interface using PostgreSQL.
type scanRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewScanRepository creates a new PostgreSQL-backed scan repository.
func NewScanRepository(pool *pgxpool.Pool, logger zerolog.Logger) ScanRepository {
	return &scanRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "scan").Logger(),
	}
}

// Append stores a raw payload as an unprocessed ScanRecord.
func (r *scanRepository) Append(ctx context.Context, raw string) (uuid.UUID, error) {
	query := `
		INSERT INTO scan_records (id, raw_payload, processed)
		VALUES ($1, $2, FALSE)
	`

	id := uuid.New()
	if _, err := r.pool.Exec(ctx, query, id, raw); err != nil {
		r.logger.Error().Err(err).Msg("failed to append scan record")
		return uuid.Nil, fmt.Errorf("failed to append scan record: %w", err)
	}

	r.logger.Debug().Str("scan_id", id.String()).Msg("scan record appended")
	return id, nil
}

// MarkProcessed flips a ScanRecord to processed within the transaction.
func (r *scanRepository) MarkProcessed(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	query := `
		UPDATE scan_records
		SET processed = TRUE
		WHERE id = $1 AND processed = FALSE
	`

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error().Err(err).Str("scan_id", id.String()).Msg("failed to mark scan record processed")
		return fmt.Errorf("failed to mark scan record processed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Error().Str("scan_id", id.String()).Msg("scan record missing or already processed")
		return fmt.Errorf("scan record %s missing or already processed", id)
	}

	return nil
}

// GetByID retrieves a single ScanRecord by its ID.
func (r *scanRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ScanRecord, error) {
	query := `
		SELECT id, raw_payload, received_at, processed
		FROM scan_records
		WHERE id = $1
	`

	var rec model.ScanRecord
	err := r.pool.QueryRow(ctx, query, id).Scan(&rec.ID, &rec.RawPayload, &rec.ReceivedAt, &rec.Processed)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("scan_id", id.String()).Msg("scan record not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("scan_id", id.String()).Msg("failed to query scan record")
		return nil, fmt.Errorf("failed to query scan record: %w", err)
	}

	return &rec, nil
}
