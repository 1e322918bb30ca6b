package service

import (
	"context"
	"fmt"

	"stock-ingest/internal/metrics"
	"stock-ingest/internal/model"
	"stock-ingest/internal/qrcodec"
	"stock-ingest/internal/repository"

	"github.com/rs/zerolog"
)

// ingestService implements IngestService.
type ingestService struct {
	scanRepo      repository.ScanRepository
	inventoryRepo repository.InventoryRepository
	logger        zerolog.Logger
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	scanRepo repository.ScanRepository,
	inventoryRepo repository.InventoryRepository,
	logger zerolog.Logger,
) IngestService {
	return &ingestService{
		scanRepo:      scanRepo,
		inventoryRepo: inventoryRepo,
		logger:        logger.With().Str("service", "ingest").Logger(),
	}
}

// StoreScan processes one received QR payload end to end.
func (s *ingestService) StoreScan(ctx context.Context, raw string) (*model.ScanResult, error) {
	metrics.ScansReceivedTotal.Inc()

	// Append before decoding so malformed payloads are retained for
	// forensic inspection and replay.
	scanID, err := s.scanRepo.Append(ctx, raw)
	if err != nil {
		metrics.RecordScanFailure(metrics.ReasonStorage)
		return nil, fmt.Errorf("failed to store scan: %w", err)
	}

	event, err := qrcodec.Decode(raw)
	if err != nil {
		// The scan record stays unprocessed; no inventory mutation occurs.
		metrics.RecordScanFailure(metrics.ReasonParse)
		s.logger.Warn().
			Err(err).
			Str("scan_id", scanID.String()).
			Str("raw_payload", raw).
			Msg("failed to decode QR payload")
		return nil, err
	}

	// Reconcile category, product and the scan flag in one transaction so
	// a scan is marked processed only when its increment commits.
	tx, err := s.inventoryRepo.BeginTx(ctx)
	if err != nil {
		metrics.RecordScanFailure(metrics.ReasonReconcile)
		return nil, fmt.Errorf("failed to reconcile scan: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	categoryID, err := s.inventoryRepo.UpsertCategory(ctx, tx, event.Category)
	if err != nil {
		metrics.RecordScanFailure(metrics.ReasonReconcile)
		return nil, fmt.Errorf("failed to reconcile scan: %w", err)
	}

	productID, quantity, err := s.inventoryRepo.AddQuantity(ctx, tx, event.Name, categoryID, event.Quantity)
	if err != nil {
		metrics.RecordScanFailure(metrics.ReasonReconcile)
		return nil, fmt.Errorf("failed to reconcile scan: %w", err)
	}

	if err = s.scanRepo.MarkProcessed(ctx, tx, scanID); err != nil {
		metrics.RecordScanFailure(metrics.ReasonReconcile)
		return nil, fmt.Errorf("failed to reconcile scan: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		metrics.RecordScanFailure(metrics.ReasonReconcile)
		s.logger.Error().Err(err).Str("scan_id", scanID.String()).Msg("failed to commit reconciliation")
		return nil, fmt.Errorf("failed to reconcile scan: %w", err)
	}

	metrics.ScansProcessedTotal.Inc()
	metrics.ProductQuantityGauge.WithLabelValues(event.Name, event.Category).Set(float64(quantity))

	s.logger.Info().
		Str("scan_id", scanID.String()).
		Str("product_id", productID.String()).
		Str("product", event.Name).
		Str("category", event.Category).
		Int64("added", event.Quantity).
		Int64("available_quantity", quantity).
		Msg("scan reconciled")

	return &model.ScanResult{
		ScanID:            scanID,
		ProductID:         productID,
		AvailableQuantity: quantity,
	}, nil
}
