package service

import (
	"context"

	"stock-ingest/internal/model"
)

// IngestService defines the ingestion boundary's single operation: turn a
// raw QR payload into a durable, correct inventory update.
type IngestService interface {
	// StoreScan appends the raw payload to the scan log, decodes it, and
	// reconciles the decoded event into category/product state. The scan
	// record is marked processed only if the reconciliation commits.
	StoreScan(ctx context.Context, raw string) (*model.ScanResult, error)
}
