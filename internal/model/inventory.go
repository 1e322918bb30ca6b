package model

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products. Categories are created lazily on first
// reference and identified by their exact name.
type Category struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Product is a stocked item, identified by the pair (name, category).
// AvailableQuantity is only ever mutated through atomic in-database adds,
// never read-then-write, so concurrent scans cannot lose updates.
type Product struct {
	ID                uuid.UUID `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	CategoryID        uuid.UUID `json:"categoryId" db:"category_id"`
	AvailableQuantity int64     `json:"availableQuantity" db:"available_quantity"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
}

// ScanRecord is the durable log entry for a single received QR payload.
// It is appended before parsing is attempted, so malformed payloads are
// retained for forensic inspection, and transitions unprocessed -> processed
// exactly once.
type ScanRecord struct {
	ID         uuid.UUID `json:"id" db:"id"`
	RawPayload string    `json:"rawPayload" db:"raw_payload"`
	ReceivedAt time.Time `json:"receivedAt" db:"received_at"`
	Processed  bool      `json:"processed" db:"processed"`
}

// ScanEvent is a decoded QR payload: one inventory increment.
type ScanEvent struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Quantity int64  `json:"quantity"`
}

// ScanResult reports the outcome of a successful reconciliation.
type ScanResult struct {
	ScanID            uuid.UUID `json:"scanId"`
	ProductID         uuid.UUID `json:"productId"`
	AvailableQuantity int64     `json:"availableQuantity"`
}
