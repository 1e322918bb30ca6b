package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"stock-ingest/internal/model"
	"stock-ingest/internal/service"

	"github.com/rs/zerolog"
)

// StoreQRRequest is the wire format accepted by the ingestion boundary.
// The "qr_text" key is fixed for interoperability with existing scanners
// and listeners.
type StoreQRRequest struct {
	QRText string `json:"qr_text"`
}

// StoreQRResponse acknowledges a successfully reconciled scan.
type StoreQRResponse struct {
	Success           string `json:"success"`
	ScanID            string `json:"scan_id"`
	ProductID         string `json:"product_id"`
	AvailableQuantity int64  `json:"available_quantity"`
}

// ScanHandler handles QR scan ingestion requests.
type ScanHandler struct {
	service service.IngestService
	logger  zerolog.Logger
}

// NewScanHandler creates a new scan handler.
func NewScanHandler(service service.IngestService, logger zerolog.Logger) *ScanHandler {
	return &ScanHandler{
		service: service,
		logger:  logger.With().Str("handler", "scan").Logger(),
	}
}

// StoreQR handles POST /api/store_qr requests.
func (h *ScanHandler) StoreQR(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req StoreQRRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn().Err(err).Msg("invalid request body")
		writeError(w, http.StatusBadRequest, "invalid JSON request body", h.logger)
		return
	}

	result, err := h.service.StoreScan(r.Context(), req.QRText)
	if err != nil {
		// Parse failures are the client's fault; everything else is a
		// storage or reconciliation problem on our side. Neither crashes
		// the server.
		var domainErr *model.DomainError
		if errors.As(err, &domainErr) {
			writeError(w, http.StatusBadRequest, domainErr.Message, h.logger)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to store QR code data", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, StoreQRResponse{
		Success:           "QR code data stored successfully",
		ScanID:            result.ScanID.String(),
		ProductID:         result.ProductID.String(),
		AvailableQuantity: result.AvailableQuantity,
	})
}
