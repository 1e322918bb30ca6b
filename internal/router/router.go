package router

import (
	"net/http"

	"stock-ingest/internal/handler"
	"stock-ingest/internal/middleware"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(scanHandler *handler.ScanHandler, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	// Ingestion boundary (both with and without trailing slash)
	mux.HandleFunc("/api/store_qr", scanHandler.StoreQR)
	mux.HandleFunc("/api/store_qr/", scanHandler.StoreQR)

	// Apply middleware in order: Recovery -> Logging -> Metrics
	var h http.Handler = mux
	h = middleware.Metrics(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
