// Package metrics exposes Prometheus collectors for the ingestion pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const prefix = "stock_ingest"

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Scan pipeline metrics
	ScansReceivedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_scans_received_total",
			Help: "Total number of QR payloads received at the ingestion boundary",
		},
	)

	ScansProcessedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_scans_processed_total",
			Help: "Total number of scans successfully reconciled into inventory",
		},
	)

	ScanFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_scan_failures_total",
			Help: "Total number of scans that failed, by stage",
		},
		[]string{"reason"},
	)

	// Inventory metrics
	ProductQuantityGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_product_available_quantity",
			Help: "Available quantity per product as of the last reconciliation",
		},
		[]string{"product", "category"},
	)
)

// Failure reasons for ScanFailuresTotal.
const (
	ReasonParse     = "parse"
	ReasonStorage   = "storage"
	ReasonReconcile = "reconcile"
)

// RecordScanFailure increments the failure counter for the given stage.
func RecordScanFailure(reason string) {
	ScanFailuresTotal.WithLabelValues(reason).Inc()
}
