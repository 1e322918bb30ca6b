package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"stock-ingest/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(url string, attempts int) config.DeliveryConfig {
	return config.DeliveryConfig{
		IngestURL:      url,
		MaxAttempts:    attempts,
		RetryDelay:     5 * time.Millisecond,
		AttemptTimeout: 250 * time.Millisecond,
	}
}

func TestClient_Deliver_Success(t *testing.T) {
	logger := zerolog.Nop()

	var gotBody ingestRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"success": "QR code data stored successfully"}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, 5), logger)

	err := client.Deliver(context.Background(), "name=Widget|category=Tools|quantity=5")

	require.NoError(t, err)
	assert.Equal(t, "name=Widget|category=Tools|quantity=5", gotBody.QRText)
}

func TestClient_Deliver_RetriesUntilSuccess(t *testing.T) {
	logger := zerolog.Nop()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, 5), logger)

	err := client.Deliver(context.Background(), "name=Widget|category=Tools|quantity=5")

	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_Deliver_ExhaustsRetries(t *testing.T) {
	logger := zerolog.Nop()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, 3), logger)

	err := client.Deliver(context.Background(), "name=Widget|category=Tools|quantity=5")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_Deliver_TransportError(t *testing.T) {
	logger := zerolog.Nop()

	// Point at a server that is no longer listening.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(testConfig(url, 2), logger)

	err := client.Deliver(context.Background(), "name=Widget|category=Tools|quantity=5")

	require.Error(t, err)
}

func TestClient_Deliver_AttemptTimeout(t *testing.T) {
	logger := zerolog.Nop()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		time.Sleep(150 * time.Millisecond)
	}))
	defer server.Close()

	cfg := testConfig(server.URL, 2)
	cfg.AttemptTimeout = 20 * time.Millisecond
	client := NewClient(cfg, logger)

	err := client.Deliver(context.Background(), "name=Widget|category=Tools|quantity=5")

	require.Error(t, err)
	// The timeout counted as a failed attempt and the retry policy applied.
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_Deliver_ContextCancelled(t *testing.T) {
	logger := zerolog.Nop()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := testConfig(server.URL, 5)
	cfg.RetryDelay = 10 * time.Second
	client := NewClient(cfg, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := client.Deliver(ctx, "name=Widget|category=Tools|quantity=5")

	require.Error(t, err)
	// Cancellation must cut the retry sleep short.
	assert.Less(t, time.Since(start), 2*time.Second)
}
