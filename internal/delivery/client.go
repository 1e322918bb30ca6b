// Package delivery forwards received QR payloads to the ingestion boundary
// over HTTP, with bounded retries so transient network failures do not lose
// scan events.
package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"stock-ingest/internal/config"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// Deliverer sends one raw payload across the process boundary.
type Deliverer interface {
	Deliver(ctx context.Context, raw string) error
}

// ingestRequest mirrors the ingestion boundary's wire format.
type ingestRequest struct {
	QRText string `json:"qr_text"`
}

// Client delivers payloads to the ingestion endpoint with retry/backoff.
type Client struct {
	httpClient *http.Client
	ingestURL  string
	maxRetries uint64
	retryDelay time.Duration
	logger     zerolog.Logger
}

// NewClient creates a new delivery client. The HTTP client timeout bounds
// each individual attempt, separately from the overall retry budget.
func NewClient(cfg config.DeliveryConfig, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.AttemptTimeout},
		ingestURL:  cfg.IngestURL,
		maxRetries: uint64(cfg.MaxAttempts - 1),
		retryDelay: cfg.RetryDelay,
		logger:     logger.With().Str("component", "delivery").Logger(),
	}
}

// Deliver POSTs the raw payload to the ingestion endpoint. A non-2xx status
// or transport error counts as a failed attempt; attempts are separated by a
// fixed delay until the retry budget is exhausted. On exhaustion the payload
// is logged in full so the event can be replayed by hand; the message is
// dropped from the broker's perspective regardless of the outcome.
func (c *Client) Deliver(ctx context.Context, raw string) error {
	body, err := json.Marshal(ingestRequest{QRText: raw})
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	attempt := 0
	operation := func() error {
		attempt++
		return c.post(ctx, body)
	}

	notify := func(err error, next time.Duration) {
		c.logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("retry_in", next).
			Msg("delivery attempt failed")
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.retryDelay), c.maxRetries),
		ctx,
	)

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		c.logger.Error().
			Err(err).
			Int("attempts", attempt).
			Str("raw_payload", raw).
			Msg("delivery permanently failed, payload dropped")
		return fmt.Errorf("delivery failed after %d attempts: %w", attempt, err)
	}

	c.logger.Info().
		Int("attempts", attempt).
		Str("raw_payload", raw).
		Msg("payload delivered")

	return nil
}

// post performs a single delivery attempt.
func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ingestURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach ingestion endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Read a little of the body for diagnostics.
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("ingestion endpoint returned status %d: %s", resp.StatusCode, msg)
	}

	return nil
}
