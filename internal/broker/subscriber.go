// Package broker owns the MQTT connection lifecycle for the scan feed:
// connect, subscribe, dispatch inbound payloads, and reconnect after a lost
// connection.
package broker

import (
	"context"
	"sync/atomic"
	"time"

	"stock-ingest/internal/delivery"

	"github.com/rs/zerolog"
)

// State is the subscriber's connection state.
type State int32

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

// Client abstracts the broker connection used by the Subscriber, so the
// reconnect behaviour can be exercised without a live broker.
type Client interface {
	// Connect establishes the broker connection, honouring ctx cancellation.
	Connect(ctx context.Context) error

	// Subscribe registers the message handler on the given topic. Handlers
	// are invoked sequentially in arrival order.
	Subscribe(topic string, handler func(topic string, payload []byte)) error

	// Disconnect releases the connection.
	Disconnect()

	// ConnectionLost yields an error when an established connection drops.
	ConnectionLost() <-chan error
}

// Subscriber runs the broker connection state machine for the lifetime of
// the process: Disconnected -> Connecting -> Connected, back to Disconnected
// on any transport error, with a fixed reconnect delay and no attempt cap.
// Each inbound message is handed to the Deliverer exactly once; delivery
// failures are logged and never propagate back to the broker.
type Subscriber struct {
	client         Client
	deliverer      delivery.Deliverer
	topic          string
	reconnectDelay time.Duration
	logger         zerolog.Logger

	state atomic.Int32
	ctx   context.Context
}

// NewSubscriber creates a subscriber for the given topic.
func NewSubscriber(client Client, deliverer delivery.Deliverer, topic string, reconnectDelay time.Duration, logger zerolog.Logger) *Subscriber {
	return &Subscriber{
		client:         client,
		deliverer:      deliverer,
		topic:          topic,
		reconnectDelay: reconnectDelay,
		logger:         logger.With().Str("component", "subscriber").Logger(),
	}
}

// State reports the current connection state.
func (s *Subscriber) State() State {
	return State(s.state.Load())
}

func (s *Subscriber) setState(next State) {
	prev := State(s.state.Swap(int32(next)))
	if prev != next {
		s.logger.Debug().
			Stringer("from", prev).
			Stringer("to", next).
			Msg("subscriber state changed")
	}
}

// Run drives the connection loop until ctx is cancelled. It only returns on
// cancellation; connection and subscription failures are retried forever.
func (s *Subscriber) Run(ctx context.Context) error {
	s.ctx = ctx

	for {
		s.setState(Connecting)

		if err := s.client.Connect(ctx); err != nil {
			if ctx.Err() != nil {
				s.setState(Disconnected)
				return nil
			}
			s.logger.Error().
				Err(err).
				Dur("retry_in", s.reconnectDelay).
				Msg("broker connection failed")
			s.setState(Disconnected)
			if !sleep(ctx, s.reconnectDelay) {
				return nil
			}
			continue
		}

		if err := s.client.Subscribe(s.topic, s.onMessage); err != nil {
			s.logger.Error().
				Err(err).
				Str("topic", s.topic).
				Dur("retry_in", s.reconnectDelay).
				Msg("broker subscription failed")
			s.client.Disconnect()
			s.setState(Disconnected)
			if !sleep(ctx, s.reconnectDelay) {
				return nil
			}
			continue
		}

		s.setState(Connected)
		s.logger.Info().Str("topic", s.topic).Msg("subscribed, waiting for messages")

		select {
		case <-ctx.Done():
			s.client.Disconnect()
			s.setState(Disconnected)
			s.logger.Info().Msg("subscriber stopped")
			return nil

		case err := <-s.client.ConnectionLost():
			s.logger.Warn().
				Err(err).
				Dur("retry_in", s.reconnectDelay).
				Msg("broker connection lost")
			s.setState(Disconnected)
			if !sleep(ctx, s.reconnectDelay) {
				return nil
			}
		}
	}
}

// onMessage forwards one inbound payload. The message is consumed whatever
// the delivery outcome: after the delivery client's retries are exhausted
// the payload is only logged, an accepted at-most-once trade-off.
func (s *Subscriber) onMessage(topic string, payload []byte) {
	raw := string(payload)

	s.logger.Info().
		Str("topic", topic).
		Str("raw_payload", raw).
		Msg("received QR data")

	if err := s.deliverer.Deliver(s.ctx, raw); err != nil {
		s.logger.Error().
			Err(err).
			Str("raw_payload", raw).
			Msg("failed to deliver QR data")
	}
}

// sleep waits for d or the context, reporting false on cancellation.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
