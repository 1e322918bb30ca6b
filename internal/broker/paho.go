package broker

import (
	"context"
	"fmt"
	"time"

	"stock-ingest/internal/config"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// pahoClient implements Client over the Eclipse Paho MQTT client. Paho's
// own auto-reconnect is disabled: the Subscriber owns the reconnect loop so
// re-subscription happens in exactly one place.
type pahoClient struct {
	client mqtt.Client
	lost   chan error
	logger zerolog.Logger
}

// NewPahoClient creates an MQTT-backed broker client from configuration.
func NewPahoClient(cfg config.BrokerConfig, logger zerolog.Logger) Client {
	p := &pahoClient{
		lost:   make(chan error, 1),
		logger: logger.With().Str("component", "mqtt").Logger(),
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.URL()).
		SetClientID(fmt.Sprintf("stock-ingest-%s", uuid.NewString()[:8])).
		SetAutoReconnect(false).
		SetOrderMatters(true).
		SetKeepAlive(60 * time.Second).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			select {
			case p.lost <- err:
			default:
				// A pending notification is already queued.
			}
		})

	p.client = mqtt.NewClient(opts)
	return p
}

// Connect establishes the broker connection, honouring ctx cancellation.
func (p *pahoClient) Connect(ctx context.Context) error {
	token := p.client.Connect()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-token.Done():
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}

	p.logger.Info().Msg("connected to MQTT broker")
	return nil
}

// Subscribe registers the handler on the topic at QoS 0. With OrderMatters
// set, paho invokes the handler sequentially in arrival order.
func (p *pahoClient) Subscribe(topic string, handler func(topic string, payload []byte)) error {
	token := p.client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		handler(msg.Topic(), msg.Payload())
	})
	token.Wait()

	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to subscribe to %q: %w", topic, err)
	}

	return nil
}

// Disconnect releases the connection, allowing in-flight work to finish.
func (p *pahoClient) Disconnect() {
	p.client.Disconnect(250)
}

// ConnectionLost yields an error when an established connection drops.
func (p *pahoClient) ConnectionLost() <-chan error {
	return p.lost
}
