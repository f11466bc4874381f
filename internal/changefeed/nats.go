// internal/changefeed/nats.go

package changefeed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"truckwatch/internal/domain/feed"
)

// NATSConsumer delivers change batches published on a NATS subject. Each
// message body is a JSON array of change events.
type NATSConsumer struct {
	conn    *nats.Conn
	subject string
	handler feed.Handler
	logger  *zap.Logger
	sub     *nats.Subscription
}

// NewNATSConsumer creates a new NATS change feed consumer
func NewNATSConsumer(conn *nats.Conn, subject string, handler feed.Handler, logger *zap.Logger) *NATSConsumer {
	return &NATSConsumer{
		conn:    conn,
		subject: subject,
		handler: handler,
		logger:  logger,
	}
}

// Start subscribes to the change subject
func (c *NATSConsumer) Start(ctx context.Context) error {
	sub, err := c.conn.Subscribe(c.subject, func(msg *nats.Msg) {
		events, err := feed.DecodeBatch(msg.Data)
		if err != nil {
			c.logger.Error("discarding malformed change batch", zap.Error(err))
			return
		}

		if err := c.handler.HandleBatch(context.Background(), events); err != nil {
			c.logger.Error("change batch handling failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("error subscribing to %s: %w", c.subject, err)
	}

	c.sub = sub
	return nil
}

// Stop unsubscribes from the change subject
func (c *NATSConsumer) Stop(ctx context.Context) error {
	if c.sub == nil {
		return nil
	}
	if err := c.sub.Unsubscribe(); err != nil {
		return fmt.Errorf("error unsubscribing from %s: %w", c.subject, err)
	}
	return nil
}

// NATSPublisher relays insert events onto the change subject as
// single-event batches. It backs the ingestion path when the store itself
// has no feed wired.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher creates a new change event publisher
func NewNATSPublisher(conn *nats.Conn, subject string) *NATSPublisher {
	return &NATSPublisher{
		conn:    conn,
		subject: subject,
	}
}

// PublishInsert publishes one insert event as a one-event batch
func (p *NATSPublisher) PublishInsert(ctx context.Context, item feed.Item) error {
	batch := []feed.ChangeEvent{{Operation: feed.OpInsert, Item: item}}

	data, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("error marshaling change batch: %w", err)
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("error publishing change batch: %w", err)
	}

	return nil
}
