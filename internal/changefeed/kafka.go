// internal/changefeed/kafka.go

package changefeed

import (
	"context"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"truckwatch/internal/domain/feed"
)

// NewKafkaReader returns a configured kafka.Reader for the change topic
func NewKafkaReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
}

// KafkaConsumer tails a Kafka topic carrying change batches. Each record
// value is a JSON array of change events.
type KafkaConsumer struct {
	reader  *kafka.Reader
	handler feed.Handler
	logger  *zap.Logger
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewKafkaConsumer creates a new Kafka change feed consumer
func NewKafkaConsumer(reader *kafka.Reader, handler feed.Handler, logger *zap.Logger) *KafkaConsumer {
	return &KafkaConsumer{
		reader:  reader,
		handler: handler,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// Start begins the read loop
func (c *KafkaConsumer) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	go c.run(runCtx)

	return nil
}

func (c *KafkaConsumer) run(ctx context.Context) {
	defer close(c.done)

	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("kafka read failed", zap.Error(err))
			continue
		}

		events, err := feed.DecodeBatch(m.Value)
		if err != nil {
			c.logger.Error("discarding malformed change batch",
				zap.Int64("offset", m.Offset),
				zap.Error(err),
			)
			continue
		}

		if err := c.handler.HandleBatch(ctx, events); err != nil {
			c.logger.Error("change batch handling failed",
				zap.Int64("offset", m.Offset),
				zap.Error(err),
			)
		}
	}
}

// Stop cancels the read loop and closes the reader
func (c *KafkaConsumer) Stop(ctx context.Context) error {
	if c.cancel != nil {
		c.cancel()
	}

	select {
	case <-c.done:
	case <-ctx.Done():
	}

	return c.reader.Close()
}
