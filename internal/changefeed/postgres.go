// internal/changefeed/postgres.go

package changefeed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"

	"truckwatch/internal/domain/feed"
)

// PostgresListener consumes the storage layer's own change feed via
// LISTEN/NOTIFY. Each notification payload carries a single change event,
// delivered to the handler as a one-event batch.
type PostgresListener struct {
	db      *pgxpool.Pool
	channel string
	handler feed.Handler
	logger  *zap.Logger
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewPostgresListener creates a new listener on the given NOTIFY channel
func NewPostgresListener(db *pgxpool.Pool, channel string, handler feed.Handler, logger *zap.Logger) *PostgresListener {
	return &PostgresListener{
		db:      db,
		channel: channel,
		handler: handler,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// Start acquires a dedicated connection, issues LISTEN and begins the
// notification loop.
func (l *PostgresListener) Start(ctx context.Context) error {
	conn, err := l.db.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("error acquiring listen connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "LISTEN "+l.channel); err != nil {
		conn.Release()
		return fmt.Errorf("error listening on channel %s: %w", l.channel, err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel

	go l.run(runCtx, conn)

	return nil
}

func (l *PostgresListener) run(ctx context.Context, conn *pgxpool.Conn) {
	defer close(l.done)
	defer conn.Release()

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			// The listen connection is not usable once waiting fails.
			l.logger.Error("change feed wait failed", zap.Error(err))
			return
		}

		var event feed.ChangeEvent
		if err := json.Unmarshal([]byte(notification.Payload), &event); err != nil {
			l.logger.Error("discarding malformed change notification", zap.Error(err))
			continue
		}

		if err := l.handler.HandleBatch(ctx, []feed.ChangeEvent{event}); err != nil {
			l.logger.Error("change batch handling failed", zap.Error(err))
		}
	}
}

// Stop cancels the notification loop and waits for it to exit.
func (l *PostgresListener) Stop(ctx context.Context) error {
	if l.cancel != nil {
		l.cancel()
	}

	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
