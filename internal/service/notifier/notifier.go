// Package notifier drains staged notification records and hands them to the
// delivery queue. The ledger writes notification rows transactionally;
// delivery is asynchronous and a delivery hiccup never touches the ledger.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/waryduchess/NorthwestBank-Backend/internal/logger"
	"github.com/waryduchess/NorthwestBank-Backend/internal/repository"
)

const (
	defaultQueue         = "northwestbank.notifications"
	defaultDrainInterval = 2 * time.Second
	defaultBatchSize     = 50
)

type Notifier struct {
	interval  time.Duration
	batchSize int
	queue     string

	conn    *amqp.Connection
	channel *amqp.Channel
	storage repository.Storage
	logger  logger.Logger
}

func New(amqpURL string, storage repository.Storage, logger logger.Logger) (*Notifier, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("can't connect to amqp broker. Err: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("can't open amqp channel. Err: %w", err)
	}

	_, err = channel.QueueDeclare(defaultQueue, true, false, false, false, nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("can't declare notifications queue. Err: %w", err)
	}

	return &Notifier{
		interval:  defaultDrainInterval,
		batchSize: defaultBatchSize,
		queue:     defaultQueue,
		conn:      conn,
		channel:   channel,
		storage:   storage,
		logger:    logger,
	}, nil
}

// Run drains pending notifications on a ticker until the context is
// cancelled. The returned channel closes when the notifier has stopped.
func (n *Notifier) Run(ctx context.Context) <-chan struct{} {
	idleStopped := make(chan struct{})
	n.logger.Debug("Starting notifier", "interval", n.interval, "batch_size", n.batchSize)

	go func() {
		defer close(idleStopped)
		defer n.Close()

		ticker := time.NewTicker(n.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				n.logger.Debug("Notifier stopped by context")
				return
			case <-ticker.C:
				n.drainPending(ctx)
			}
		}
	}()

	return idleStopped
}

func (n *Notifier) Close() {
	_ = n.channel.Close()
	_ = n.conn.Close()
}

type message struct {
	UserID    int64     `json:"usuario_id"`
	Title     string    `json:"titulo"`
	Message   string    `json:"mensaje"`
	CreatedAt time.Time `json:"created_at"`
}

func (n *Notifier) drainPending(ctx context.Context) {
	pending, err := n.storage.Notification().ListUnsent(ctx, n.batchSize)
	if err != nil {
		n.logger.Error("Failed to list pending notifications", "error", err)
		return
	}

	for _, notification := range pending {
		body, err := json.Marshal(message{
			UserID:    notification.UserID,
			Title:     notification.Title,
			Message:   notification.Message,
			CreatedAt: notification.CreatedAt,
		})
		if err != nil {
			n.logger.Error("Failed to marshal notification", "id", notification.ID, "error", err)
			continue
		}

		err = n.channel.PublishWithContext(ctx, "", n.queue, false, false, amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		})
		if err != nil {
			// Leave the row pending, the next tick retries it
			n.logger.Error("Failed to publish notification", "id", notification.ID, "error", err)
			continue
		}

		if err := n.storage.Notification().MarkSent(ctx, notification.ID); err != nil {
			n.logger.Error("Failed to mark notification sent", "id", notification.ID, "error", err)
		}
	}
}
