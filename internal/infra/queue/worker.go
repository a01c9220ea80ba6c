package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/recruitica/internal/entity"
)

// Deliverer sends a finalized draft to its recipients.
type Deliverer interface {
	Finalize(ctx context.Context, d entity.Draft) error
}

type consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	ch        consumer
	deliverer Deliverer
	logger    *zap.Logger
}

func NewWorker(ch *amqp.Channel, deliverer Deliverer, logger *zap.Logger) *Worker {
	return &Worker{ch: ch, deliverer: deliverer, logger: logger}
}

// Start consumes queueName until ctx is cancelled or the channel closes.
// Failed messages are rejected without requeue and end up in the DLQ.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	w.logger.Info("finalize worker waiting", zap.String("queue", queueName))
	return w.run(ctx, msgs)
}

func (w *Worker) run(ctx context.Context, msgs <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var msg FinalizeMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		w.logger.Error("invalid finalize message", zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	logger := w.logger.With(zap.String("message_id", msg.ID))
	if err := w.deliverer.Finalize(ctx, msg.Draft); err != nil {
		logger.Error("finalize delivery failed", zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	logger.Info("finalize delivered", zap.Int("contacts", len(msg.Draft.Contacts)))
	_ = d.Ack(false)
}
