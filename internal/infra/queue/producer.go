package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/recruitica/internal/entity"
)

// FinalizeMessage is the body published for each finalized draft.
type FinalizeMessage struct {
	ID       string       `json:"id"`
	QueuedAt time.Time    `json:"queued_at"`
	Draft    entity.Draft `json:"draft"`
}

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Producer struct {
	ch     publisher
	logger *zap.Logger
}

func NewProducer(ch *amqp.Channel, logger *zap.Logger) *Producer {
	return &Producer{ch: ch, logger: logger}
}

// Finalize queues the draft for the finalize worker.
func (p *Producer) Finalize(ctx context.Context, d entity.Draft) error {
	return p.PublishFinalize(ctx, FinalizeMessage{
		ID:       uuid.NewString(),
		QueuedAt: time.Now().UTC(),
		Draft:    d,
	})
}

func (p *Producer) PublishFinalize(ctx context.Context, msg FinalizeMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode finalize message: %w", err)
	}

	err = p.ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    msg.ID,
		},
	)
	if err != nil {
		return fmt.Errorf("publish finalize: %w", err)
	}

	p.logger.Debug("finalize message published",
		zap.String("message_id", msg.ID),
		zap.Int("contacts", len(msg.Draft.Contacts)),
	)
	return nil
}
