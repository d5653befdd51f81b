package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/oxyllium-leads/internal/entity"
)

const (
	EventLeadApproved = "lead.approved"
	EventLeadRejected = "lead.rejected"
)

// LeadEvent is published after a lead leaves nouveau. The routing key is Event.
type LeadEvent struct {
	Event      string   `json:"event"`
	RowID      int      `json:"row_id"`
	Status     string   `json:"status"`
	Prestation string   `json:"prestation"`
	Ville      string   `json:"ville"`
	LeadType   string   `json:"lead_type,omitempty"`
	PriceTTC   string   `json:"price_ttc,omitempty"`
	Recipients []string `json:"recipients,omitempty"`
	OccurredAt string   `json:"occurred_at"`
}

// FailedIntake is a normalized submission the store refused, parked for replay.
type FailedIntake struct {
	Input    entity.LeadInput `json:"input"`
	Reason   string           `json:"reason"`
	FailedAt string           `json:"failed_at"`
}

// Publisher is satisfied by *amqp.Channel.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Producer struct {
	mu sync.Mutex
	Ch Publisher
}

func NewProducer(ch Publisher) *Producer {
	return &Producer{Ch: ch}
}

func (p *Producer) PublishLeadEvent(ctx context.Context, event LeadEvent) error {
	return p.publish(ctx, event.Event, event)
}

func (p *Producer) PublishFailedIntake(ctx context.Context, intake FailedIntake) error {
	return p.publish(ctx, RoutingKeyFailedIntake, intake)
}

func (p *Producer) publish(ctx context.Context, key string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		key,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    uuid.NewString(),
			Timestamp:    time.Now().UTC(),
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s to RabbitMQ: %w", key, err)
	}
	return nil
}
