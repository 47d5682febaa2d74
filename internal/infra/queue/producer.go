package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// OrderCompletedEvent fans out after a successful fulfillment; the email
// worker turns it into the invoice mail.
type OrderCompletedEvent struct {
	OrderID       string   `json:"order_id"`
	UserID        string   `json:"user_id"`
	InvoiceNumber string   `json:"invoice_number"`
	Total         float64  `json:"total"`
	LeadIDs       []string `json:"lead_ids"`
	PaymentMethod string   `json:"payment_method"`
}

// ReconciliationAlert flags a paid-but-oversold lead for manual review.
type ReconciliationAlert struct {
	PaymentID string `json:"payment_id"`
	OrderID   string `json:"order_id"`
	UserID    string `json:"user_id"`
	LeadID    string `json:"lead_id"`
	Reason    string `json:"reason"`
}

type Producer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *Producer {
	return &Producer{Conn: conn, Ch: ch}
}

func (p *Producer) PublishOrderCompleted(ctx context.Context, event OrderCompletedEvent) error {
	return p.publish(ctx, EmailKey, event)
}

func (p *Producer) PublishReconciliationAlert(ctx context.Context, alert ReconciliationAlert) error {
	return p.publish(ctx, ReconKey, alert)
}

func (p *Producer) publish(ctx context.Context, key string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		key,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to RabbitMQ: %w", err)
	}

	return nil
}
