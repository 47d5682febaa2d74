package queue

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/poolbau-vergleich/leadmarket/internal/entity"
)

// ConfirmationMailer sends the order confirmation with the invoice details.
type ConfirmationMailer interface {
	SendOrderConfirmation(to, companyName, invoiceNumber string, total float64, leadCount int) error
}

// UserReader resolves the buyer's email address for the confirmation mail.
type UserReader interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
}

type Worker struct {
	Channel *amqp.Channel
	Mailer  ConfirmationMailer
	Users   UserReader
}

func NewWorker(ch *amqp.Channel, mailer ConfirmationMailer, users UserReader) *Worker {
	return &Worker{Channel: ch, Mailer: mailer, Users: users}
}

// Start consumes order-completed events and sends the confirmation email.
// Manual acks: a failed send is nacked without requeue and lands in the DLQ.
func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		logrus.WithError(err).Fatal("failed to register RabbitMQ consumer")
	}

	for d := range msgs {
		var event OrderCompletedEvent
		if err := json.Unmarshal(d.Body, &event); err != nil {
			logrus.WithError(err).Error("invalid order-completed payload, dropping")
			d.Nack(false, false)
			continue
		}

		if err := w.process(context.Background(), event); err != nil {
			logrus.WithError(err).WithField("order_id", event.OrderID).
				Error("failed to send order confirmation")
			d.Nack(false, false)
			continue
		}

		logrus.WithFields(logrus.Fields{
			"order_id": event.OrderID,
			"invoice":  event.InvoiceNumber,
		}).Info("order confirmation sent")
		d.Ack(false)
	}
}

func (w *Worker) process(ctx context.Context, event OrderCompletedEvent) error {
	user, err := w.Users.FindByID(ctx, event.UserID)
	if err != nil {
		return err
	}

	return w.Mailer.SendOrderConfirmation(
		user.Email, user.CompanyName,
		event.InvoiceNumber, event.Total, len(event.LeadIDs),
	)
}
