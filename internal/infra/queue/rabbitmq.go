package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName = "ex.orders"
	DLXName      = "ex.orders.dlx"

	EmailQueueName = "q.order-emails"
	EmailDLQName   = "q.order-emails.dlq"
	EmailKey       = "k.order-completed"

	ReconQueueName = "q.reconciliation"
	ReconKey       = "k.reconciliation"
)

type RabbitMQ struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewRabbitMQ(user, pass, host, port string) (*RabbitMQ, error) {
	dsn := fmt.Sprintf("amqp://%s:%s@%s:%s/", user, pass, host, port)

	conn, err := amqp.Dial(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := setupTopology(ch); err != nil {
		return nil, err
	}

	return &RabbitMQ{Conn: conn, Ch: ch}, nil
}

func setupTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(DLXName, "direct", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(EmailDLQName, true, false, false, false, nil); err != nil {
		return err
	}
	if err := ch.QueueBind(EmailDLQName, EmailKey, DLXName, false, nil); err != nil {
		return err
	}

	if err := ch.ExchangeDeclare(ExchangeName, "direct", true, false, false, false, nil); err != nil {
		return err
	}

	// Rejected confirmation emails land in the DLQ instead of looping.
	args := amqp.Table{
		"x-dead-letter-exchange":    DLXName,
		"x-dead-letter-routing-key": EmailKey,
	}
	if _, err := ch.QueueDeclare(EmailQueueName, true, false, false, false, args); err != nil {
		return err
	}
	if err := ch.QueueBind(EmailQueueName, EmailKey, ExchangeName, false, nil); err != nil {
		return err
	}

	// Reconciliation alerts are drained by the ops tooling collaborator.
	if _, err := ch.QueueDeclare(ReconQueueName, true, false, false, false, nil); err != nil {
		return err
	}
	return ch.QueueBind(ReconQueueName, ReconKey, ExchangeName, false, nil)
}
