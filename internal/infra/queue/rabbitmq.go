package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName = "ex.leads"
	DLXName      = "ex.leads.dlx" // Dead Letter Exchange

	EventsQueue       = "q.lead-events"
	FailedIntakeQueue = "q.intake.failed"
	FailedIntakeDLQ   = "q.intake.failed.dlq"

	EventsBinding          = "lead.*"
	RoutingKeyFailedIntake = "intake.failed"
)

type RabbitMQ struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

// topologyChannel is the part of *amqp.Channel setupTopology needs.
type topologyChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
}

func NewRabbitMQ(url string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := setupTopology(ch); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare topology: %w", err)
	}

	return &RabbitMQ{Conn: conn, Ch: ch}, nil
}

// setupTopology declares a topic exchange for lead events and the failed intake
// queue. Failed intakes that cannot be decoded are dead-lettered to the DLQ.
func setupTopology(ch topologyChannel) error {
	err := ch.ExchangeDeclare(DLXName, "direct", true, false, false, false, nil)
	if err != nil {
		return err
	}

	_, err = ch.QueueDeclare(FailedIntakeDLQ, true, false, false, false, nil)
	if err != nil {
		return err
	}

	err = ch.QueueBind(FailedIntakeDLQ, RoutingKeyFailedIntake, DLXName, false, nil)
	if err != nil {
		return err
	}

	err = ch.ExchangeDeclare(ExchangeName, "topic", true, false, false, false, nil)
	if err != nil {
		return err
	}

	_, err = ch.QueueDeclare(EventsQueue, true, false, false, false, nil)
	if err != nil {
		return err
	}

	err = ch.QueueBind(EventsQueue, EventsBinding, ExchangeName, false, nil)
	if err != nil {
		return err
	}

	args := amqp.Table{
		"x-dead-letter-exchange":    DLXName,
		"x-dead-letter-routing-key": RoutingKeyFailedIntake,
	}

	_, err = ch.QueueDeclare(FailedIntakeQueue, true, false, false, false, args)
	if err != nil {
		return err
	}

	return ch.QueueBind(FailedIntakeQueue, RoutingKeyFailedIntake, ExchangeName, false, nil)
}

// Healthy reports whether the broker connection is still open.
func (r *RabbitMQ) Healthy() bool {
	return r != nil && r.Conn != nil && !r.Conn.IsClosed()
}

func (r *RabbitMQ) Close() error {
	if r.Ch != nil {
		r.Ch.Close()
	}
	if r.Conn != nil {
		return r.Conn.Close()
	}
	return nil
}
