package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const ConfirmationQueue = "order.confirmation"

// AMQPNotifier publishes confirmations to a RabbitMQ queue drained by the
// email worker. The queue is declared up front so publishing never fails on
// missing infra.
type AMQPNotifier struct {
	ch *amqp.Channel
}

func NewAMQPNotifier(conn *amqp.Connection) (*AMQPNotifier, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(ConfirmationQueue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare %s: %w", ConfirmationQueue, err)
	}

	return &AMQPNotifier{ch: ch}, nil
}

func (n *AMQPNotifier) Close() error {
	return n.ch.Close()
}

func (n *AMQPNotifier) SendOrderConfirmation(ctx context.Context, conf OrderConfirmation) error {
	body, err := json.Marshal(conf)
	if err != nil {
		return fmt.Errorf("marshal confirmation: %w", err)
	}

	err = n.ch.PublishWithContext(ctx,
		"",                // default exchange
		ConfirmationQueue, // routing key = queue
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish confirmation: %w", err)
	}
	return nil
}
