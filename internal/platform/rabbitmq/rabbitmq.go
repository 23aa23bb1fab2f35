package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQ publishes amqp messages to one exchange.
type RabbitMQ struct {
	channel  *amqp.Channel
	exchange string
}

// NewRabbitMQ returns new RabbitMQ. The topic exchange is declared when missing.
func NewRabbitMQ(connection *amqp.Connection, exchange string) (*RabbitMQ, error) {
	channel, err := connection.Channel()
	if err != nil {
		return nil, fmt.Errorf("can't open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto delete
		false, // internal
		false, // no wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("can't declare exchange %s: %w", exchange, err)
	}

	mq := RabbitMQ{
		channel:  channel,
		exchange: exchange,
	}

	return &mq, nil
}

// Publish publishes message to routing key.
func (mq *RabbitMQ) Publish(ctx context.Context, routingKey string, message []byte) error {
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Body:         message,
	}

	if err := mq.channel.PublishWithContext(
		ctx,
		mq.exchange,
		routingKey,
		false,
		false,
		msg,
	); err != nil {
		return fmt.Errorf("can't publish to %s: %w", mq.exchange, err)
	}

	return nil
}

// Close closes the channel.
func (mq *RabbitMQ) Close() error {
	return mq.channel.Close()
}
