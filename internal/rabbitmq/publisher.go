package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// Publisher публикует сообщения в RabbitMQ через открытый канал.
// Передаётся в сервисы как зависимость, чтобы в тестах подменять его фейком.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher создаёт Publisher поверх открытого канала.
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

// Close закрывает канал RabbitMQ.
func (p *Publisher) Close() error {
	return p.ch.Close()
}

// Publish сериализует сообщение в JSON и публикует его в обменник.
func (p *Publisher) Publish(exchange, routingKey string, message any) error {
	const op = "rabbitmq.Publish"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
