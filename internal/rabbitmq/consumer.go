package rabbitmq

import (
	"context"
	"fmt"
	"log"

	"github.com/streadway/amqp"
)

// ConsumerMessage создает потребителя сообщений из очереди RabbitMQ.
// Обработка параллелится максимум на 10 сообщений.
func ConsumerMessage(ctx context.Context, ch *amqp.Channel, queueName string, handler func([]byte) error) error {
	const op = "rabbitmq.ConsumerMessage"
	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	sem := make(chan struct{}, 10)
	go func() {
		for {
			select {
			case d, ok := <-delivery:
				if !ok {
					return
				}
				sem <- struct{}{}
				go func(delivery amqp.Delivery) {
					defer func() { <-sem }()
					processDelivery(delivery, handler)
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// processDelivery обрабатывает одно сообщение: ack при успехе,
// nack без возврата в очередь при ошибке обработчика. Битое сообщение
// при повторной доставке упало бы снова, поэтому оно отбрасывается.
func processDelivery(delivery amqp.Delivery, handler func([]byte) error) {
	if err := handler(delivery.Body); err != nil {
		log.Printf("failed to process message: %v", err)
		if nackErr := delivery.Nack(false, false); nackErr != nil {
			log.Printf("failed to nack message: %v", nackErr)
		}
		return
	}
	if ackErr := delivery.Ack(false); ackErr != nil {
		log.Printf("failed to ack message: %v", ackErr)
	}
}
