package queue

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/streadway/amqp"
)

// AMQPQueue is the RabbitMQ-backed Queue used when the API server and
// worker run as separate processes. Queues are durable; consumers ack
// manually and requeue failures up to maxRetries via an x-retry-count
// header.
type AMQPQueue struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAMQPQueue(url string) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	return &AMQPQueue{conn: conn, ch: ch}, nil
}

func (q *AMQPQueue) Close() {
	q.ch.Close()
	q.conn.Close()
}

func (q *AMQPQueue) declare(topic string) (amqp.Queue, error) {
	return q.ch.QueueDeclare(
		topic,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
}

func (q *AMQPQueue) Publish(topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload for %s: %w", topic, err)
	}

	declared, err := q.declare(topic)
	if err != nil {
		return fmt.Errorf("declare %s: %w", topic, err)
	}

	return q.ch.Publish(
		"",
		declared.Name,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

func (q *AMQPQueue) Subscribe(topic string, handler func(body []byte) error) error {
	declared, err := q.declare(topic)
	if err != nil {
		return fmt.Errorf("declare %s: %w", topic, err)
	}

	msgs, err := q.ch.Consume(
		declared.Name,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume %s: %w", topic, err)
	}

	go func() {
		for d := range msgs {
			if err := handler(d.Body); err != nil {
				retryCount := 0
				if v, ok := d.Headers["x-retry-count"].(int32); ok {
					retryCount = int(v)
				}
				if retryCount < maxRetries {
					log.Warn().Err(err).Str("topic", topic).Int("retry", retryCount+1).Msg("event failed, requeueing")
					q.republish(topic, d.Body, retryCount+1)
				} else {
					log.Error().Err(err).Str("topic", topic).Msg("event dropped after max retries")
				}
			}
			d.Ack(false)
		}
	}()

	return nil
}

// republish re-enqueues a failed delivery with the retry count bumped.
// Nack-requeue would loop without the header, so failures go back through
// Publish with headers attached.
func (q *AMQPQueue) republish(topic string, body []byte, retryCount int) {
	err := q.ch.Publish(
		"",
		topic,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Headers:      amqp.Table{"x-retry-count": int32(retryCount)},
			Body:         body,
		},
	)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("failed to requeue event")
	}
}

var (
	_ Queue = (*InMemoryQueue)(nil)
	_ Queue = (*AMQPQueue)(nil)
)
