package queue

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// TopicBackfill carries BackfillEvent payloads: a template was saved and
// the user's recent reviews need a scheduling pass.
const TopicBackfill = "automation_backfill"

// BackfillEvent is the wire shape published on TopicBackfill.
type BackfillEvent struct {
	UserID int `json:"user_id"`
}

// Queue decouples event producers from the worker. Handlers receive the
// JSON-encoded payload; returning an error requests redelivery.
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(body []byte) error) error
}

const maxRetries = 3

// InMemoryQueue fans published events out to subscribed handlers in
// goroutines, with the same bounded retry the AMQP consumer applies.
// Used by tests and single-process deployments.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(body []byte) error
}

func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(body []byte) error),
	}
}

func (q *InMemoryQueue) Publish(topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload for %s: %w", topic, err)
	}

	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	for _, handler := range handlers {
		go q.processJob(topic, handler, body)
	}
	return nil
}

func (q *InMemoryQueue) processJob(topic string, handler func(body []byte) error, body []byte) {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := handler(body)
		if err == nil {
			return
		}
		log.Warn().Err(err).Str("topic", topic).Int("attempt", attempt+1).Msg("handler failed")
		if attempt == maxRetries {
			log.Error().Str("topic", topic).Msgf("event permanently failed after %d attempts", maxRetries)
			return
		}
		time.Sleep(time.Duration(attempt+1) * 500 * time.Millisecond)
	}
}

func (q *InMemoryQueue) Subscribe(topic string, handler func(body []byte) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}
