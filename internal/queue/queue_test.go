package queue

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryQueueDeliversToSubscriber(t *testing.T) {
	q := NewInMemoryQueue()

	var mu sync.Mutex
	received := []BackfillEvent{}
	done := make(chan struct{})

	err := q.Subscribe(TopicBackfill, func(body []byte) error {
		var ev BackfillEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return err
		}
		mu.Lock()
		received = append(received, ev)
		mu.Unlock()
		close(done)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, q.Publish(TopicBackfill, BackfillEvent{UserID: 7}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	assert.Equal(t, 7, received[0].UserID)
}

func TestInMemoryQueuePublishWithoutSubscribersFails(t *testing.T) {
	q := NewInMemoryQueue()
	assert.Error(t, q.Publish(TopicBackfill, BackfillEvent{UserID: 1}))
}

func TestInMemoryQueueRetriesFailedHandler(t *testing.T) {
	q := NewInMemoryQueue()

	var mu sync.Mutex
	attempts := 0
	done := make(chan struct{})

	q.Subscribe("flaky", func(body []byte) error {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts < 3 {
			return assert.AnError
		}
		close(done)
		return nil
	})

	require.NoError(t, q.Publish("flaky", map[string]int{"n": 1}))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("handler never succeeded")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, attempts)
}
