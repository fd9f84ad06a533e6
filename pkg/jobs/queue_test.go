package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueDeliversTypedItems(t *testing.T) {
	received := make(chan string, 4)
	q := NewQueue("test", func(ctx context.Context, item string) error {
		received <- item
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 4})

	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue("first"))
	require.NoError(t, q.Enqueue("second"))

	for _, want := range []string{"first", "second"} {
		select {
		case got := <-received:
			assert.Equal(t, want, got)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for item")
		}
	}
}

func TestQueueRejectsEnqueueBeforeStart(t *testing.T) {
	q := NewQueue("test", func(ctx context.Context, item int) error {
		return nil
	}, QueueConfig{})

	err := q.Enqueue(1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not started")
}

func TestQueueRetriesFailedItems(t *testing.T) {
	attempts := make(chan int, 8)
	calls := 0
	q := NewQueue("test", func(ctx context.Context, item string) error {
		calls++
		attempts <- calls
		if calls == 1 {
			return errors.New("transient")
		}
		return nil
	}, QueueConfig{Workers: 1, MaxRetries: 2, RetryDelay: time.Millisecond})

	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue("entry"))

	for _, want := range []int{1, 2} {
		select {
		case got := <-attempts:
			assert.Equal(t, want, got)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for retry")
		}
	}
}
