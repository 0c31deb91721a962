package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestQueueFIFO(t *testing.T) {
	queue := NewQueue[int]()
	for i := range 10 {
		queue.Put(i)
	}

	require.Equal(t, 10, queue.Len())

	for i := range 10 {
		item, err := queue.Get(context.Background())
		require.NoError(t, err)
		require.Equal(t, i, item)
	}

	require.Equal(t, 0, queue.Len())
}

func TestQueueGetBlocksUntilPut(t *testing.T) {
	queue := NewQueue[string]()

	got := make(chan string, 1)
	go func() {
		item, err := queue.Get(context.Background())
		if err == nil {
			got <- item
		}
	}()

	time.Sleep(50 * time.Millisecond)
	queue.Put("hello")

	select {
	case item := <-got:
		require.Equal(t, "hello", item)
	case <-time.After(5 * time.Second):
		t.Fatal("Get never returned")
	}
}

func TestQueueGetCancelled(t *testing.T) {
	queue := NewQueue[int]()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := queue.Get(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestQueuePutWhileDraining(t *testing.T) {
	queue := NewQueue[int]()

	go func() {
		for i := range 100 {
			queue.Put(i)
		}
	}()

	for i := range 100 {
		item, err := queue.Get(context.Background())
		require.NoError(t, err)
		require.Equal(t, i, item)
	}
}
