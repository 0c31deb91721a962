package pipeline

import (
	"context"
	"sync"
)

// Queue is an unbounded single-producer/single-consumer FIFO. It is the only
// shared state between the file-watch goroutine and the pipeline; Put never
// blocks the producer.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
	wake  chan struct{}
}

func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{wake: make(chan struct{}, 1)}
}

// Put appends an item. Safe to call from a different goroutine than Get.
func (q *Queue[T]) Put(item T) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Get removes and returns the oldest item, blocking until one is available
// or the context is cancelled.
func (q *Queue[T]) Get(ctx context.Context) (T, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			item := q.items[0]
			q.items = q.items[1:]
			remaining := len(q.items)
			q.mu.Unlock()

			if remaining > 0 {
				select {
				case q.wake <- struct{}{}:
				default:
				}
			}

			return item, nil
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			var zero T

			return zero, ctx.Err()
		case <-q.wake:
		}
	}
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.items)
}
