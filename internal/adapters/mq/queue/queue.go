// Package queue buffers appended messages on their way to live subscribers.
package queue

import (
	"context"
	"sync"

	"github.com/okian/pitcrew/internal/domain/model"
	"github.com/okian/pitcrew/pkg/metrics"
)

const defaultCapacity = 1024

// Event is the payload flowing through the queue.
type Event = model.Message

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds e. It returns false when the queue is full or closed.
	Enqueue(ctx context.Context, e Event) bool

	// Dequeue returns the channel workers receive from. It is closed by Close.
	Dequeue() <-chan Event

	// Len returns the current backlog.
	Len() int

	Close() error
}

// InMemoryQueue implements Queue with a buffered channel.
type InMemoryQueue struct {
	events   chan Event
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.events = make(chan Event, q.capacity)
	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue adds e without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, e Event) bool { //nolint:gocritic // hugeParam: passed by value into the channel
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}
	if ctx.Err() != nil {
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false
	}

	select {
	case q.events <- e:
		metrics.UpdateQueueSize(len(q.events))
		return true
	default:
		metrics.RecordErrorByComponent("queue", "queue_full")
		return false
	}
}

// Dequeue returns the receive side of the queue.
func (q *InMemoryQueue) Dequeue() <-chan Event {
	return q.events
}

// Len returns the current backlog.
func (q *InMemoryQueue) Len() int {
	n := len(q.events)
	metrics.UpdateQueueSize(n)
	return n
}

// Close stops accepting events. Buffered events stay readable.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	close(q.events)
	q.closed = true
	return nil
}

// IsClosed reports whether Close was called.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
