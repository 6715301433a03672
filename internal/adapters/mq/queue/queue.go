// Package queue defines the contract for enqueuing and consuming feedback cues.
//
// The queue is bounded and never blocks the producer: a full queue rejects
// the cue and the caller decides what to do with it.
package queue

import (
	"context"
	"sync"

	"github.com/okian/velocity/internal/domain/model"
	"github.com/okian/velocity/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 64
	defaultBufferSize    = 64
)

// Drop reasons reported to metrics.
const (
	ReasonClosed    = "closed"
	ReasonFull      = "queue_full"
	ReasonCancelled = "context_cancelled"
)

// Event represents the payload type flowing through the queue.
type Event = model.Cue

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a cue to the queue.
	// Returns false if the queue is full and the cue was not enqueued.
	Enqueue(ctx context.Context, e Event) bool

	// Dequeue returns a channel that will receive cues as they become available.
	// The channel will be closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Event

	// Len returns the current number of queued cues.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue.
	// After closing, no new cues can be enqueued and the dequeue channel will be closed.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	events     chan Event
	capacity   int
	bufferSize int
	mu         sync.RWMutex
	closed     bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity:   defaultQueueCapacity,
		bufferSize: defaultBufferSize,
	}

	for _, opt := range opts {
		opt(q)
	}

	if q.bufferSize < q.capacity {
		q.bufferSize = q.capacity
	}
	q.events = make(chan Event, q.bufferSize)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)

	return q
}

// Enqueue adds a cue to the queue without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, e Event) bool { //nolint:gocritic // hugeParam: Event must be passed by value for channel semantics
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordFeedbackDropped(ReasonClosed)
		return false
	}

	if len(q.events) >= q.capacity {
		metrics.RecordFeedbackDropped(ReasonFull)
		return false
	}

	select {
	case <-ctx.Done():
		metrics.RecordFeedbackDropped(ReasonCancelled)
		return false
	default:
	}

	select {
	case q.events <- e:
		metrics.RecordFeedbackEnqueued(e.Name)
		metrics.UpdateQueueSize(len(q.events))
		return true
	default:
		metrics.RecordFeedbackDropped(ReasonFull)
		return false
	}
}

// Dequeue returns a channel that will receive cues as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Event {
	out := make(chan Event)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-q.events:
				if !ok {
					return
				}
				metrics.UpdateQueueSize(len(q.events))
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Len returns the current number of queued cues.
func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.events)
	metrics.UpdateQueueSize(size)
	return size
}

// Capacity returns the maximum number of queued cues.
func (q *InMemoryQueue) Capacity() int {
	return q.capacity
}

// Close gracefully shuts down the queue.
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

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
