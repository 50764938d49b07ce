package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/vk/axisflow/internal/device"
)

// ErrQueueClosed is returned by Pop once the queue is closed and drained.
var ErrQueueClosed = errors.New("update queue closed")

// Queue is an unbounded multi-producer, single-consumer FIFO of updates.
// Push never blocks; memory grows while the consumer lags behind.
type Queue struct {
	mu     sync.Mutex
	items  []device.AxisUpdate
	head   int
	closed bool
	ready  chan struct{}
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Push appends u. It reports false if the queue is already closed.
func (q *Queue) Push(u device.AxisUpdate) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, u)
	q.mu.Unlock()
	q.signal()
	return true
}

// Pop removes the oldest update, blocking while the queue is empty. It
// returns ErrQueueClosed after Close once every queued update was taken, or
// the context error if ctx ends first.
func (q *Queue) Pop(ctx context.Context) (device.AxisUpdate, error) {
	for {
		q.mu.Lock()
		if q.head < len(q.items) {
			u := q.items[q.head]
			q.items[q.head] = device.AxisUpdate{}
			q.head++
			q.compact()
			q.mu.Unlock()
			return u, nil
		}
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return device.AxisUpdate{}, ErrQueueClosed
		}

		select {
		case <-ctx.Done():
			return device.AxisUpdate{}, ctx.Err()
		case <-q.ready:
		}
	}
}

// Close stops accepting updates. Queued updates can still be popped.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
}

// Len returns the number of queued updates.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

func (q *Queue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// compact reclaims the consumed prefix. Callers hold mu.
func (q *Queue) compact() {
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
		return
	}
	if q.head >= 1024 && q.head*2 >= len(q.items) {
		n := copy(q.items, q.items[q.head:])
		q.items = q.items[:n]
		q.head = 0
	}
}
