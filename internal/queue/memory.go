package queue

import (
	"context"
	"sync"
)

// MemoryQueue is an unbounded in-process queue.
type MemoryQueue struct {
	mu     sync.Mutex
	items  []Message
	closed bool
	signal chan struct{}
	done   chan struct{}
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

func (q *MemoryQueue) Enqueue(_ context.Context, msg Message) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.items = append(q.items, msg)
	q.mu.Unlock()
	q.wake()
	return nil
}

func (q *MemoryQueue) Dequeue(ctx context.Context) (Message, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			msg := q.items[0]
			q.items[0] = Message{}
			q.items = q.items[1:]
			remaining := len(q.items)
			q.mu.Unlock()
			// Pass the wake-up on so another waiter sees the rest.
			if remaining > 0 {
				q.wake()
			}
			return msg, nil
		}
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return Message{}, ErrClosed
		}

		select {
		case <-ctx.Done():
			return Message{}, ctx.Err()
		case <-q.done:
		case <-q.signal:
		}
	}
}

func (q *MemoryQueue) Len(_ context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.items)), nil
}

// Close wakes all waiters. Pending items can still be drained.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.done)
	}
	return nil
}

func (q *MemoryQueue) wake() {
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

var _ WorkQueue = (*MemoryQueue)(nil)
