// Package queue carries job ids from the request side to the workers.
//
// Every backend delivers each enqueued id to exactly one Dequeue caller, in
// FIFO order across producers. There is no priority, no deduplication and no
// redelivery: an id handed to a consumer that dies is gone.
package queue

import (
	"context"
	"errors"
)

// ErrClosed is returned by Dequeue once the queue has been closed.
var ErrClosed = errors.New("queue closed")

// WorkQueue is a FIFO channel of job ids shared by producers and consumers.
type WorkQueue interface {
	// Enqueue appends a job id. It does not wait for a consumer.
	Enqueue(ctx context.Context, msg Message) error
	// Dequeue blocks until an id is available or ctx is done.
	Dequeue(ctx context.Context) (Message, error)
	// Len reports the number of pending ids.
	Len(ctx context.Context) (int64, error)
	Close() error
}
