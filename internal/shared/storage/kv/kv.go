// Package kv provides the record stores that hold job and upload records as
// opaque bytes under string keys. Every backend offers the same guarantee: a
// Put is visible to any later Get from any process sharing the backend.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no value.
var ErrNotFound = errors.New("kv: not found")

// Store is a durable key/value record store.
type Store interface {
	Put(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Close() error
}
