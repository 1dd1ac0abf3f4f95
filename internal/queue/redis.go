package queue

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the list holding pending job ids.
const DefaultRedisKey = "queue:jobs"

// RedisQueue is a Redis list used with RPUSH/BLPOP. BLPOP hands each element
// to exactly one blocked client.
type RedisQueue struct {
	client       *redis.Client
	key          string
	blockTimeout time.Duration
}

// RedisOption customizes a RedisQueue.
type RedisOption func(*RedisQueue)

// WithRedisKey overrides the list key.
func WithRedisKey(key string) RedisOption {
	return func(q *RedisQueue) { q.key = key }
}

// WithBlockTimeout bounds a single BLPOP call so ctx is rechecked between calls.
func WithBlockTimeout(d time.Duration) RedisOption {
	return func(q *RedisQueue) { q.blockTimeout = d }
}

func NewRedisQueue(client *redis.Client, opts ...RedisOption) *RedisQueue {
	q := &RedisQueue{client: client, key: DefaultRedisKey, blockTimeout: 5 * time.Second}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func (q *RedisQueue) Enqueue(ctx context.Context, msg Message) error {
	payload, err := EncodeMessage(msg)
	if err != nil {
		return fmt.Errorf("encode queue message: %w", err)
	}
	if err := q.client.RPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("redis rpush: %w", err)
	}
	return nil
}

func (q *RedisQueue) Dequeue(ctx context.Context) (Message, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Message{}, err
		}
		res, err := q.client.BLPop(ctx, q.blockTimeout, q.key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Message{}, ctxErr
			}
			if errors.Is(err, redis.ErrClosed) {
				return Message{}, ErrClosed
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			return Message{}, fmt.Errorf("redis blpop: %w", err)
		}
		// res is [key, value].
		if len(res) != 2 {
			continue
		}
		return DecodeMessage([]byte(res[1]))
	}
}

func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	n, err := q.client.LLen(ctx, q.key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis llen: %w", err)
	}
	return n, nil
}

// Close is a no-op; the client belongs to the caller.
func (q *RedisQueue) Close() error { return nil }

var _ WorkQueue = (*RedisQueue)(nil)
