package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/httprate"
	"github.com/redis/go-redis/v9"
)

// Both counters report zero for the previous window, which turns httprate's
// sliding estimate into a plain fixed window.

type memoryCounter struct {
	mu      sync.Mutex
	window  time.Duration
	buckets map[string]bucket
}

type bucket struct {
	window time.Time
	count  int
}

// NewMemoryCounter returns an in-process fixed-window counter.
func NewMemoryCounter() httprate.LimitCounter {
	return &memoryCounter{buckets: make(map[string]bucket)}
}

func (c *memoryCounter) Config(requestLimit int, windowLength time.Duration) {
	c.mu.Lock()
	c.window = windowLength
	c.mu.Unlock()
}

func (c *memoryCounter) Increment(key string, currentWindow time.Time) error {
	return c.IncrementBy(key, currentWindow, 1)
}

func (c *memoryCounter) IncrementBy(key string, currentWindow time.Time, amount int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := c.buckets[key]
	if !b.window.Equal(currentWindow) {
		b = bucket{window: currentWindow}
	}
	b.count += amount
	c.buckets[key] = b
	c.evict(currentWindow)
	return nil
}

func (c *memoryCounter) Get(key string, currentWindow, previousWindow time.Time) (int, int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.buckets[key]
	if !ok || !b.window.Equal(currentWindow) {
		return 0, 0, nil
	}
	return b.count, 0, nil
}

// evict drops buckets from closed windows. Caller holds mu.
func (c *memoryCounter) evict(currentWindow time.Time) {
	for k, b := range c.buckets {
		if b.window.Before(currentWindow) {
			delete(c.buckets, k)
		}
	}
}

type redisCounter struct {
	client *redis.Client
	prefix string
	window time.Duration
	// timeout bounds each Redis round trip; httprate offers no context.
	timeout time.Duration
}

// NewRedisCounter returns a fixed-window counter shared through Redis.
func NewRedisCounter(client *redis.Client, prefix string) httprate.LimitCounter {
	return &redisCounter{client: client, prefix: prefix, timeout: 2 * time.Second}
}

func (c *redisCounter) Config(requestLimit int, windowLength time.Duration) {
	c.window = windowLength
}

func (c *redisCounter) key(key string, window time.Time) string {
	return fmt.Sprintf("%s:%s:%s", c.prefix, key, strconv.FormatInt(window.Unix(), 10))
}

func (c *redisCounter) Increment(key string, currentWindow time.Time) error {
	return c.IncrementBy(key, currentWindow, 1)
}

func (c *redisCounter) IncrementBy(key string, currentWindow time.Time, amount int) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	k := c.key(key, currentWindow)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.IncrBy(ctx, k, int64(amount))
		pipe.Expire(ctx, k, c.window*2)
		return nil
	})
	if err != nil {
		return fmt.Errorf("ratelimit: redis increment: %w", err)
	}
	return nil
}

func (c *redisCounter) Get(key string, currentWindow, previousWindow time.Time) (int, int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	n, err := c.client.Get(ctx, c.key(key, currentWindow)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, fmt.Errorf("ratelimit: redis get: %w", err)
	}
	return n, 0, nil
}
