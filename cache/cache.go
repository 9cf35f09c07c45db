package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/IvanBrykalov/lfucache/internal/flight"
	"github.com/IvanBrykalov/lfucache/internal/util"
	"github.com/IvanBrykalov/lfucache/lfu"
)

var (
	// ErrInvalidCapacity is returned by New for a non-positive Capacity.
	ErrInvalidCapacity = lfu.ErrInvalidCapacity
	// ErrNoLoader is returned by GetOrLoad when no Loader was configured.
	ErrNoLoader = errors.New("cache: no Loader provided")
	// ErrClosed is returned by GetOrLoad after Close.
	ErrClosed = errors.New("cache: closed")
)

// cache is a sharded LFU store. Each shard owns one lfu.Cache behind a mutex.
type cache[K comparable, V any] struct {
	shards   []*shard[K, V]
	hash     func(K) uint64
	capacity int
	closed   atomic.Bool

	// resident is the total entry count, fed to Metrics.Size.
	resident atomic.Int64

	opt Options[K, V]
	sf  flight.Group[K, V]
}

// New constructs a cache with the provided Options.
// Defaults:
//   - nil Metrics  -> NoopMetrics
//   - Shards <= 0  -> auto, rounded up to the next power of two
//
// The shard count is clamped to Capacity.
func New[K comparable, V any](opt Options[K, V]) (Cache[K, V], error) {
	if opt.Capacity <= 0 {
		return nil, fmt.Errorf("cache: %w (got %d)", ErrInvalidCapacity, opt.Capacity)
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}

	n := util.ShardCount(opt.Shards, opt.Capacity)
	c := &cache[K, V]{
		shards:   make([]*shard[K, V], n),
		hash:     util.Hash64[K],
		capacity: opt.Capacity,
		opt:      opt,
	}
	for i, capacity := range util.SplitCapacity(opt.Capacity, n) {
		s, err := newShard(capacity, &c.opt, &c.resident)
		if err != nil {
			return nil, fmt.Errorf("cache: shard %d: %w", i, err)
		}
		c.shards[i] = s
	}
	return c, nil
}

// ---- Cache[K,V] implementation ----

func (c *cache[K, V]) Add(k K, v V) bool {
	if c.closed.Load() {
		return false
	}
	return c.getShard(k).Add(k, v)
}

func (c *cache[K, V]) Set(k K, v V) {
	if c.closed.Load() {
		return
	}
	c.getShard(k).Set(k, v)
}

func (c *cache[K, V]) Get(k K) (V, bool) {
	if c.closed.Load() {
		var zero V
		return zero, false
	}
	return c.getShard(k).Get(k)
}

func (c *cache[K, V]) Peek(k K) (V, bool) {
	if c.closed.Load() {
		var zero V
		return zero, false
	}
	return c.getShard(k).Peek(k)
}

func (c *cache[K, V]) Remove(k K) bool {
	if c.closed.Load() {
		return false
	}
	return c.getShard(k).Remove(k)
}

func (c *cache[K, V]) Frequency(k K) (uint64, bool) {
	if c.closed.Load() {
		return 0, false
	}
	return c.getShard(k).Frequency(k)
}

func (c *cache[K, V]) Len() int {
	total := 0
	for _, s := range c.shards {
		total += s.Len()
	}
	return total
}

func (c *cache[K, V]) Cap() int { return c.capacity }

func (c *cache[K, V]) Stats() Stats {
	var st Stats
	for _, s := range c.shards {
		ss := s.Stats()
		st.Hits += ss.Hits
		st.Misses += ss.Misses
		st.Evictions += ss.Evictions
	}
	return st
}

func (c *cache[K, V]) Purge() {
	for _, s := range c.shards {
		s.Purge()
	}
}

// Close marks the cache as closed. Future operations are ignored.
func (c *cache[K, V]) Close() error {
	c.closed.Store(true)
	return nil
}

// GetOrLoad returns the value for k; on miss it loads via Options.Loader,
// coalescing concurrent loads for the same key.
func (c *cache[K, V]) GetOrLoad(ctx context.Context, k K) (V, error) {
	var zero V
	if c.closed.Load() {
		return zero, ErrClosed
	}
	if v, ok := c.Get(k); ok {
		return v, nil
	}
	if c.opt.Loader == nil {
		return zero, ErrNoLoader
	}

	v, _, err := c.sf.Do(ctx, k, func() (V, error) {
		// A previous flight may have stored k after our miss.
		if v, ok := c.Peek(k); ok {
			return v, nil
		}
		v, err := c.opt.Loader(ctx, k)
		if err == nil {
			c.Set(k, v)
		}
		return v, err
	})
	if err != nil {
		return zero, err
	}
	return v, nil
}

// getShard picks a shard by hashing the key.
func (c *cache[K, V]) getShard(k K) *shard[K, V] {
	return c.shards[util.ShardIndex(c.hash(k), len(c.shards))]
}
