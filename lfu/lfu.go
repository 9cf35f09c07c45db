package lfu

import (
	"errors"
	"fmt"
)

// maxPrealloc bounds the up-front allocation for very large capacities;
// the arenas grow on demand past it.
const maxPrealloc = 1 << 16

// ErrInvalidCapacity is returned when a cache is constructed with a
// non-positive capacity.
var ErrInvalidCapacity = errors.New("lfu: capacity must be > 0")

// OverwritePolicy decides whether Set on a resident key counts as an access.
type OverwritePolicy int

const (
	// OverwriteCountsAsAccess bumps the key's frequency on overwrite (default).
	OverwriteCountsAsAccess OverwritePolicy = iota
	// OverwriteKeepsFrequency replaces the value and leaves frequency and
	// tie-break position untouched.
	OverwriteKeepsFrequency
)

// Config configures a Cache. Zero values other than Capacity are safe.
type Config[K comparable, V any] struct {
	// Capacity is the maximum number of resident entries (> 0).
	Capacity int

	// OnEvict is called for every key evicted to make room and for
	// RemoveLeastFrequent. It is not called for Remove or Purge.
	OnEvict func(k K, v V, freq uint64)

	Overwrite OverwritePolicy
}

// Bucket is a diagnostic view of one frequency bucket.
type Bucket[K comparable] struct {
	Freq uint64
	Keys []K // oldest arrival first
}

type entry[K comparable, V any] struct {
	key  K
	val  V
	live bool
}

// Cache is a fixed-capacity LFU cache with O(1) Get, Set and Remove.
// Ties at the minimum frequency are broken by evicting the key that arrived
// at that frequency first.
//
// Cache is not safe for concurrent use. Get mutates frequency state, so even
// readers need exclusive access; see package cache for a locked wrapper.
type Cache[K comparable, V any] struct {
	capacity  int
	overwrite OverwritePolicy
	onEvict   func(K, V, uint64)

	items   map[K]slot
	entries []entry[K, V]
	free    []slot
	freqs   *ledger
}

// New returns an empty cache holding at most capacity entries.
func New[K comparable, V any](capacity int) (*Cache[K, V], error) {
	return NewWithConfig(Config[K, V]{Capacity: capacity})
}

// NewWithConfig returns an empty cache configured by cfg.
func NewWithConfig[K comparable, V any](cfg Config[K, V]) (*Cache[K, V], error) {
	if cfg.Capacity <= 0 {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidCapacity, cfg.Capacity)
	}
	hint := min(cfg.Capacity, maxPrealloc)
	return &Cache[K, V]{
		capacity:  cfg.Capacity,
		overwrite: cfg.Overwrite,
		onEvict:   cfg.OnEvict,
		items:     make(map[K]slot, hint),
		entries:   make([]entry[K, V], 0, hint),
		freqs:     newLedger(hint),
	}, nil
}

// Get returns the value for k and bumps its frequency on a hit.
// A miss has no side effect.
func (c *Cache[K, V]) Get(k K) (V, bool) {
	s, ok := c.items[k]
	if !ok {
		var zero V
		return zero, false
	}
	c.touch(s)
	return c.entries[s].val, true
}

// Peek returns the value for k without counting an access.
func (c *Cache[K, V]) Peek(k K) (V, bool) {
	s, ok := c.items[k]
	if !ok {
		var zero V
		return zero, false
	}
	return c.entries[s].val, true
}

// Contains reports whether k is resident without counting an access.
func (c *Cache[K, V]) Contains(k K) bool {
	_, ok := c.items[k]
	return ok
}

// Set inserts or replaces k. Inserting into a full cache first evicts the
// least frequently used key.
func (c *Cache[K, V]) Set(k K, v V) {
	if s, ok := c.items[k]; ok {
		c.entries[s].val = v
		if c.overwrite == OverwriteCountsAsAccess {
			c.touch(s)
		}
		return
	}

	if len(c.items) >= c.capacity {
		c.evict()
	}

	s := c.alloc(k, v)
	c.items[k] = s
	c.freqs.bump(s, noBucket)
}

// Remove deletes k and reports whether it was present.
func (c *Cache[K, V]) Remove(k K) bool {
	s, ok := c.items[k]
	if !ok {
		return false
	}
	c.freqs.detach(s)
	delete(c.items, k)
	c.release(s)
	return true
}

// RemoveLeastFrequent evicts the current LFU victim and returns it.
func (c *Cache[K, V]) RemoveLeastFrequent() (k K, v V, freq uint64, ok bool) {
	return c.evict()
}

// Frequency returns the access count of k without counting an access.
func (c *Cache[K, V]) Frequency(k K) (uint64, bool) {
	s, ok := c.items[k]
	if !ok {
		return 0, false
	}
	return c.freqs.freq(s), true
}

// Purge drops every entry. OnEvict is not called.
func (c *Cache[K, V]) Purge() {
	clear(c.items)
	clear(c.entries)
	c.entries = c.entries[:0]
	c.free = c.free[:0]
	c.freqs.reset()
}

// Len returns the number of resident entries.
func (c *Cache[K, V]) Len() int { return len(c.items) }

// Cap returns the capacity fixed at construction.
func (c *Cache[K, V]) Cap() int { return c.capacity }

// Buckets returns the live frequency buckets in ascending order.
// Intended for tests and debugging; it allocates.
func (c *Cache[K, V]) Buckets() []Bucket[K] {
	var out []Bucket[K]
	c.freqs.walk(func(freq uint64, slots []slot) {
		keys := make([]K, len(slots))
		for i, s := range slots {
			keys[i] = c.entries[s].key
		}
		out = append(out, Bucket[K]{Freq: freq, Keys: keys})
	})
	return out
}

// ---- internals ----

func (c *Cache[K, V]) touch(s slot) {
	c.freqs.bump(s, c.freqs.bucketOf(s))
}

// evict removes the oldest key of the minimum-frequency bucket.
func (c *Cache[K, V]) evict() (k K, v V, freq uint64, ok bool) {
	b, ok := c.freqs.min()
	if !ok {
		return k, v, 0, false
	}
	freq = c.freqs.buckets[b].freq
	s := c.freqs.takeVictim(b)
	e := c.entries[s]
	delete(c.items, e.key)
	c.release(s)
	if c.onEvict != nil {
		c.onEvict(e.key, e.val, freq)
	}
	return e.key, e.val, freq, true
}

func (c *Cache[K, V]) alloc(k K, v V) slot {
	if n := len(c.free); n > 0 {
		s := c.free[n-1]
		c.free = c.free[:n-1]
		c.entries[s] = entry[K, V]{key: k, val: v, live: true}
		return s
	}
	c.entries = append(c.entries, entry[K, V]{key: k, val: v, live: true})
	return slot(len(c.entries) - 1)
}

// release zeroes the slot so the arena does not pin evicted values.
func (c *Cache[K, V]) release(s slot) {
	c.entries[s] = entry[K, V]{}
	c.free = append(c.free, s)
}
