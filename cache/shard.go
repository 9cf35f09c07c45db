package cache

import (
	"sync"
	"sync/atomic"

	"github.com/IvanBrykalov/lfucache/lfu"
)

// shard is an independent partition of the cache: one lfu.Cache and the
// exclusive lock guarding it. Get mutates frequency state, so there is no
// read lock; every method takes mu.
type shard[K comparable, V any] struct {
	// ---- guarded by mu ----
	mu     sync.Mutex
	core   *lfu.Cache[K, V]
	reason EvictReason // reason reported by onEvict for the current operation

	hits, misses, evicts uint64

	opt      *Options[K, V]
	resident *atomic.Int64
}

func newShard[K comparable, V any](capacity int, opt *Options[K, V], resident *atomic.Int64) (*shard[K, V], error) {
	s := &shard[K, V]{opt: opt, resident: resident}
	c, err := lfu.NewWithConfig(lfu.Config[K, V]{
		Capacity:  capacity,
		Overwrite: opt.Overwrite,
		OnEvict:   s.onEvict,
	})
	if err != nil {
		return nil, err
	}
	s.core = c
	return s, nil
}

// Add inserts a NEW entry. Returns false if the key already exists.
func (s *shard[K, V]) Add(k K, v V) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.core.Contains(k) {
		return false
	}
	s.setLocked(k, v)
	return true
}

// Set inserts or updates an entry, evicting the shard's LFU key when full.
func (s *shard[K, V]) Set(k K, v V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(k, v)
}

// Get returns the value and counts an access on hit.
func (s *shard[K, V]) Get(k K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.core.Get(k)
	if !ok {
		s.misses++
		s.opt.Metrics.Miss()
		return v, false
	}
	s.hits++
	s.opt.Metrics.Hit()
	return v, true
}

func (s *shard[K, V]) Peek(k K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.core.Peek(k)
}

// Remove deletes an entry by key. Explicit removal is not an eviction.
func (s *shard[K, V]) Remove(k K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.core.Remove(k) {
		return false
	}
	s.opt.Metrics.Size(int(s.resident.Add(-1)))
	return true
}

func (s *shard[K, V]) Frequency(k K) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.core.Frequency(k)
}

func (s *shard[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.core.Len()
}

func (s *shard[K, V]) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{Hits: s.hits, Misses: s.misses, Evictions: s.evicts}
}

// Purge evicts every entry in LFU order so callbacks see EvictPurge.
func (s *shard[K, V]) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.core.Len()
	s.reason = EvictPurge
	for {
		if _, _, _, ok := s.core.RemoveLeastFrequent(); !ok {
			break
		}
	}
	s.reason = EvictCapacity
	if n > 0 {
		s.opt.Metrics.Size(int(s.resident.Add(int64(-n))))
	}
}

// -------------------- internals (mu held) --------------------

func (s *shard[K, V]) setLocked(k K, v V) {
	before := s.core.Len()
	s.core.Set(k, v)
	if d := s.core.Len() - before; d != 0 {
		s.opt.Metrics.Size(int(s.resident.Add(int64(d))))
	}
}

// onEvict is the lfu.Config.OnEvict hook; it runs under mu. Resident
// accounting is left to the caller, which sees the net length change.
func (s *shard[K, V]) onEvict(k K, v V, freq uint64) {
	s.evicts++
	s.opt.Metrics.Evict(s.reason, freq)
	if cb := s.opt.OnEvict; cb != nil {
		cb(k, v, s.reason)
	}
}
