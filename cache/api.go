package cache

import "context"

// Cache is a sharded, in-memory LFU cache.
// All methods are safe for concurrent use by multiple goroutines.
//
// Every operation is O(1) amortized: a hash to pick the shard, one map
// lookup and a constant number of bucket splices under the shard lock.
type Cache[K comparable, V any] interface {
	// Add inserts k→v only if k is not present.
	// Returns false if the key already exists (no update, no access counted).
	Add(k K, v V) bool

	// Set inserts or updates k→v. Inserting into a full shard first evicts
	// that shard's least frequently used key. The victim is the cache-wide
	// minimum only with Options.Shards == 1; with more shards a colder key
	// may survive in another shard. Updating counts as an access unless
	// Options.Overwrite says otherwise.
	Set(k K, v V)

	// Get returns the value for k and a presence flag.
	// A hit counts as an access and raises the key's frequency.
	Get(k K) (V, bool)

	// Peek returns the value for k without counting an access.
	Peek(k K) (V, bool)

	// Remove deletes k if present and returns true on success.
	Remove(k K) bool

	// Frequency returns the access count of k without counting an access.
	Frequency(k K) (uint64, bool)

	// Len returns the total number of resident entries across all shards.
	Len() int

	// Cap returns the total capacity across all shards.
	Cap() int

	// Stats returns hit/miss/eviction counters summed over shards.
	Stats() Stats

	// Purge evicts every entry, reporting EvictPurge for each.
	Purge()

	// Close marks the cache closed: writes are ignored, reads miss.
	Close() error

	// GetOrLoad returns the value for k, loading it via Options.Loader on miss.
	// Concurrent loads for the same key are coalesced.
	// Returns ErrNoLoader without a Loader and ErrClosed after Close.
	GetOrLoad(ctx context.Context, k K) (V, error)
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// HitRatio returns hits/(hits+misses), or 0 before any lookup.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
