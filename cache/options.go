package cache

import (
	"context"

	"github.com/IvanBrykalov/lfucache/lfu"
)

// EvictReason explains why an entry was removed.
type EvictReason int

const (
	// EvictCapacity — the shard was full and this was its LFU victim.
	EvictCapacity EvictReason = iota
	// EvictPurge — dropped by Purge.
	EvictPurge
)

func (r EvictReason) String() string {
	switch r {
	case EvictCapacity:
		return "capacity"
	case EvictPurge:
		return "purge"
	default:
		return "unknown"
	}
}

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	// Evict reports one eviction and the victim's access count at that time.
	Evict(reason EvictReason, freq uint64)
	// Size reports the total number of resident entries.
	Size(entries int)
}

// Options configures the cache behavior. Zero values are safe apart from
// Capacity; defaults are applied in New():
//   - Shards <= 0  => auto (≈ 2*GOMAXPROCS, power of two, at most Capacity)
//   - nil Metrics  => NoopMetrics
//   - Overwrite    => lfu.OverwriteCountsAsAccess
type Options[K comparable, V any] struct {
	// Capacity is the total entry limit (> 0). It is split exactly across
	// shards, so Len() never exceeds it.
	Capacity int

	// Shards defines the number of shards. Eviction picks the LFU key of
	// the shard receiving the insert; use 1 for a single global LFU order.
	Shards int

	// Overwrite decides whether Set on a resident key counts as an access.
	Overwrite lfu.OverwritePolicy

	// Loader fetches a value on cache miss. Used by GetOrLoad.
	Loader func(ctx context.Context, k K) (V, error)

	// OnEvict is called under the shard lock; keep callbacks lightweight and
	// do not call back into the cache.
	OnEvict func(k K, v V, reason EvictReason)
	Metrics Metrics
}
