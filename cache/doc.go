// Package cache provides a generic, sharded, concurrency-safe LFU cache built
// on package lfu, with eviction callbacks, lightweight metrics hooks and
// coalesced loading.
//
// Design
//
//   - Concurrency: the cache is split into shards, each holding one lfu.Cache
//     behind a sync.Mutex. Get raises a key's frequency, so reads take the
//     same exclusive lock as writes. The default shard count is
//     nextPow2(2*GOMAXPROCS), clamped to Capacity.
//
//   - Capacity: Options.Capacity is split exactly across shards, so Len()
//     never exceeds it. Eviction happens inside the shard that receives the
//     insert; with Shards: 1 the LFU order is global.
//
//   - Eviction: the victim is the least frequently used key of the shard,
//     ties going to the key that reached that frequency first.
//
//   - GetOrLoad: coalesces concurrent loads for the same key. If Loader is
//     nil, GetOrLoad returns ErrNoLoader.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Size signals.
//     By default NoopMetrics is used; see package metrics/prom for a
//     Prometheus adapter.
//
//   - Callbacks: Options.OnEvict(k, v, reason) is called for every eviction
//     (reason is EvictCapacity or EvictPurge). Remove is not an eviction.
//
// Basic usage
//
//	c, err := cache.New[string, []byte](cache.Options[string, []byte]{Capacity: 10_000})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	c.Set("a", []byte("1"))
//	if v, ok := c.Get("a"); ok {
//	    _ = v // use value
//	}
//	c.Remove("a")
//
// With GetOrLoad
//
//	c, _ := cache.New[string, string](cache.Options[string, string]{
//	    Capacity: 1024,
//	    Loader: func(ctx context.Context, k string) (string, error) {
//	        // e.g. fetch from DB
//	        return "v:" + k, nil
//	    },
//	})
//	v, err := c.GetOrLoad(context.Background(), "key")
//
// Exporting metrics
//
//	m := prom.New(nil, "lfucache", "demo", nil) // implements Metrics
//	c, _ := cache.New[string, []byte](cache.Options[string, []byte]{
//	    Capacity: 10_000,
//	    Metrics:  m,
//	})
package cache
