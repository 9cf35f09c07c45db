// Package lfu implements a fixed-capacity Least-Frequently-Used cache with
// O(1) Get, Set and Remove.
//
// Design
//
//   - Frequency ledger: keys are grouped into buckets, one bucket per exact
//     access count, chained in ascending order after a frequency-0 sentinel.
//     A bucket is created lazily the first time a key reaches its frequency,
//     always spliced directly after the bucket the key came from, and is
//     dropped the moment its last key leaves. The sentinel's successor is
//     therefore always the minimum-frequency bucket.
//
//   - Item table: a map from key to a slot in an entry arena. Buckets and
//     entries reference each other by integer handles rather than pointers,
//     and freed handles are recycled.
//
//   - Eviction: inserting a new key into a full cache evicts the key that
//     arrived first at the minimum frequency (LFU with an LRU tie-break),
//     then inserts the new key at frequency 1.
//
//   - Overwrite: by default Set on a resident key counts as an access.
//     Config.Overwrite = OverwriteKeepsFrequency makes it a pure replacement.
//
// Basic usage
//
//	c, err := lfu.New[string, int](2)
//	if err != nil {
//	    return err
//	}
//	c.Set("a", 1)
//	c.Set("b", 2)
//	c.Get("a")    // a: freq 2
//	c.Set("c", 3) // evicts b (freq 1)
//
// Cache is not safe for concurrent use. Because Get updates frequency state,
// all access must go through one exclusive lock; package cache provides that
// wrapper together with metrics and loader support.
package lfu
