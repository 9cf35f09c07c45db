package util

import "runtime"

// NextPow2 returns the smallest power of two >= x (1 for x <= 1).
// Overflow clamps to 1<<63.
func NextPow2(x uint64) uint64 {
	if x <= 1 {
		return 1
	}
	x--
	x |= x >> 1
	x |= x >> 2
	x |= x >> 4
	x |= x >> 8
	x |= x >> 16
	x |= x >> 32
	x++
	if x == 0 {
		return 1 << 63
	}
	return x
}

// ShardCount resolves the number of shards for a cache of the given capacity.
// requested <= 0 picks nextPow2(2*GOMAXPROCS) clamped to 256. The result never
// exceeds capacity, so every shard can hold at least one entry.
func ShardCount(requested, capacity int) int {
	n := requested
	if n <= 0 {
		p := runtime.GOMAXPROCS(0)
		if p < 1 {
			p = 1
		}
		n = int(NextPow2(uint64(p * 2)))
		if n > 256 {
			n = 256
		}
	}
	if n > capacity {
		n = capacity
	}
	if n < 1 {
		n = 1
	}
	return n
}

// SplitCapacity divides capacity across shards exactly: the first
// capacity%shards shards get one extra slot. The parts always sum to capacity.
func SplitCapacity(capacity, shards int) []int {
	parts := make([]int, shards)
	base, extra := capacity/shards, capacity%shards
	for i := range parts {
		parts[i] = base
		if i < extra {
			parts[i]++
		}
	}
	return parts
}

// ShardIndex maps a 64-bit hash to a shard index.
// Uses a mask when shards is a power of two, modulo otherwise.
func ShardIndex(hash uint64, shards int) int {
	if shards <= 1 {
		return 0
	}
	if s := uint64(shards); s&(s-1) == 0 {
		return int(hash & (s - 1))
	}
	return int(hash % uint64(shards))
}
