package lfu

// bucketID and slot are stable integer handles into the ledger's bucket arena
// and the cache's entry arena. Freed handles are recycled.
type (
	bucketID int32
	slot     int32
)

const (
	// sentinel is the permanent frequency-0 bucket anchoring the chain.
	sentinel bucketID = 0
	noBucket bucketID = -1
	noSlot   slot     = -1
)

// bucket holds every slot currently observed exactly freq times.
// Slots are kept in arrival order: first is the oldest, last the newest.
type bucket struct {
	freq        uint64
	prev, next  bucketID
	first, last slot
	n           int
}

// link is the per-slot bookkeeping: the bucket holding the slot and its
// neighbours inside that bucket's key list.
type link struct {
	bucket     bucketID
	prev, next slot
}

// ledger is an ascending, circular chain of frequency buckets anchored at a
// frequency-0 sentinel. Linked non-sentinel buckets are never empty, so the
// sentinel's successor is always the minimum-frequency bucket.
//
// Frequencies only grow by one, and the bucket for f+1 is only ever needed
// right after the bucket for f, so every structural change is a local splice.
type ledger struct {
	buckets []bucket
	free    []bucketID
	links   []link
}

func newLedger(capacity int) *ledger {
	l := &ledger{
		buckets: make([]bucket, 1, 8),
		links:   make([]link, 0, capacity),
	}
	l.buckets[sentinel] = bucket{prev: sentinel, next: sentinel, first: noSlot, last: noSlot}
	return l
}

// bump moves s one frequency up and returns the bucket now holding it.
// from == noBucket means s is not tracked yet and lands at frequency 1.
func (l *ledger) bump(s slot, from bucketID) bucketID {
	at, freq := sentinel, uint64(1)
	if from != noBucket {
		at, freq = from, l.buckets[from].freq+1
	} else {
		l.grow(s)
	}

	to := l.buckets[at].next
	if to == sentinel || l.buckets[to].freq != freq {
		to = l.spliceAfter(at, freq)
	}
	if from != noBucket {
		l.unlinkSlot(s)
	}
	l.pushSlot(to, s)
	return to
}

// min returns the lowest-frequency live bucket.
func (l *ledger) min() (bucketID, bool) {
	b := l.buckets[sentinel].next
	return b, b != sentinel
}

// takeVictim removes and returns the oldest slot of b.
func (l *ledger) takeVictim(b bucketID) slot {
	s := l.buckets[b].first
	l.unlinkSlot(s)
	return s
}

// detach drops s from whatever bucket holds it.
func (l *ledger) detach(s slot) {
	if int(s) >= len(l.links) || l.links[s].bucket == noBucket {
		return
	}
	l.unlinkSlot(s)
}

// freq reports the current frequency of s (0 if untracked).
func (l *ledger) freq(s slot) uint64 {
	if int(s) >= len(l.links) || l.links[s].bucket == noBucket {
		return 0
	}
	return l.buckets[l.links[s].bucket].freq
}

func (l *ledger) bucketOf(s slot) bucketID { return l.links[s].bucket }

// reset drops every bucket but the sentinel and forgets all slots.
func (l *ledger) reset() {
	l.buckets = l.buckets[:1]
	l.buckets[sentinel] = bucket{prev: sentinel, next: sentinel, first: noSlot, last: noSlot}
	l.free = l.free[:0]
	l.links = l.links[:0]
}

// walk calls fn for every live bucket in ascending order with its slots
// oldest-first.
func (l *ledger) walk(fn func(freq uint64, slots []slot)) {
	for b := l.buckets[sentinel].next; b != sentinel; b = l.buckets[b].next {
		bk := l.buckets[b]
		slots := make([]slot, 0, bk.n)
		for s := bk.first; s != noSlot; s = l.links[s].next {
			slots = append(slots, s)
		}
		fn(bk.freq, slots)
	}
}

// ---- internals ----

func (l *ledger) grow(s slot) {
	for int(s) >= len(l.links) {
		l.links = append(l.links, link{bucket: noBucket, prev: noSlot, next: noSlot})
	}
}

// spliceAfter links a new empty bucket of frequency freq right after at.
func (l *ledger) spliceAfter(at bucketID, freq uint64) bucketID {
	var b bucketID
	if n := len(l.free); n > 0 {
		b = l.free[n-1]
		l.free = l.free[:n-1]
	} else {
		l.buckets = append(l.buckets, bucket{})
		b = bucketID(len(l.buckets) - 1)
	}
	nxt := l.buckets[at].next
	l.buckets[b] = bucket{freq: freq, prev: at, next: nxt, first: noSlot, last: noSlot}
	l.buckets[at].next = b
	l.buckets[nxt].prev = b
	return b
}

// pushSlot appends s at the newest end of b.
func (l *ledger) pushSlot(b bucketID, s slot) {
	bk := &l.buckets[b]
	l.links[s] = link{bucket: b, prev: bk.last, next: noSlot}
	if bk.last != noSlot {
		l.links[bk.last].next = s
	} else {
		bk.first = s
	}
	bk.last = s
	bk.n++
}

// unlinkSlot removes s from its bucket and discards the bucket if that was
// its last slot.
func (l *ledger) unlinkSlot(s slot) {
	lk := l.links[s]
	bk := &l.buckets[lk.bucket]
	if lk.prev != noSlot {
		l.links[lk.prev].next = lk.next
	} else {
		bk.first = lk.next
	}
	if lk.next != noSlot {
		l.links[lk.next].prev = lk.prev
	} else {
		bk.last = lk.prev
	}
	bk.n--
	l.links[s] = link{bucket: noBucket, prev: noSlot, next: noSlot}

	if bk.n == 0 && lk.bucket != sentinel {
		l.discard(lk.bucket)
	}
}

func (l *ledger) discard(b bucketID) {
	bk := l.buckets[b]
	l.buckets[bk.prev].next = bk.next
	l.buckets[bk.next].prev = bk.prev
	l.buckets[b] = bucket{prev: noBucket, next: noBucket, first: noSlot, last: noSlot}
	l.free = append(l.free, b)
}
