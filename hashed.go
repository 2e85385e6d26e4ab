package multiindex

// hashSlot is one hashed index's per-node bookkeeping: the singly linked
// bucket-chain pointer plus the cached hash of the node's key.
type hashSlot struct {
	next handle
	hash uint64
	init bool
}

// defaultFirstBucketCount is the bucket count allocated on a hashed index's
// first insert. With the 0.8 load-factor threshold, the first rehash (to 32
// buckets) happens when the 14th element is inserted. Any power of two is
// valid; constructors may override it.
const defaultFirstBucketCount = 16

const loadFactorThreshold = 0.8

// HashedIndex maintains a separate-chaining hash table over the container's
// elements, keyed by hash(key(value)) with equivalence eq. Like
// OrderedIndex, it is both the algorithm and the public view.
type HashedIndex[T any, K any] struct {
	c                *Container[T]
	indexTag         any
	key              func(*T) K
	hashFn           func(K) uint64
	eq               func(a, b K) bool
	unique           bool
	slots            []hashSlot
	buckets          []handle
	sizeCount        int
	firstBucketCount int
}

type hashedInsertHint struct {
	hash       uint64
	bucketIdx  int
}

type hashedPremodifyCache struct {
	bucketIdx int
	prev      handle // noHandle if node was the chain head
	wasHead   bool
}

// HashedUnique configures a uniquely-keyed separate-chaining hashed index.
// initialBuckets, if > 0, overrides the default first-allocation bucket
// count (always rounded up to a power of two).
func HashedUnique[T any, K any](tag any, keyFn func(*T) K, hashFn func(K) uint64, eq func(a, b K) bool, initialBuckets ...int) indexBuilder[T] {
	return newHashedBuilder(tag, keyFn, hashFn, eq, true, initialBuckets...)
}

// HashedNonUnique configures a non-unique separate-chaining hashed index.
func HashedNonUnique[T any, K any](tag any, keyFn func(*T) K, hashFn func(K) uint64, eq func(a, b K) bool, initialBuckets ...int) indexBuilder[T] {
	return newHashedBuilder(tag, keyFn, hashFn, eq, false, initialBuckets...)
}

func newHashedBuilder[T any, K any](tag any, keyFn func(*T) K, hashFn func(K) uint64, eq func(a, b K) bool, unique bool, initialBuckets ...int) indexBuilder[T] {
	first := defaultFirstBucketCount
	if len(initialBuckets) > 0 && initialBuckets[0] > 0 {
		first = nextPowerOfTwo(initialBuckets[0])
	}
	return func(c *Container[T]) index[T] {
		return &HashedIndex[T, K]{
			c:                c,
			indexTag:         tag,
			key:              keyFn,
			hashFn:           hashFn,
			eq:               eq,
			unique:           unique,
			firstBucketCount: first,
		}
	}
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func (h *HashedIndex[T, K]) tag() any { return h.indexTag }

func (h *HashedIndex[T, K]) ensure(n handle) {
	for handle(len(h.slots)) <= n {
		h.slots = append(h.slots, hashSlot{next: noHandle})
	}
}

func (h *HashedIndex[T, K]) valueOf(n handle) *T { return h.c.arena.value(n) }
func (h *HashedIndex[T, K]) keyOf(n handle) K    { return h.key(h.valueOf(n)) }

// BucketCount reports the current number of buckets (always a power of two,
// zero before the first insert).
func (h *HashedIndex[T, K]) BucketCount() int { return len(h.buckets) }

// LoadFactor reports size()/BucketCount(), or 0 if no buckets are allocated.
func (h *HashedIndex[T, K]) LoadFactor() float64 {
	if len(h.buckets) == 0 {
		return 0
	}
	return float64(h.sizeCount) / float64(len(h.buckets))
}

func (h *HashedIndex[T, K]) initBuckets(n int) {
	h.buckets = make([]handle, n)
	for i := range h.buckets {
		h.buckets[i] = noHandle
	}
}

// rehash grows the bucket array to newCount (a power of two) and re-chains
// every live node by its already-cached hash, without recomputing it.
func (h *HashedIndex[T, K]) rehash(newCount int) {
	newBuckets := make([]handle, newCount)
	for i := range newBuckets {
		newBuckets[i] = noHandle
	}
	mask := handle(newCount - 1)
	for _, head := range h.buckets {
		cur := head
		for cur != noHandle {
			next := h.slots[cur].next
			idx := handle(h.slots[cur].hash) & mask
			h.slots[cur].next = newBuckets[idx]
			newBuckets[idx] = cur
			cur = next
		}
	}
	h.buckets = newBuckets
	if h.c.metrics != nil {
		h.c.metrics.RecordRehash(newCount)
	}
	if h.c.logger != nil {
		h.c.logger.LogRehash(newCount, h.sizeCount)
	}
}

// preInsert implements index[T]. It grows the bucket array (allocating the
// first time, doubling at load factor >= 0.8) before computing the hint,
// matching the "grow before insert proceeds" rule from the spec.
func (h *HashedIndex[T, K]) preInsert(n handle) (handle, any) {
	h.ensure(n)
	k := h.keyOf(n)
	hv := h.hashFn(k)

	if len(h.buckets) == 0 {
		h.initBuckets(h.firstBucketCount)
	} else if float64(h.c.arena.len())/float64(len(h.buckets)) >= loadFactorThreshold {
		h.rehash(len(h.buckets) * 2)
	}

	mask := handle(len(h.buckets) - 1)
	idx := handle(hv) & mask

	if h.unique {
		cur := h.buckets[idx]
		for cur != noHandle {
			if h.slots[cur].hash == hv && h.eq(h.keyOf(cur), k) {
				return cur, nil
			}
			cur = h.slots[cur].next
		}
	}
	return noHandle, &hashedInsertHint{hash: hv, bucketIdx: int(idx)}
}

// commitInsert implements index[T].
func (h *HashedIndex[T, K]) commitInsert(n handle, hintAny any) {
	h.ensure(n)
	hint := hintAny.(*hashedInsertHint)
	h.slots[n].hash = hint.hash
	h.slots[n].init = true
	h.slots[n].next = h.buckets[hint.bucketIdx]
	h.buckets[hint.bucketIdx] = n
	h.sizeCount++
}

// createCache implements index[T]: locate n's chain predecessor (or mark it
// as the chain head) so it can be unlinked in O(1) even after its key (and
// therefore bucket) changes.
func (h *HashedIndex[T, K]) createCache(n handle) any {
	if len(h.buckets) == 0 {
		return &hashedPremodifyCache{prev: noHandle}
	}
	mask := handle(len(h.buckets) - 1)
	idx := handle(h.slots[n].hash) & mask
	cur := h.buckets[idx]
	var prev handle = noHandle
	for cur != noHandle {
		if cur == n {
			if prev == noHandle {
				return &hashedPremodifyCache{bucketIdx: int(idx), prev: noHandle, wasHead: true}
			}
			return &hashedPremodifyCache{bucketIdx: int(idx), prev: prev}
		}
		prev = cur
		cur = h.slots[cur].next
	}
	return &hashedPremodifyCache{prev: noHandle}
}

// eraseIfModified implements index[T].
func (h *HashedIndex[T, K]) eraseIfModified(n handle, cacheAny any) bool {
	newHash := h.hashFn(h.keyOf(n))
	if newHash == h.slots[n].hash {
		return false
	}
	cache := cacheAny.(*hashedPremodifyCache)
	if cache.wasHead {
		h.buckets[cache.bucketIdx] = h.slots[n].next
	} else if cache.prev != noHandle {
		h.slots[cache.prev].next = h.slots[n].next
	}
	h.slots[n].next = noHandle
	h.sizeCount--
	return true
}

// remove implements index[T]: unlink n from its bucket chain by linear
// rescan (used by erase/extract, which have no premodify cache to rely on).
func (h *HashedIndex[T, K]) remove(n handle) {
	if len(h.buckets) == 0 {
		return
	}
	mask := handle(len(h.buckets) - 1)
	idx := handle(h.slots[n].hash) & mask
	cur := h.buckets[idx]
	var prev handle = noHandle
	for cur != noHandle {
		if cur == n {
			if prev == noHandle {
				h.buckets[idx] = h.slots[n].next
			} else {
				h.slots[prev].next = h.slots[n].next
			}
			h.sizeCount--
			return
		}
		prev = cur
		cur = h.slots[cur].next
	}
}

func (h *HashedIndex[T, K]) clear() {
	h.slots = nil
	h.buckets = nil
	h.sizeCount = 0
}

func (h *HashedIndex[T, K]) count() int { return h.sizeCount }

// --- public view surface --------------------------------------------------

// HashedIterator walks one HashedIndex by bucket index, then chain order.
type HashedIterator[T any, K any] struct {
	h   *HashedIndex[T, K]
	cur handle
}

// Valid reports whether the iterator refers to an element.
func (it HashedIterator[T, K]) Valid() bool { return it.cur != noHandle }

// Value returns a pointer to the referenced element (see the stability note
// on OrderedIterator.Value).
func (it HashedIterator[T, K]) Value() *T {
	if it.cur == noHandle {
		return nil
	}
	return it.h.valueOf(it.cur)
}

// Next advances to the next element: the rest of the current bucket chain,
// then the first non-empty subsequent bucket.
func (it HashedIterator[T, K]) Next() HashedIterator[T, K] {
	if it.cur == noHandle {
		return it
	}
	h := it.h
	next := h.slots[it.cur].next
	if next == noHandle {
		mask := handle(len(h.buckets) - 1)
		bucket := int(handle(h.slots[it.cur].hash) & mask)
		for bucket = bucket + 1; bucket < len(h.buckets); bucket++ {
			if h.buckets[bucket] != noHandle {
				next = h.buckets[bucket]
				break
			}
		}
	}
	return HashedIterator[T, K]{h: h, cur: next}
}

// Equal reports whether two iterators refer to the same element.
func (it HashedIterator[T, K]) Equal(other HashedIterator[T, K]) bool { return it.cur == other.cur }

func (h *HashedIndex[T, K]) iter(n handle) HashedIterator[T, K] {
	return HashedIterator[T, K]{h: h, cur: n}
}

// Begin returns an iterator to the first bucket's first element in
// insertion (LIFO-within-bucket) order.
func (h *HashedIndex[T, K]) Begin() HashedIterator[T, K] {
	for _, head := range h.buckets {
		if head != noHandle {
			return h.iter(head)
		}
	}
	return h.End()
}

// End returns the past-the-end iterator.
func (h *HashedIndex[T, K]) End() HashedIterator[T, K] { return h.iter(noHandle) }

// Len reports the number of elements visible through this index.
func (h *HashedIndex[T, K]) Len() int { return h.sizeCount }

// Empty reports whether the index is empty.
func (h *HashedIndex[T, K]) Empty() bool { return h.sizeCount == 0 }

// Insert adds value, participating in every other configured index.
func (h *HashedIndex[T, K]) Insert(value T) (HashedIterator[T, K], bool) {
	n, conflict, ok := h.c.doInsert(value)
	if !ok {
		return h.iter(conflict), false
	}
	return h.iter(n), true
}

// Find returns an iterator to an element whose key is eq to key, or End().
func (h *HashedIndex[T, K]) Find(key K) HashedIterator[T, K] {
	if len(h.buckets) == 0 {
		return h.End()
	}
	hv := h.hashFn(key)
	mask := handle(len(h.buckets) - 1)
	cur := h.buckets[handle(hv)&mask]
	for cur != noHandle {
		if h.slots[cur].hash == hv && h.eq(h.keyOf(cur), key) {
			return h.iter(cur)
		}
		cur = h.slots[cur].next
	}
	return h.End()
}

// Count reports how many elements are eq to key (0 or 1 for unique indices).
func (h *HashedIndex[T, K]) Count(key K) int {
	if len(h.buckets) == 0 {
		return 0
	}
	hv := h.hashFn(key)
	mask := handle(len(h.buckets) - 1)
	cur := h.buckets[handle(hv)&mask]
	n := 0
	for cur != noHandle {
		if h.slots[cur].hash == hv && h.eq(h.keyOf(cur), key) {
			n++
			if h.unique {
				break
			}
		}
		cur = h.slots[cur].next
	}
	return n
}

// Modify runs mutator against the referenced element and re-places it in
// every index, exactly like OrderedIndex.Modify.
func (h *HashedIndex[T, K]) Modify(it HashedIterator[T, K], mutator func(*T)) bool {
	if !it.Valid() {
		return false
	}
	return h.c.doModify(it.cur, mutator)
}

// Erase removes the referenced element from every index and returns an
// iterator to the next element in this index's order.
func (h *HashedIndex[T, K]) Erase(it HashedIterator[T, K]) HashedIterator[T, K] {
	if !it.Valid() {
		return h.End()
	}
	next := it.Next()
	h.c.doErase(it.cur)
	return next
}

// EraseKey removes every element eq to key and reports how many were
// removed (0 or 1 for unique indices).
func (h *HashedIndex[T, K]) EraseKey(key K) int {
	n := 0
	for {
		it := h.Find(key)
		if !it.Valid() {
			return n
		}
		h.c.doErase(it.cur)
		n++
		if h.unique {
			return n
		}
	}
}

// Extract removes the referenced element from every index without
// destroying it, transferring ownership to the returned NodeHandle.
func (h *HashedIndex[T, K]) Extract(it HashedIterator[T, K]) *NodeHandle[T] {
	if !it.Valid() {
		return &NodeHandle[T]{}
	}
	return h.c.doExtract(it.cur)
}

// InsertHandle consumes a detached NodeHandle, reinserting it into every
// index. On conflict the handle is left non-empty.
func (h *HashedIndex[T, K]) InsertHandle(nh *NodeHandle[T]) (HashedIterator[T, K], bool) {
	n, conflict, ok := h.c.doInsertHandle(nh)
	if !ok {
		return h.iter(conflict), false
	}
	return h.iter(n), true
}

// InsertErr is Insert for callers that prefer an error to a bool: it
// returns ErrKeyConflict, naming this index's tag, when value collides
// under some unique index.
func (h *HashedIndex[T, K]) InsertErr(value T) (HashedIterator[T, K], error) {
	it, ok := h.Insert(value)
	if !ok {
		return it, translateError(&ErrKeyConflict{Tag: h.indexTag})
	}
	return it, nil
}

// InsertHandleErr is InsertHandle for callers that prefer an error to a
// bool: ErrEmptyHandle if nh was already consumed, ErrKeyConflict if
// reinsertion was rejected by a unique index (nh is left non-empty).
func (h *HashedIndex[T, K]) InsertHandleErr(nh *NodeHandle[T]) (HashedIterator[T, K], error) {
	if nh.Empty() {
		return h.End(), ErrEmptyHandle
	}
	it, ok := h.InsertHandle(nh)
	if !ok {
		return it, translateError(&ErrKeyConflict{Tag: h.indexTag})
	}
	return it, nil
}
