package multiindex

// index is the internal dispatch surface the container drives every
// configured index through. Each of OrderedIndex and HashedIndex implements
// it regardless of their key type K, since every method here operates only
// on handles and opaque per-operation hint/cache values.
//
// The two-phase insert protocol (preInsert then commitInsert) and the
// three-phase modify protocol (createCache, then the caller mutates the
// value, then eraseIfModified/commitInsert) are what let the container keep
// every index in lock-step without any index knowing about the others.
type index[T any] interface {
	// preInsert computes where h would go under this index and reports a
	// conflicting existing handle for unique indices. It never links h into
	// the index; a hashed index may allocate or grow its bucket array here.
	// The returned hint is opaque and must be passed back to commitInsert
	// for the same h.
	preInsert(h handle) (conflict handle, hint any)

	// commitInsert splices h into the index at the position computed by a
	// prior preInsert, using hint, then rebalances as needed.
	commitInsert(h handle, hint any)

	// remove unlinks h from this index's structure. h is not freed.
	remove(h handle)

	// createCache captures whatever this index needs to remove h in O(1)
	// after a modify callback runs, before the callback has a chance to
	// change h's key. Ordered indices need nothing; hashed indices need
	// the bucket-chain predecessor (or a "head of chain" marker).
	createCache(h handle) any

	// eraseIfModified detects (after a modify callback ran) whether h's
	// position under this index is now stale and, if so, removes it using
	// cache and reports true. It must not be called more than once per
	// modify per index.
	eraseIfModified(h handle, cache any) bool

	// clear resets this index's structure without touching the arena.
	clear()

	// count reports the number of entries live in this index (should
	// always equal the container size; exposed for invariant checks).
	count() int

	// tag returns the opaque tag this index was registered under.
	tag() any
}

// indexBuilder constructs an index[T] bound to a concrete container. It is
// the Go stand-in for a compile-time "index_type_helper" specialization:
// callers assemble a []indexBuilder[T] (one per configured index) and pass
// it to New.
type indexBuilder[T any] func(c *Container[T]) index[T]
