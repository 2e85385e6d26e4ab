package multiindex

// Container is the coordination engine: it owns the node arena and the
// insertion-order list, and drives every configured index through the
// insert / erase / modify / extract / reinsert protocol in lock-step. Use
// New to construct one, then Ordered/Hashed to obtain a typed view of each
// configured index.
type Container[T any] struct {
	arena    nodeArena[T]
	indices  []index[T]
	byTag    map[any]int
	builders []indexBuilder[T]
	logger   *Logger
	metrics  MetricsCollector
}

// New constructs a Container configured with the given indices, built in
// order from index builders (OrderedUnique, OrderedNonUnique, HashedUnique,
// HashedNonUnique). The index order fixes the compile-time side-effect
// ordering the spec requires: pre-insert probing happens in this order, and
// a uniqueness conflict from an earlier index wins over a later one.
func New[T any](builders ...indexBuilder[T]) *Container[T] {
	return newContainer(builders, nil)
}

// NewWithOptions is New plus container-level options (logging, metrics).
// Kept separate from New so the common case — no options — never needs an
// explicit nil/empty opts argument wedged between two variadic-looking
// parameter lists.
func NewWithOptions[T any](opts []Option[T], builders ...indexBuilder[T]) *Container[T] {
	return newContainer(builders, opts)
}

func newContainer[T any](builders []indexBuilder[T], opts []Option[T]) *Container[T] {
	o := defaultOptions[T]()
	for _, opt := range opts {
		opt(o)
	}
	c := &Container[T]{
		arena:    newNodeArena[T](),
		byTag:    make(map[any]int, len(builders)),
		builders: builders,
		logger:   o.logger,
		metrics:  o.metrics,
	}
	for i, b := range builders {
		idx := b(c)
		c.indices = append(c.indices, idx)
		c.byTag[idx.tag()] = i
	}
	return c
}

// Ordered returns the ordered index registered under tag, panicking if no
// index was registered under that tag or if it isn't an ordered index with
// the requested key type K. This mirrors the original's compile-time
// static_assert(tag not found) with a runtime check, since Go generics have
// no equivalent of template specialization over a heterogeneous tuple.
func Ordered[T any, K any](c *Container[T], tag any) *OrderedIndex[T, K] {
	i, ok := c.byTag[tag]
	if !ok {
		panic(&ErrNoSuchIndex{Tag: tag})
	}
	oi, ok := c.indices[i].(*OrderedIndex[T, K])
	if !ok {
		panic(&ErrWrongIndexKind{Tag: tag, Want: "OrderedIndex with this key type"})
	}
	return oi
}

// Hashed returns the hashed index registered under tag, with the same
// panic-on-mismatch behavior as Ordered.
func Hashed[T any, K any](c *Container[T], tag any) *HashedIndex[T, K] {
	i, ok := c.byTag[tag]
	if !ok {
		panic(&ErrNoSuchIndex{Tag: tag})
	}
	hi, ok := c.indices[i].(*HashedIndex[T, K])
	if !ok {
		panic(&ErrWrongIndexKind{Tag: tag, Want: "HashedIndex with this key type"})
	}
	return hi
}

// Len returns the number of live elements, equal for every configured
// index.
func (c *Container[T]) Len() int { return c.arena.len() }

// Empty reports whether the container holds no elements.
func (c *Container[T]) Empty() bool { return c.arena.len() == 0 }

// Clear removes every element from every index and the arena. A NodeHandle
// extracted before Clear is unaffected: it was already unlinked from the
// insertion-order list, so Clear never retires its slot.
func (c *Container[T]) Clear() {
	for _, idx := range c.indices {
		idx.clear()
	}
	c.arena.clearLive()
}

// Clone returns a new Container with freshly built indices, populated by
// replaying this container's insertion-order list through the ordinary
// insert protocol. The clone shares no mutable state with the source:
// mutating one never affects the other, and it starts with its own (noop)
// logger and metrics collector rather than the source's.
func (c *Container[T]) Clone() *Container[T] {
	clone := newContainer(c.builders, nil)
	for cur := c.arena.head; cur != noHandle; cur = c.arena.nodes[cur].next {
		clone.doInsert(c.arena.nodes[cur].value)
	}
	return clone
}

// doInsert runs the two-phase insert protocol for a freshly-allocated node
// holding value. On a uniqueness conflict it returns the existing
// conflicting handle and ok=false, leaving all state unchanged and
// releasing the allocation it made.
func (c *Container[T]) doInsert(value T) (h handle, conflict handle, ok bool) {
	h = c.arena.alloc(value)
	conflict, ok = c.insertNode(h)
	if !ok {
		c.arena.freeNode(h)
		if c.logger != nil {
			c.logger.LogConflict(h, conflict)
		}
		if c.metrics != nil {
			c.metrics.RecordConflict()
		}
		return noHandle, conflict, false
	}
	if c.logger != nil {
		c.logger.LogInsert(h)
	}
	if c.metrics != nil {
		c.metrics.RecordInsert()
	}
	return h, noHandle, true
}

// insertNode runs the pre-insert/commit protocol for an already-allocated
// node h that is not yet linked into any index or the insertion-order list.
func (c *Container[T]) insertNode(h handle) (conflict handle, ok bool) {
	hints := make([]any, len(c.indices))
	for i, idx := range c.indices {
		conf, hint := idx.preInsert(h)
		if conf != noHandle {
			return conf, false
		}
		hints[i] = hint
	}
	for i, idx := range c.indices {
		idx.commitInsert(h, hints[i])
	}
	c.arena.linkEnd(h)
	return noHandle, true
}

// doErase removes h from every index, then the insertion-order list, then
// destroys it.
func (c *Container[T]) doErase(h handle) {
	for _, idx := range c.indices {
		idx.remove(h)
	}
	c.arena.unlink(h)
	c.arena.freeNode(h)
	if c.logger != nil {
		c.logger.LogErase(h)
	}
	if c.metrics != nil {
		c.metrics.RecordErase()
	}
}

// doModify runs the three-phase modify protocol: cache, user mutation,
// reconciliation. It returns false iff the mutation made h inadmissible
// under some unique index, in which case h has been destroyed.
func (c *Container[T]) doModify(h handle, mutator func(*T)) bool {
	caches := make([]any, len(c.indices))
	for i, idx := range c.indices {
		caches[i] = idx.createCache(h)
	}

	mutator(c.arena.value(h))

	changed := make([]bool, len(c.indices))
	for i, idx := range c.indices {
		changed[i] = idx.eraseIfModified(h, caches[i])
	}

	hints := make([]any, len(c.indices))
	insertable := true
	for i, idx := range c.indices {
		if !changed[i] {
			continue
		}
		conf, hint := idx.preInsert(h)
		if conf != noHandle {
			insertable = false
			break
		}
		hints[i] = hint
	}

	if insertable {
		for i, idx := range c.indices {
			if changed[i] {
				idx.commitInsert(h, hints[i])
			}
		}
		if c.logger != nil {
			c.logger.LogModify(h, true)
		}
		if c.metrics != nil {
			c.metrics.RecordModify(true)
		}
		return true
	}

	for i, idx := range c.indices {
		if !changed[i] {
			idx.remove(h)
		}
	}
	c.arena.unlink(h)
	c.arena.freeNode(h)
	if c.logger != nil {
		c.logger.LogModify(h, false)
	}
	if c.metrics != nil {
		c.metrics.RecordModify(false)
	}
	return false
}

// doExtract removes h from every index (not the arena), leaving it alive
// and owned by the returned NodeHandle.
func (c *Container[T]) doExtract(h handle) *NodeHandle[T] {
	for _, idx := range c.indices {
		idx.remove(h)
	}
	c.arena.unlink(h)
	if c.logger != nil {
		c.logger.LogExtract(h)
	}
	if c.metrics != nil {
		c.metrics.RecordExtract()
	}
	return newNodeHandle(c, h)
}

// doInsertHandle reinserts a previously extracted node, consuming nh on
// success. On conflict nh is left non-empty (still owning the node) and the
// conflicting handle is returned.
func (c *Container[T]) doInsertHandle(nh *NodeHandle[T]) (h handle, conflict handle, ok bool) {
	if nh.empty() {
		return noHandle, noHandle, false
	}
	h = nh.h
	conflict, ok = c.insertNode(h)
	if !ok {
		return noHandle, conflict, false
	}
	nh.release()
	if c.logger != nil {
		c.logger.LogReinsert(h)
	}
	return h, noHandle, true
}

// discardExtracted destroys a node owned by a NodeHandle that is never
// going to be reinserted. The node already carries no index membership.
func (c *Container[T]) discardExtracted(h handle) {
	c.arena.freeNode(h)
}

// The Project* functions below convert a handle-bearing iterator from one
// index into the equivalent position in another: given any iterator, they
// construct an iterator for a different index that refers to the very same
// element.

// ProjectOrdered builds an OrderedIndex iterator referring to the same
// element as src.
func ProjectOrdered[T any, SrcK any, DstK any](src OrderedIterator[T, SrcK], dst *OrderedIndex[T, DstK]) OrderedIterator[T, DstK] {
	if !src.Valid() {
		return dst.End()
	}
	return dst.iter(src.h)
}

// ProjectOrderedFromHashed builds an OrderedIndex iterator referring to the
// same element as src.
func ProjectOrderedFromHashed[T any, SrcK any, DstK any](src HashedIterator[T, SrcK], dst *OrderedIndex[T, DstK]) OrderedIterator[T, DstK] {
	if !src.Valid() {
		return dst.End()
	}
	return dst.iter(src.cur)
}

// ProjectHashed builds a HashedIndex iterator referring to the same element
// as src.
func ProjectHashed[T any, SrcK any, DstK any](src HashedIterator[T, SrcK], dst *HashedIndex[T, DstK]) HashedIterator[T, DstK] {
	if !src.Valid() {
		return dst.End()
	}
	return dst.iter(src.cur)
}

// ProjectHashedFromOrdered builds a HashedIndex iterator referring to the
// same element as src.
func ProjectHashedFromOrdered[T any, SrcK any, DstK any](src OrderedIterator[T, SrcK], dst *HashedIndex[T, DstK]) HashedIterator[T, DstK] {
	if !src.Valid() {
		return dst.End()
	}
	return dst.iter(src.h)
}
