package multiindex

import "runtime"

// NodeHandle is a detached element extracted from a Container: it owns the
// element's storage but participates in no index until reinserted via
// OrderedIndex.InsertHandle/HashedIndex.InsertHandle. A zero-value
// NodeHandle is empty, mirroring a default-constructed node_handle.
//
// NodeHandle is move-only in spirit: Go cannot prevent copying a struct, but
// once a handle has been consumed by InsertHandle or Discard, its fields are
// zeroed, so copies made afterward are correctly empty. Copying a *live*
// handle and reinserting/discarding both copies is a misuse this type
// cannot detect; don't do it.
type NodeHandle[T any] struct {
	c *Container[T]
	h handle
}

func newNodeHandle[T any](c *Container[T], h handle) *NodeHandle[T] {
	nh := &NodeHandle[T]{c: c, h: h}
	runtime.SetFinalizer(nh, func(nh *NodeHandle[T]) { nh.Discard() })
	return nh
}

// Empty reports whether this handle owns no element, either because it was
// never populated or because it has already been reinserted or discarded.
func (nh *NodeHandle[T]) Empty() bool { return nh == nil || nh.empty() }

func (nh *NodeHandle[T]) empty() bool { return nh == nil || nh.c == nil }

// Value returns a pointer to the owned element, or nil if empty.
func (nh *NodeHandle[T]) Value() *T {
	if nh.empty() {
		return nil
	}
	return nh.c.arena.value(nh.h)
}

// ValueErr is Value for callers that want an error rather than a silent nil
// when the handle is empty (e.g. a handle already consumed by InsertHandle
// or Discard).
func (nh *NodeHandle[T]) ValueErr() (*T, error) {
	if nh.empty() {
		return nil, ErrEmptyHandle
	}
	return nh.c.arena.value(nh.h), nil
}

// release clears ownership without destroying the node, called by
// Container.doInsertHandle once the node has been successfully spliced back
// into every index.
func (nh *NodeHandle[T]) release() {
	runtime.SetFinalizer(nh, nil)
	nh.c = nil
	nh.h = noHandle
}

// Discard destroys the owned element, returning its storage to the
// container's arena. Safe to call on an already-empty handle. Callers that
// don't intend to reinsert an extracted handle should call Discard
// explicitly rather than relying on the GC finalizer, which runs at an
// unspecified time.
func (nh *NodeHandle[T]) Discard() {
	if nh.empty() {
		return
	}
	runtime.SetFinalizer(nh, nil)
	nh.c.discardExtracted(nh.h)
	nh.c = nil
	nh.h = noHandle
}
