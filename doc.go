// Package multiindex provides an in-memory container that keeps a single
// arena of elements simultaneously available through multiple independent
// indices — ordered (balanced tree) and hashed (separate chaining), each
// unique or non-unique — modeled on Boost.MultiIndex's multi_index_container.
//
// # Quick Start
//
//	type Person struct {
//	    ID   int
//	    Name string
//	}
//
//	const byID, byName = "by-id", "by-name"
//
//	c := multiindex.New[Person](
//	    multiindex.OrderedUnique[Person, int](byID, func(p *Person) int { return p.ID },
//	        func(a, b int) bool { return a < b }),
//	    multiindex.HashedNonUnique[Person, string](byName, func(p *Person) string { return p.Name },
//	        multiindex.FNV1a64, func(a, b string) bool { return a == b }),
//	)
//
//	byIDIdx := multiindex.Ordered[Person, int](c, byID)
//	byIDIdx.Insert(Person{ID: 1, Name: "Ada"})
//
// # Insert / Erase / Modify / Extract
//
// Every index view (OrderedIndex, HashedIndex) exposes the same basic
// operation shapes, each of which keeps every configured index consistent:
//
//	it, ok := idx.Insert(value)     // two-phase: all indices probe, then all commit
//	idx.Erase(it)                   // removes from every index
//	idx.Modify(it, func(v *T) {...}) // cache, mutate, reconcile against every index
//	nh := idx.Extract(it)           // detaches without destroying
//	idx.InsertHandle(nh)            // reinserts a previously extracted element
//
// A unique index rejects an insert or modify that would collide with an
// existing key; Insert reports the conflicting element and false, and a
// rejected Modify destroys the element rather than leaving it partially
// re-indexed. InsertErr and InsertHandleErr are Insert/InsertHandle for
// callers who'd rather get an *ErrKeyConflict than a bool.
//
// # Copying
//
// c.Clone() builds a new Container with every index rebuilt from scratch
// and populated by replaying c's insertion-order list; the two containers
// afterward share no state.
//
// # Node Handles
//
// NodeHandle models a detached, still-alive element: Extract hands one out,
// and InsertHandle (or Discard) consumes it. A NodeHandle left unconsumed is
// eventually reclaimed by its finalizer, but callers that care about
// deterministic cleanup should call Discard explicitly.
//
// # Iterator and Pointer Stability
//
// Insertion never invalidates existing Value() pointers (the arena only
// grows), erasing an element invalidates only iterators/pointers to that
// element, and a hashed index's rehash never changes which element an
// iterator-obtained pointer refers to, only the bucket it's chained under.
package multiindex
