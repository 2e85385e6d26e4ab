package multiindex

// rbSlot is one ordered index's per-node bookkeeping: tree links plus color.
type rbSlot struct {
	parent, left, right handle
	red                 bool
}

// OrderedIndex maintains a red-black tree over the container's elements,
// ordered by less(key(value)). It is both the algorithm and the public view:
// mutating methods delegate back to the owning Container so every other
// configured index participates in the same transaction.
type OrderedIndex[T any, K any] struct {
	c         *Container[T]
	indexTag  any
	key       func(*T) K
	less      func(a, b K) bool
	unique    bool
	slots     []rbSlot
	root      handle
	sizeCount int
}

type orderedInsertHint struct {
	parent       handle
	insertedLeft bool
}

// OrderedUnique configures a uniquely-keyed ordered (balanced tree) index.
// tag identifies the index for later lookup via Ordered[T, K](c, tag).
func OrderedUnique[T any, K any](tag any, keyFn func(*T) K, less func(a, b K) bool) indexBuilder[T] {
	return newOrderedBuilder(tag, keyFn, less, true)
}

// OrderedNonUnique configures a non-unique ordered (balanced tree) index:
// multiple elements may share an equivalent key.
func OrderedNonUnique[T any, K any](tag any, keyFn func(*T) K, less func(a, b K) bool) indexBuilder[T] {
	return newOrderedBuilder(tag, keyFn, less, false)
}

func newOrderedBuilder[T any, K any](tag any, keyFn func(*T) K, less func(a, b K) bool, unique bool) indexBuilder[T] {
	return func(c *Container[T]) index[T] {
		return &OrderedIndex[T, K]{
			c:        c,
			indexTag: tag,
			key:      keyFn,
			less:     less,
			unique:   unique,
			root:     noHandle,
		}
	}
}

func (o *OrderedIndex[T, K]) tag() any { return o.indexTag }

func (o *OrderedIndex[T, K]) ensure(h handle) {
	for handle(len(o.slots)) <= h {
		o.slots = append(o.slots, rbSlot{parent: noHandle, left: noHandle, right: noHandle})
	}
}

func (o *OrderedIndex[T, K]) valueOf(h handle) *T { return o.c.arena.value(h) }
func (o *OrderedIndex[T, K]) keyOf(h handle) K    { return o.key(o.valueOf(h)) }

// preInsert implements index[T].
func (o *OrderedIndex[T, K]) preInsert(h handle) (handle, any) {
	o.ensure(h)
	var parent handle = noHandle
	curr := o.root
	k := o.keyOf(h)
	insertedLeft := false
	for curr != noHandle {
		parent = curr
		ck := o.keyOf(curr)
		if o.unique {
			if o.less(k, ck) {
				curr = o.slots[curr].left
				insertedLeft = true
			} else if o.less(ck, k) {
				curr = o.slots[curr].right
				insertedLeft = false
			} else {
				return curr, nil
			}
		} else {
			if o.less(k, ck) {
				curr = o.slots[curr].left
				insertedLeft = true
			} else {
				curr = o.slots[curr].right
				insertedLeft = false
			}
		}
	}
	return noHandle, &orderedInsertHint{parent: parent, insertedLeft: insertedLeft}
}

// commitInsert implements index[T].
func (o *OrderedIndex[T, K]) commitInsert(h handle, hintAny any) {
	o.ensure(h)
	hint := hintAny.(*orderedInsertHint)
	o.slots[h] = rbSlot{parent: noHandle, left: noHandle, right: noHandle, red: true}
	parent := hint.parent
	if parent == noHandle {
		o.root = h
	} else if hint.insertedLeft {
		o.slots[parent].left = h
		o.slots[h].parent = parent
	} else {
		o.slots[parent].right = h
		o.slots[h].parent = parent
	}
	o.balanceAfterInsert(h)
	o.sizeCount++
}

func (o *OrderedIndex[T, K]) createCache(handle) any { return nil }

// eraseIfModified implements index[T] using the O(1) neighbor test: a node
// is still correctly placed iff it does not compare less than its in-order
// predecessor nor greater than its in-order successor. A unique index also
// treats a key equivalent to a neighbor's as misplaced, so the re-insert
// probe reports the collision.
func (o *OrderedIndex[T, K]) eraseIfModified(h handle, _ any) bool {
	k := o.keyOf(h)
	var prevKey, nextKey K
	hasPrev, hasNext := false, false
	if p := o.treePrev(h); p != noHandle {
		prevKey = o.keyOf(p)
		hasPrev = true
	}
	if n := o.treeNext(h); n != noHandle {
		nextKey = o.keyOf(n)
		hasNext = true
	}
	needsResort := (hasNext && o.less(nextKey, k)) || (hasPrev && o.less(k, prevKey))
	if o.unique {
		needsResort = (hasNext && !o.less(k, nextKey)) || (hasPrev && !o.less(prevKey, k))
	}
	if needsResort {
		o.treeRemove(h)
		o.slots[h] = rbSlot{parent: noHandle, left: noHandle, right: noHandle, red: true}
		o.sizeCount--
		return true
	}
	return false
}

// remove implements index[T].
func (o *OrderedIndex[T, K]) remove(h handle) {
	o.treeRemove(h)
	o.sizeCount--
}

func (o *OrderedIndex[T, K]) clear() {
	o.slots = nil
	o.root = noHandle
	o.sizeCount = 0
}

func (o *OrderedIndex[T, K]) count() int { return o.sizeCount }

// --- red-black tree mechanics -------------------------------------------

func (o *OrderedIndex[T, K]) isLeftChild(x handle) bool {
	p := o.slots[x].parent
	return o.slots[p].left == x
}

func (o *OrderedIndex[T, K]) treeMin(x handle) handle {
	for o.slots[x].left != noHandle {
		x = o.slots[x].left
	}
	return x
}

func (o *OrderedIndex[T, K]) treeMax(x handle) handle {
	for o.slots[x].right != noHandle {
		x = o.slots[x].right
	}
	return x
}

func (o *OrderedIndex[T, K]) treeNext(x handle) handle {
	if o.slots[x].right != noHandle {
		return o.treeMin(o.slots[x].right)
	}
	for x != o.root && !o.isLeftChild(x) {
		x = o.slots[x].parent
	}
	if x == o.root {
		return noHandle
	}
	return o.slots[x].parent
}

func (o *OrderedIndex[T, K]) treePrev(x handle) handle {
	if o.slots[x].left != noHandle {
		return o.treeMax(o.slots[x].left)
	}
	for x != o.root && o.isLeftChild(x) {
		x = o.slots[x].parent
	}
	if x == o.root {
		return noHandle
	}
	return o.slots[x].parent
}

func (o *OrderedIndex[T, K]) leftRotate(x handle) {
	y := o.slots[x].right
	o.slots[x].right = o.slots[y].left
	if o.slots[x].right != noHandle {
		o.slots[o.slots[x].right].parent = x
	}
	o.slots[y].parent = o.slots[x].parent
	if x == o.root {
		o.root = y
	} else if o.isLeftChild(x) {
		o.slots[o.slots[x].parent].left = y
	} else {
		o.slots[o.slots[x].parent].right = y
	}
	o.slots[y].left = x
	o.slots[x].parent = y
}

func (o *OrderedIndex[T, K]) rightRotate(x handle) {
	y := o.slots[x].left
	o.slots[x].left = o.slots[y].right
	if o.slots[x].left != noHandle {
		o.slots[o.slots[x].left].parent = x
	}
	o.slots[y].parent = o.slots[x].parent
	if x == o.root {
		o.root = y
	} else if o.isLeftChild(x) {
		o.slots[o.slots[x].parent].left = y
	} else {
		o.slots[o.slots[x].parent].right = y
	}
	o.slots[y].right = x
	o.slots[x].parent = y
}

func (o *OrderedIndex[T, K]) colorOf(x handle) bool {
	if x == noHandle {
		return false // nil nodes are black
	}
	return o.slots[x].red
}

func (o *OrderedIndex[T, K]) setColor(x handle, red bool) {
	if x != noHandle {
		o.slots[x].red = red
	}
}

func (o *OrderedIndex[T, K]) balanceAfterInsert(x handle) {
	o.setColor(x, x != o.root)
	for x != o.root && o.colorOf(o.slots[x].parent) {
		parent := o.slots[x].parent
		grandparent := o.slots[parent].parent
		if o.isLeftChild(parent) {
			y := o.slots[grandparent].right
			if o.colorOf(y) {
				o.setColor(parent, false)
				o.setColor(grandparent, grandparent != o.root)
				o.setColor(y, false)
				x = grandparent
			} else {
				if !o.isLeftChild(x) {
					x = parent
					o.leftRotate(x)
					parent = o.slots[x].parent
					grandparent = o.slots[parent].parent
				}
				o.setColor(parent, false)
				o.setColor(grandparent, true)
				o.rightRotate(grandparent)
				break
			}
		} else {
			y := o.slots[grandparent].left
			if o.colorOf(y) {
				o.setColor(parent, false)
				o.setColor(grandparent, grandparent != o.root)
				o.setColor(y, false)
				x = grandparent
			} else {
				if o.isLeftChild(x) {
					x = parent
					o.rightRotate(x)
					parent = o.slots[x].parent
					grandparent = o.slots[parent].parent
				}
				o.setColor(parent, false)
				o.setColor(grandparent, true)
				o.leftRotate(grandparent)
				break
			}
		}
	}
}

// treeRemove unlinks z, rebalancing as needed. Adapted directly from the
// libc++-derived algorithm in the original C++ implementation.
func (o *OrderedIndex[T, K]) treeRemove(z handle) {
	y := z
	if o.slots[z].left != noHandle && o.slots[z].right != noHandle {
		y = o.treeNext(z)
	}
	var x handle = noHandle
	if o.slots[y].left != noHandle {
		x = o.slots[y].left
	} else {
		x = o.slots[y].right
	}
	var w handle = noHandle

	if x != noHandle {
		o.slots[x].parent = o.slots[y].parent
	}
	if y == o.root {
		o.root = x
	} else if o.isLeftChild(y) {
		o.slots[o.slots[y].parent].left = x
		w = o.slots[o.slots[y].parent].right
	} else {
		o.slots[o.slots[y].parent].right = x
		w = o.slots[o.slots[y].parent].left
	}
	removedBlack := !o.colorOf(y)

	if y != z {
		o.slots[y].parent = o.slots[z].parent
		if z == o.root {
			o.root = y
		} else if o.isLeftChild(z) {
			o.slots[o.slots[z].parent].left = y
		} else {
			o.slots[o.slots[z].parent].right = y
		}
		o.slots[y].left = o.slots[z].left
		if o.slots[y].left != noHandle {
			o.slots[o.slots[y].left].parent = y
		}
		o.slots[y].right = o.slots[z].right
		if o.slots[y].right != noHandle {
			o.slots[o.slots[y].right].parent = y
		}
		o.slots[y].red = o.slots[z].red
	}

	if removedBlack && o.root != noHandle {
		if x != noHandle {
			o.setColor(x, false)
		} else {
			o.fixupAfterRemove(w)
		}
	}
}

func (o *OrderedIndex[T, K]) fixupAfterRemove(w handle) {
	var x handle = noHandle
	for {
		if !o.isLeftChild(w) {
			if o.colorOf(w) {
				o.setColor(w, false)
				o.setColor(o.slots[w].parent, true)
				o.leftRotate(o.slots[w].parent)
				w = o.slots[o.slots[w].parent].right
			}
			if !o.colorOf(o.slots[w].left) && !o.colorOf(o.slots[w].right) {
				o.setColor(w, true)
				x = o.slots[w].parent
				if x == o.root || o.colorOf(x) {
					o.setColor(x, false)
					break
				}
				if o.isLeftChild(x) {
					w = o.slots[o.slots[x].parent].right
				} else {
					w = o.slots[o.slots[x].parent].left
				}
			} else {
				if !o.colorOf(o.slots[w].right) {
					o.setColor(o.slots[w].left, false)
					o.setColor(w, true)
					o.rightRotate(w)
					w = o.slots[w].parent
				}
				o.setColor(w, o.colorOf(o.slots[w].parent))
				o.setColor(o.slots[w].parent, false)
				o.setColor(o.slots[w].right, false)
				o.leftRotate(o.slots[w].parent)
				break
			}
		} else {
			if o.colorOf(w) {
				o.setColor(w, false)
				o.setColor(o.slots[w].parent, true)
				o.rightRotate(o.slots[w].parent)
				w = o.slots[o.slots[w].parent].left
			}
			if !o.colorOf(o.slots[w].left) && !o.colorOf(o.slots[w].right) {
				o.setColor(w, true)
				x = o.slots[w].parent
				if x == o.root || o.colorOf(x) {
					o.setColor(x, false)
					break
				}
				if o.isLeftChild(x) {
					w = o.slots[o.slots[x].parent].right
				} else {
					w = o.slots[o.slots[x].parent].left
				}
			} else {
				if !o.colorOf(o.slots[w].left) {
					o.setColor(o.slots[w].right, false)
					o.setColor(w, true)
					o.leftRotate(w)
					w = o.slots[w].parent
				}
				o.setColor(w, o.colorOf(o.slots[w].parent))
				o.setColor(o.slots[w].parent, false)
				o.setColor(o.slots[w].left, false)
				o.rightRotate(o.slots[w].parent)
				break
			}
		}
	}
}

// --- public view surface --------------------------------------------------

// OrderedIterator walks one OrderedIndex in tree (key) order.
type OrderedIterator[T any, K any] struct {
	o *OrderedIndex[T, K]
	h handle
}

// Valid reports whether the iterator refers to an element (false for end()).
func (it OrderedIterator[T, K]) Valid() bool { return it.h != noHandle }

// Value returns a pointer to the referenced element. The pointer is stable
// across further container operations that don't erase this element, but
// callers that want index consistency maintained after mutation must go
// through OrderedIndex.Modify or HashedIndex.Modify rather than writing
// through this pointer.
func (it OrderedIterator[T, K]) Value() *T {
	if it.h == noHandle {
		return nil
	}
	return it.o.valueOf(it.h)
}

// Next advances to the in-order successor; returns the end iterator past
// the last element.
func (it OrderedIterator[T, K]) Next() OrderedIterator[T, K] {
	if it.h == noHandle {
		return it
	}
	return OrderedIterator[T, K]{o: it.o, h: it.o.treeNext(it.h)}
}

// Prev moves to the in-order predecessor. Calling Prev on the end iterator
// yields the last element, mirroring std::prev(end()).
func (it OrderedIterator[T, K]) Prev() OrderedIterator[T, K] {
	if it.h == noHandle {
		if it.o.root == noHandle {
			return it
		}
		return OrderedIterator[T, K]{o: it.o, h: it.o.treeMax(it.o.root)}
	}
	return OrderedIterator[T, K]{o: it.o, h: it.o.treePrev(it.h)}
}

// Equal reports whether two iterators refer to the same element.
func (it OrderedIterator[T, K]) Equal(other OrderedIterator[T, K]) bool { return it.h == other.h }

func (o *OrderedIndex[T, K]) iter(h handle) OrderedIterator[T, K] {
	return OrderedIterator[T, K]{o: o, h: h}
}

// Begin returns an iterator to the smallest-keyed element.
func (o *OrderedIndex[T, K]) Begin() OrderedIterator[T, K] {
	if o.root == noHandle {
		return o.End()
	}
	return o.iter(o.treeMin(o.root))
}

// End returns the past-the-end iterator.
func (o *OrderedIndex[T, K]) End() OrderedIterator[T, K] { return o.iter(noHandle) }

// Len reports the number of elements visible through this index (always
// equal to the container's overall size).
func (o *OrderedIndex[T, K]) Len() int { return o.sizeCount }

// Empty reports whether the index (equivalently, the container) is empty.
func (o *OrderedIndex[T, K]) Empty() bool { return o.sizeCount == 0 }

// Insert adds value, participating in every other configured index. It
// reports the existing conflicting element and false if a unique index
// (this one or another) rejects it.
func (o *OrderedIndex[T, K]) Insert(value T) (OrderedIterator[T, K], bool) {
	h, conflict, ok := o.c.doInsert(value)
	if !ok {
		return o.iter(conflict), false
	}
	return o.iter(h), true
}

// Find returns an iterator to an element whose key equals key under this
// index's own comparator.
func (o *OrderedIndex[T, K]) Find(key K) OrderedIterator[T, K] {
	curr := o.root
	for curr != noHandle {
		ck := o.keyOf(curr)
		if o.less(key, ck) {
			curr = o.slots[curr].left
		} else if o.less(ck, key) {
			curr = o.slots[curr].right
		} else {
			return o.iter(curr)
		}
	}
	return o.End()
}

// LowerBound returns an iterator to the first element whose key is not less
// than key.
func (o *OrderedIndex[T, K]) LowerBound(key K) OrderedIterator[T, K] {
	curr := o.root
	var ret handle = noHandle
	for curr != noHandle {
		ck := o.keyOf(curr)
		if !o.less(ck, key) {
			ret = curr
			curr = o.slots[curr].left
		} else {
			curr = o.slots[curr].right
		}
	}
	if ret == noHandle {
		return o.End()
	}
	return o.iter(ret)
}

// UpperBound returns an iterator to the first element whose key compares
// greater than key.
func (o *OrderedIndex[T, K]) UpperBound(key K) OrderedIterator[T, K] {
	curr := o.root
	var ret handle = noHandle
	for curr != noHandle {
		ck := o.keyOf(curr)
		if o.less(key, ck) {
			ret = curr
			curr = o.slots[curr].left
		} else {
			curr = o.slots[curr].right
		}
	}
	if ret == noHandle {
		return o.End()
	}
	return o.iter(ret)
}

// EqualRange returns [LowerBound(key), UpperBound(key)).
func (o *OrderedIndex[T, K]) EqualRange(key K) (OrderedIterator[T, K], OrderedIterator[T, K]) {
	return o.LowerBound(key), o.UpperBound(key)
}

// Count reports how many elements compare equivalent to key.
func (o *OrderedIndex[T, K]) Count(key K) int {
	n := 0
	it, end := o.EqualRange(key)
	for ; !it.Equal(end); it = it.Next() {
		n++
	}
	return n
}

// FindBy supports heterogeneous-key lookup: cmp(k) must return a value
// whose sign matches comparing the searched-for key to k (negative if the
// target key is less than k, zero if equivalent, positive if greater),
// consistently with this index's own less. Used when the caller has a key
// of a different but order-compatible type than K.
func (o *OrderedIndex[T, K]) FindBy(cmp func(K) int) OrderedIterator[T, K] {
	curr := o.root
	for curr != noHandle {
		switch c := cmp(o.keyOf(curr)); {
		case c < 0:
			curr = o.slots[curr].left
		case c > 0:
			curr = o.slots[curr].right
		default:
			return o.iter(curr)
		}
	}
	return o.End()
}

// LowerBoundBy is the heterogeneous-key analog of LowerBound: cmp follows
// the same convention as FindBy.
func (o *OrderedIndex[T, K]) LowerBoundBy(cmp func(K) int) OrderedIterator[T, K] {
	curr := o.root
	var ret handle = noHandle
	for curr != noHandle {
		if cmp(o.keyOf(curr)) <= 0 {
			ret = curr
			curr = o.slots[curr].left
		} else {
			curr = o.slots[curr].right
		}
	}
	if ret == noHandle {
		return o.End()
	}
	return o.iter(ret)
}

// UpperBoundBy is the heterogeneous-key analog of UpperBound.
func (o *OrderedIndex[T, K]) UpperBoundBy(cmp func(K) int) OrderedIterator[T, K] {
	curr := o.root
	var ret handle = noHandle
	for curr != noHandle {
		if cmp(o.keyOf(curr)) < 0 {
			ret = curr
			curr = o.slots[curr].left
		} else {
			curr = o.slots[curr].right
		}
	}
	if ret == noHandle {
		return o.End()
	}
	return o.iter(ret)
}

// CountBy is the heterogeneous-key analog of Count.
func (o *OrderedIndex[T, K]) CountBy(cmp func(K) int) int {
	n := 0
	it, end := o.LowerBoundBy(cmp), o.UpperBoundBy(cmp)
	for ; !it.Equal(end); it = it.Next() {
		n++
	}
	return n
}

// Modify runs mutator against the referenced element and re-places it in
// every index. It returns false if the mutation made the element
// inadmissible under some unique index, in which case the element has
// already been destroyed and it is invalidated.
func (o *OrderedIndex[T, K]) Modify(it OrderedIterator[T, K], mutator func(*T)) bool {
	if !it.Valid() {
		return false
	}
	return o.c.doModify(it.h, mutator)
}

// Erase removes the referenced element from every index and returns an
// iterator (in this index's order) to its successor.
func (o *OrderedIndex[T, K]) Erase(it OrderedIterator[T, K]) OrderedIterator[T, K] {
	if !it.Valid() {
		return o.End()
	}
	next := o.treeNext(it.h)
	o.c.doErase(it.h)
	return o.iter(next)
}

// EraseKey removes every element comparing equivalent to key and reports
// how many were removed.
func (o *OrderedIndex[T, K]) EraseKey(key K) int {
	it, end := o.EqualRange(key)
	n := 0
	for !it.Equal(end) {
		cur := it
		it = it.Next()
		o.c.doErase(cur.h)
		n++
	}
	return n
}

// Extract removes the referenced element from every index without
// destroying it, transferring ownership to the returned NodeHandle.
func (o *OrderedIndex[T, K]) Extract(it OrderedIterator[T, K]) *NodeHandle[T] {
	if !it.Valid() {
		return &NodeHandle[T]{}
	}
	return o.c.doExtract(it.h)
}

// InsertHandle consumes a detached NodeHandle, reinserting it into every
// index. On conflict the handle is left non-empty and an iterator to the
// conflicting element is returned alongside inserted=false.
func (o *OrderedIndex[T, K]) InsertHandle(nh *NodeHandle[T]) (OrderedIterator[T, K], bool) {
	h, conflict, ok := o.c.doInsertHandle(nh)
	if !ok {
		return o.iter(conflict), false
	}
	return o.iter(h), true
}

// InsertErr is Insert for callers that prefer an error to a bool: it
// returns ErrKeyConflict, naming this index's tag, when value collides
// under some unique index.
func (o *OrderedIndex[T, K]) InsertErr(value T) (OrderedIterator[T, K], error) {
	it, ok := o.Insert(value)
	if !ok {
		return it, translateError(&ErrKeyConflict{Tag: o.indexTag})
	}
	return it, nil
}

// InsertHandleErr is InsertHandle for callers that prefer an error to a
// bool: ErrEmptyHandle if nh was already consumed, ErrKeyConflict if
// reinsertion was rejected by a unique index (nh is left non-empty).
func (o *OrderedIndex[T, K]) InsertHandleErr(nh *NodeHandle[T]) (OrderedIterator[T, K], error) {
	if nh.Empty() {
		return o.End(), ErrEmptyHandle
	}
	it, ok := o.InsertHandle(nh)
	if !ok {
		return it, translateError(&ErrKeyConflict{Tag: o.indexTag})
	}
	return it, nil
}
