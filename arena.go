package multiindex

// nodeSlot is the single allocation backing one live (or detached-but-alive)
// element. Its address never changes for as long as the node is alive: the
// arena only ever grows or shrinks the slice of *pointers* to nodeSlots, so
// handing out *T into a nodeSlot's value is safe across arena growth,
// rehashes, and rebalances.
type nodeSlot[T any] struct {
	value T
	prev  handle // insertion-order list
	next  handle
	alive bool
}

// nodeArena owns every node's storage plus the global insertion-order list.
// Only the container is permitted to allocate, free, or relink nodes here;
// indices address nodes exclusively by handle.
type nodeArena[T any] struct {
	nodes []*nodeSlot[T]
	free  []handle
	head  handle
	tail  handle
	size  int
}

func newNodeArena[T any]() nodeArena[T] {
	return nodeArena[T]{head: noHandle, tail: noHandle}
}

// alloc reserves a node slot (reusing a freed handle when possible) and
// stores value in it, without linking it into the insertion-order list or
// any index. The node is "alive" but has no index membership yet.
func (a *nodeArena[T]) alloc(value T) handle {
	if n := len(a.free); n > 0 {
		h := a.free[n-1]
		a.free = a.free[:n-1]
		slot := a.nodes[h]
		slot.value = value
		slot.prev = noHandle
		slot.next = noHandle
		slot.alive = true
		return h
	}
	h := handle(len(a.nodes))
	a.nodes = append(a.nodes, &nodeSlot[T]{value: value, prev: noHandle, next: noHandle, alive: true})
	return h
}

// linkEnd appends an already-allocated node to the tail of the
// insertion-order list and bumps the live size.
func (a *nodeArena[T]) linkEnd(h handle) {
	slot := a.nodes[h]
	slot.prev = a.tail
	slot.next = noHandle
	if a.tail == noHandle {
		a.head = h
	} else {
		a.nodes[a.tail].next = h
	}
	a.tail = h
	a.size++
}

// unlink removes h from the insertion-order list without freeing its slot.
// Used by both erase (immediately followed by free) and extract (the slot
// stays alive, owned by a NodeHandle, until reinserted or discarded).
func (a *nodeArena[T]) unlink(h handle) {
	slot := a.nodes[h]
	if slot.prev != noHandle {
		a.nodes[slot.prev].next = slot.next
	} else {
		a.head = slot.next
	}
	if slot.next != noHandle {
		a.nodes[slot.next].prev = slot.prev
	} else {
		a.tail = slot.prev
	}
	slot.prev = noHandle
	slot.next = noHandle
	a.size--
}

// freeNode returns a detached node's slot to the freelist for reuse. The node
// must already be unlinked from the insertion-order list and every index.
func (a *nodeArena[T]) freeNode(h handle) {
	a.nodes[h].alive = false
	var zero T
	a.nodes[h].value = zero
	a.free = append(a.free, h)
}

func (a *nodeArena[T]) value(h handle) *T {
	return &a.nodes[h].value
}

// clearLive frees every node still linked into the insertion-order list,
// returning their slots to the freelist, and resets the list to empty.
// Unlike replacing the arena outright, this leaves a.nodes untouched:
// a node already unlinked by extract (and so absent from the head/tail
// chain) keeps its slot and its handle stays valid, so a NodeHandle
// extracted before a Clear is unaffected by it.
func (a *nodeArena[T]) clearLive() {
	cur := a.head
	for cur != noHandle {
		next := a.nodes[cur].next
		a.nodes[cur].alive = false
		var zero T
		a.nodes[cur].value = zero
		a.free = append(a.free, cur)
		cur = next
	}
	a.head = noHandle
	a.tail = noHandle
	a.size = 0
}

func (a *nodeArena[T]) len() int {
	return a.size
}
