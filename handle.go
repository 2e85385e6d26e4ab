package multiindex

// handle identifies a node within a container's arena. It is stable for the
// lifetime of the node: it never changes value across rehash, rebalance, or
// arena growth, and is only reused after the node it named has been freed.
type handle int32

// noHandle is the "no node" value, used as a null pointer would be in an
// intrusive pointer-based implementation: tree children/parent, bucket
// chain links, and the insertion-order list all use it as their terminator.
const noHandle handle = -1
