package multiindex

import "hash/fnv"

// FNV1a64 hashes a string for use as a HashedUnique/HashedNonUnique hashFn.
// It's provided as a ready-made default; any func(K) uint64 consistent with
// the index's equality function works equally well.
func FNV1a64(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// Int64Hash is an identity-derived hash for signed integer keys, suitable
// whenever the key space doesn't need cryptographic or adversarial-input
// resistance (it's a multi-index container, not a map exposed to untrusted
// input).
func Int64Hash(n int64) uint64 { return uint64(n) }

// Uint64Hash is the identity hash for unsigned integer keys.
func Uint64Hash(n uint64) uint64 { return n }
