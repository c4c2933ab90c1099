package sorting

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint returns an order-independent hash of the multiset of values in
// xs. A sort that only permutes its input leaves the fingerprint unchanged.
func Fingerprint(xs []int) uint64 {
	var buf [8]byte
	var sum uint64
	for _, v := range xs {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		sum += xxhash.Sum64(buf[:])
	}
	return sum
}

// Verify reports whether sorted is a non-decreasing permutation of an input
// with the given length and fingerprint.
func Verify(sorted []int, n int, fingerprint uint64) bool {
	return len(sorted) == n && IsSorted(sorted) && Fingerprint(sorted) == fingerprint
}
