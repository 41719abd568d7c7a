package bits

// This package implements a growing bitset keyed by small unsigned indexes.
//
// Use case:
// - One claim flag per queue position (rebate claimed, remaining-supply
//   claimed), packed 8 flags to a byte instead of a bool map.
// - The byte slice form serializes directly into ledger snapshots.

// Set is a bitset backed by a byte slice that grows on demand. The zero
// value is an empty set ready for use.
type Set struct {
	Bytes []byte
}

// Mark sets bit i, growing the underlying slice if needed. Marking an
// already-set bit is a no-op.
func (s *Set) Mark(i uint32) {
	byteIdx := int(i >> 3)
	for len(s.Bytes) <= byteIdx {
		s.Bytes = append(s.Bytes, 0)
	}
	s.Bytes[byteIdx] |= 1 << (i & 7)
}

// Has reports whether bit i is set. Indexes past the end of the slice are
// unset, not an error.
func (s *Set) Has(i uint32) bool {
	byteIdx := int(i >> 3)
	if byteIdx >= len(s.Bytes) {
		return false
	}
	return s.Bytes[byteIdx]&(1<<(i&7)) != 0
}

// Count returns the number of set bits.
func (s *Set) Count() int {
	n := 0
	for _, b := range s.Bytes {
		for b != 0 {
			n += int(b & 1)
			b >>= 1
		}
	}
	return n
}

// Copy returns an independent clone of the set.
func (s *Set) Copy() Set {
	cp := make([]byte, len(s.Bytes))
	copy(cp, s.Bytes)
	return Set{Bytes: cp}
}
