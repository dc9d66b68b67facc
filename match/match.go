// Package match provides identity predicates for exception dispatch: ways
// of deciding whether a thrown identifier is accepted by a catch clause.
// Install one on a runtime with SetMatcher or the WithMatcher option.
package match

// Exact reports whether the thrown identifier equals the candidate. It is
// the default predicate.
func Exact(thrown, candidate int) bool {
	return thrown == candidate
}

// Any accepts every thrown identifier.
func Any(thrown, candidate int) bool {
	return true
}

// Mask builds a predicate for identifiers that encode a family and a
// member, with the member held in the bits of mask. A candidate with zero
// member bits catches its whole family; a candidate with member bits set
// catches exactly that member.
//
// With Mask(0x00FF), a clause declared 0x0100 accepts 0x0101, 0x0102 and
// every other 0x01NN, while a clause declared 0x0101 accepts only 0x0101.
func Mask(mask int) func(thrown, candidate int) bool {
	return func(thrown, candidate int) bool {
		if candidate&mask == 0 {
			thrown &^= mask
		}
		return thrown == candidate
	}
}
