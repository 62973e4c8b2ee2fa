// Package cluster defines the addressing primitive shared by every layer of
// the page manager: a pointer to a single disk cluster.
package cluster

import "fmt"

// Pointer addresses one cluster (one sector) on the underlying device. The
// zero value is never a valid Pointer — it is reserved to mean "null" — so
// the type's only constructor rejects it, making an illegal null pointer
// unrepresentable once constructed.
type Pointer struct {
	n uint64
}

// New constructs a Pointer to the n'th cluster. It reports false if n is
// zero, since zero is reserved as the null cluster.
func New(n uint64) (Pointer, bool) {
	if n == 0 {
		return Pointer{}, false
	}
	return Pointer{n: n}, true
}

// MustNew is like New but panics on a zero index. Intended for constants and
// tests where the value is known non-zero at compile time.
func MustNew(n uint64) Pointer {
	p, ok := New(n)
	if !ok {
		panic("cluster: null pointer")
	}
	return p
}

// Uint64 returns the underlying cluster index.
func (p Pointer) Uint64() uint64 { return p.n }

// IsNull reports whether p is the zero Pointer (never true for a Pointer
// obtained from New, but useful for optional fields decoded off disk).
func (p Pointer) IsNull() bool { return p.n == 0 }

// Less orders pointers by index, giving Pointer a total order.
func (p Pointer) Less(other Pointer) bool { return p.n < other.n }

func (p Pointer) String() string {
	if p.n == 0 {
		return "<null>"
	}
	return fmt.Sprintf("cluster#%d", p.n)
}

// FromRaw wraps a raw on-disk uint64 that may legitimately be zero (meaning
// "no pointer stored here"). It returns the null Pointer in that case rather
// than failing, since decoding fixed-width disk fields must accept zero.
func FromRaw(n uint64) Pointer { return Pointer{n: n} }

// Size is the on-disk width, in bytes, of an encoded Pointer.
const Size = 8
