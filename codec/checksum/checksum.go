// Package checksum is the checksum-algorithm catalogue consumed by the page
// manager's state-block codec, freelist, and cluster packer. The algorithm
// in force for a given volume is selected once, by an outer header, and
// threaded down to every component that needs to hash a sector (spec.md
// §3, §4.2, §4.4).
package checksum

import "github.com/cespare/xxhash/v2"

// Algorithm produces a 64-bit digest over a buffer. State blocks and
// metaclusters store the full 64 bits; data clusters truncate to the low 15
// bits (see checksum15 in pager/packer.go).
type Algorithm interface {
	Hash(buf []byte) uint64
	Tag() Tag
}

// Tag is the on-disk selector for a checksum algorithm, stored in the outer
// header (header.Driver), not in the state block itself — the state block
// cannot name its own checksum algorithm without creating a chicken-and-egg
// problem at decode time.
type Tag uint16

const (
	// TagXXHash64 selects XXHash64, the default algorithm. It stands in
	// for the seahash algorithm
	// named in the original source; no Go seahash implementation is
	// available, xxhash64 is the nearest grounded 64-bit non-cryptographic
	// hash.
	TagXXHash64 Tag = 0
	// TagCRC64ISO reserves a second slot in the catalogue so that it stays
	// genuinely pluggable, using the stdlib CRC64 (ISO polynomial).
	TagCRC64ISO Tag = 1
)

// XXHash64 is the default checksum algorithm.
type XXHash64 struct{}

func (XXHash64) Hash(buf []byte) uint64 { return xxhash.Sum64(buf) }
func (XXHash64) Tag() Tag               { return TagXXHash64 }

// ByTag resolves a Tag to its Algorithm, or reports false for an unknown tag.
func ByTag(t Tag) (Algorithm, bool) {
	switch t {
	case TagXXHash64:
		return XXHash64{}, true
	case TagCRC64ISO:
		return CRC64ISO{}, true
	default:
		return nil, false
	}
}
