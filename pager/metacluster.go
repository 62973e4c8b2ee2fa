package pager

import (
	"encoding/binary"

	"github.com/tfsdev/tfs/cluster"
	"github.com/tfsdev/tfs/codec/checksum"
)

// decodeMetacluster reads a sector-sized buffer into an ordered slice of
// cluster pointers (spec.md §3, §4.3). self identifies the cluster the
// buffer was read from, for error reporting. Trailing zero slots are not
// included in the result. In a head reached by a push-overflow rotation
// the chain link is the first returned pointer (the bottom of the stack,
// popped last).
func decodeMetacluster(buf []byte, algo checksum.Algorithm, self cluster.Pointer) ([]cluster.Pointer, error) {
	found := algo.Hash(buf[MetaclusterHeader:])
	expected := binary.LittleEndian.Uint64(buf[0:8])
	if found != expected {
		return nil, &ChecksumMismatchError{Cluster: self, Expected: expected, Found: found}
	}

	capacity := MetaclusterCapacity(len(buf))
	ptrs := make([]cluster.Pointer, 0, capacity)
	for i := 0; i < capacity; i++ {
		off := MetaclusterHeader + i*PointerSize
		raw := binary.LittleEndian.Uint64(buf[off : off+PointerSize])
		if raw == 0 {
			break
		}
		ptrs = append(ptrs, cluster.FromRaw(raw))
	}
	return ptrs, nil
}

// encodeMetacluster writes ptrs (top = end, matching the in-memory freelist
// convention) into a zero-initialised sector-sized buffer with a fresh
// checksum prefix.
func encodeMetacluster(ptrs []cluster.Pointer, sectorSize int, algo checksum.Algorithm) []byte {
	buf := make([]byte, sectorSize)
	for i, p := range ptrs {
		off := MetaclusterHeader + i*PointerSize
		binary.LittleEndian.PutUint64(buf[off:off+PointerSize], p.Uint64())
	}
	digest := algo.Hash(buf[MetaclusterHeader:])
	binary.LittleEndian.PutUint64(buf[0:8], digest)
	return buf
}
