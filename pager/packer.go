package pager

import (
	"encoding/binary"
	"fmt"

	"github.com/tfsdev/tfs/cluster"
)

// PagePointer is an opaque handle to a page: the cluster it lives in, plus
// the byte offset and length of its slice within that cluster's decoded
// (decompressed) contents (spec.md §3 "page pointer", §4.4). Pages are
// fixed-size, so Length is always PageSize(sectorSize); it is carried on
// the pointer anyway so callers never need the sector size to slice a page
// out of a decoded cluster.
type PagePointer struct {
	Cluster cluster.Pointer
	Offset  int
	Length  int
}

const compressFlagBit = 0x1

// payloadLenField is a 2-byte field immediately following
// DataClusterHeader that records the exact length of the meaningful bytes
// that follow (the compressed stream, or the raw page). The checksum
// prefix described in spec.md §4.4 bounds a whole zero-padded sector, but
// a compressed stream's decoder needs its exact input length to avoid
// reading the zero padding as further (bogus) compressed tokens — the
// distilled spec is silent on this, so this field supplements it (see
// the design notes on the original source's queue_alloc return-value bug,
// spec.md §9, for the same category of necessary correction).
const payloadLenField = 2

// dataPayloadOff is where the real payload (compressed or raw) begins,
// past the compression-flag/checksum header and the length field.
const dataPayloadOff = DataClusterHeader + payloadLenField

// checksum15 truncates a 64-bit digest to its low 15 bits, per the
// documented narrowing for data-cluster checksums (spec.md §4.4, §9), and
// places them in bits 1..15 of the header word so bit 0 stays free for the
// compression flag.
func checksum15(digest uint64) uint16 {
	return uint16(digest&0x7FFF) << 1
}

func packHeader(digest uint64, compressed bool) uint16 {
	h := checksum15(digest)
	if compressed {
		h |= compressFlagBit
	}
	return h
}

// queueAlloc packs page_bytes into the current last cluster if it fits
// after compression, otherwise allocates a fresh cluster for it (spec.md
// §4.4). page_bytes must be exactly PageSize(sectorSize) long, matching
// the fixed-size page contract (spec.md Glossary: "Page — a logical
// PAGE_SIZE-byte unit").
func (m *Manager) queueAlloc(pageBytes []byte) (PagePointer, error) {
	if len(pageBytes) != PageSize(m.sectorSize) {
		return PagePointer{}, fmt.Errorf("pager: page must be exactly %d bytes, got %d", PageSize(m.sectorSize), len(pageBytes))
	}

	combined := make([]byte, 0, len(m.state.LastClusterData)+len(pageBytes))
	combined = append(combined, m.state.LastClusterData...)
	combined = append(combined, pageBytes...)

	compressed := m.compressAlgo.Compress(make([]byte, 0, len(combined)), combined)

	// A null last_cluster means there is nothing to pack into yet (a fresh
	// volume, or one just reopened — last_cluster does not survive a
	// restart, see firstFreeCluster's comment) — always take the fresh-
	// cluster path below.
	if !m.state.LastCluster.IsNull() && dataPayloadOff+len(compressed) <= m.sectorSize {
		buf := make([]byte, m.sectorSize)
		binary.LittleEndian.PutUint16(buf[DataClusterHeader:], uint16(len(compressed)))
		copy(buf[dataPayloadOff:], compressed)
		digest := m.checksumAlgo.Hash(buf[DataClusterHeader:])
		binary.LittleEndian.PutUint16(buf[0:2], packHeader(digest, true))

		last := m.state.LastCluster
		m.cache.Queue(last, buf)

		offset := len(m.state.LastClusterData)
		m.state.LastClusterData = combined

		return PagePointer{Cluster: last, Offset: offset, Length: len(pageBytes)}, nil
	}

	raw := make([]byte, m.sectorSize)
	binary.LittleEndian.PutUint16(raw[DataClusterHeader:], uint16(len(pageBytes)))
	copy(raw[dataPayloadOff:], pageBytes)
	digest := m.checksumAlgo.Hash(raw[DataClusterHeader:])
	binary.LittleEndian.PutUint16(raw[0:2], packHeader(digest, false))

	p, err := m.queueFreelistPop()
	if err != nil {
		return PagePointer{}, err
	}

	m.state.LastCluster = p
	m.state.LastClusterData = append([]byte(nil), pageBytes...)
	m.cache.Queue(p, raw)

	return PagePointer{Cluster: p, Offset: 0, Length: len(pageBytes)}, nil
}

// readCluster fetches cluster c through the cache, verifies its checksum,
// and decompresses it if the compression flag is set, returning the
// decoded page-bearing payload (spec.md §4.4, §4.5 "read").
func (m *Manager) readCluster(c cluster.Pointer) ([]byte, error) {
	sector, err := m.cache.Read(c)
	if err != nil {
		return nil, wrapDisk(err)
	}

	hdr := binary.LittleEndian.Uint16(sector[0:2])
	compressed := hdr&compressFlagBit != 0
	storedChecksum := hdr &^ compressFlagBit

	checksummed := sector[DataClusterHeader:]
	found := checksum15(m.checksumAlgo.Hash(checksummed))
	if found != storedChecksum {
		return nil, &ChecksumMismatchError{Cluster: c, Expected: uint64(storedChecksum), Found: uint64(found)}
	}

	payloadLen := binary.LittleEndian.Uint16(sector[DataClusterHeader:])
	payload := sector[dataPayloadOff : dataPayloadOff+int(payloadLen)]

	if !compressed {
		return payload, nil
	}

	decoded, err := m.compressAlgo.Decompress(nil, payload)
	if err != nil {
		return nil, &InvalidCompressionError{Cluster: c, Err: err}
	}
	return decoded, nil
}
