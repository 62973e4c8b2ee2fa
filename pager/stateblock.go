package pager

import (
	"encoding/binary"

	"github.com/tfsdev/tfs/cluster"
	"github.com/tfsdev/tfs/codec/checksum"
	"github.com/tfsdev/tfs/codec/compress"
)

// StateBlock is the decoded contents of the volume's single configuration
// sector (spec.md §3, §4.2).
type StateBlock struct {
	Compression  compress.Tag
	FreelistHead cluster.Pointer
	Superpage    cluster.Pointer
}

// DecodeStateBlock reads a sector-sized buffer into a StateBlock, verifying
// its checksum prefix and compression tag (spec.md §4.2).
func DecodeStateBlock(buf []byte, algo checksum.Algorithm) (StateBlock, error) {
	found := algo.Hash(buf[stateBlockChecksumLen:])
	expected := binary.LittleEndian.Uint64(buf[stateBlockChecksumOff:])
	if found != expected {
		return StateBlock{}, &ChecksumMismatchError{Expected: expected, Found: found}
	}

	tagRaw := binary.LittleEndian.Uint16(buf[stateBlockCompressOff:])
	if _, err := compress.ByTag(compress.Tag(tagRaw)); err != nil {
		if err == compress.ErrUnknownAlgorithm {
			return StateBlock{}, &UnknownCompressionAlgorithmError{Tag: tagRaw}
		}
		return StateBlock{}, &InvalidCompressionAlgorithmError{Tag: tagRaw}
	}

	freelistHead := cluster.FromRaw(binary.LittleEndian.Uint64(buf[stateBlockFreelistOff:]))
	superpage := cluster.FromRaw(binary.LittleEndian.Uint64(buf[stateBlockSuperpgOff:]))

	return StateBlock{
		Compression:  compress.Tag(tagRaw),
		FreelistHead: freelistHead,
		Superpage:    superpage,
	}, nil
}

// Encode serialises s into a zero-initialised sector-sized buffer with a
// fresh checksum prefix, such that DecodeStateBlock(Encode(s)) == s for any
// well-formed s (spec.md §4.2, property P1).
func (s StateBlock) Encode(sectorSize int, algo checksum.Algorithm) []byte {
	buf := make([]byte, sectorSize)
	binary.LittleEndian.PutUint16(buf[stateBlockCompressOff:], uint16(s.Compression))
	binary.LittleEndian.PutUint64(buf[stateBlockFreelistOff:], s.FreelistHead.Uint64())
	binary.LittleEndian.PutUint64(buf[stateBlockSuperpgOff:], s.Superpage.Uint64())
	digest := algo.Hash(buf[stateBlockChecksumLen:])
	binary.LittleEndian.PutUint64(buf[stateBlockChecksumOff:], digest)
	return buf
}
