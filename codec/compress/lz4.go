package compress

import "github.com/pierrec/lz4/v4"

// LZ4 wraps the LZ4 block format (no frame header, no checksum of its own —
// the packer already checksums the whole cluster) via pierrec/lz4/v4.
type LZ4 struct{}

func (LZ4) Tag() Tag { return TagLZ4 }

func (LZ4) Compress(dst, src []byte) []byte {
	buf := make([]byte, lz4.CompressBlockBound(len(src)))
	var c lz4.Compressor
	n, err := c.CompressBlock(src, buf)
	if err != nil || n == 0 {
		// pierrec returns n == 0 for incompressible input. Rather than
		// falling back to a literal copy (which Decompress could never tell
		// apart from real LZ4 output), return a buffer padded far past any
		// realistic sector size: every "does this fit in one sector" check
		// downstream reliably treats it as "does not fit", and the packer
		// falls back to its own uncompressed cluster format instead. A
		// one-byte margin is not enough — a caller configured with a large
		// sector could be fooled into treating this sentinel as valid,
		// undecodable LZ4 output.
		return append(dst, make([]byte, len(src)+1<<20)...)
	}
	return append(dst, buf[:n]...)
}

func (LZ4) Decompress(dst, src []byte) ([]byte, error) {
	// LZ4 block format carries no header recording the original length, so
	// the destination size is discovered by retrying with a larger buffer
	// on lz4.ErrInvalidSourceShortBuffer.
	size := len(src) * 4
	if size < 256 {
		size = 256
	}
	const ceiling = 1 << 20
	for {
		buf := make([]byte, size)
		n, err := lz4.UncompressBlock(src, buf)
		if err == nil {
			return append(dst, buf[:n]...), nil
		}
		if err != lz4.ErrInvalidSourceShortBuffer || size >= ceiling {
			return nil, err
		}
		size *= 2
	}
}
