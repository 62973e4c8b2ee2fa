// Package header implements the outer header that wraps a raw block device
// (spec.md §6: "The device is wrapped by a header.Driver that strips/adds
// the outer header"). The header occupies sector 0 of the physical device
// and exists to answer one question that the state block itself cannot
// answer about itself: which checksum algorithm is in force for this
// volume. Every cluster.Pointer addresses a *logical* sector one past the
// header, so pointer value 1 maps to physical sector 1 — the header's
// sector 0 is simply never reachable through a cluster.Pointer.
package header

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/tfsdev/tfs/cluster"
	"github.com/tfsdev/tfs/codec/checksum"
	"github.com/tfsdev/tfs/diskio"
)

const (
	// Magic identifies a formatted volume.
	Magic = "TFSHDR\x00\x00"

	magicOff     = 0
	magicLen     = 8
	checksumOff  = magicLen       // 8
	headerCRCOff = checksumOff + 2 // 10, CRC32-C of bytes [0:10)
	headerCRCLen = 4
)

// crcTable is the CRC32 (Castagnoli) table used for the header self-check.
var crcTable = crc32.MakeTable(crc32.Castagnoli)

// Driver wraps a raw diskio.Disk, translating cluster pointers to physical
// sectors and exposing the volume's configured checksum algorithm.
type Driver struct {
	raw      diskio.Disk
	algo     checksum.Algorithm
	sectSize int
}

// Format writes a fresh header to sector 0 of raw, selecting algo as the
// volume's checksum algorithm, and returns a Driver ready to use.
func Format(raw diskio.Disk, algo checksum.Algorithm) (*Driver, error) {
	buf := make([]byte, raw.SectorSize())
	copy(buf[magicOff:], Magic)
	binary.LittleEndian.PutUint16(buf[checksumOff:], uint16(algo.Tag()))
	binary.LittleEndian.PutUint32(buf[headerCRCOff:], crc(buf[:headerCRCOff]))
	if err := raw.WriteSector(0, buf); err != nil {
		return nil, fmt.Errorf("header: write sector 0: %w", err)
	}
	return &Driver{raw: raw, algo: algo, sectSize: raw.SectorSize()}, nil
}

// Open reads and validates the header at sector 0 of raw, resolving the
// configured checksum algorithm.
func Open(raw diskio.Disk) (*Driver, error) {
	buf, err := raw.ReadSector(0)
	if err != nil {
		return nil, fmt.Errorf("header: read sector 0: %w", err)
	}
	if string(buf[magicOff:magicOff+magicLen]) != Magic {
		return nil, fmt.Errorf("header: bad magic, volume is not a formatted tfs image")
	}
	if binary.LittleEndian.Uint32(buf[headerCRCOff:]) != crc(buf[:headerCRCOff]) {
		return nil, fmt.Errorf("header: corrupt outer header (CRC mismatch)")
	}
	tag := checksum.Tag(binary.LittleEndian.Uint16(buf[checksumOff:]))
	algo, ok := checksum.ByTag(tag)
	if !ok {
		return nil, fmt.Errorf("header: unknown checksum algorithm tag %d", tag)
	}
	return &Driver{raw: raw, algo: algo, sectSize: raw.SectorSize()}, nil
}

// ChecksumAlgorithm returns the algorithm selected for this volume.
func (d *Driver) ChecksumAlgorithm() checksum.Algorithm { return d.algo }

// SectorSize returns the device's sector size.
func (d *Driver) SectorSize() int { return d.sectSize }

// Read fetches the sector addressed by ptr.
func (d *Driver) Read(ptr cluster.Pointer) ([]byte, error) {
	return d.raw.ReadSector(ptr.Uint64())
}

// Write stores data at the sector addressed by ptr.
func (d *Driver) Write(ptr cluster.Pointer, data []byte) error {
	return d.raw.WriteSector(ptr.Uint64(), data)
}

// crc is a self-check over the header's own fixed fields — distinct from
// the volume's configured checksum.Algorithm, since at the point this
// header is read, that algorithm is not yet known.
func crc(buf []byte) uint32 {
	return crc32.Checksum(buf, crcTable)
}
