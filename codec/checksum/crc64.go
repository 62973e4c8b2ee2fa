package checksum

import "hash/crc64"

var crc64Table = crc64.MakeTable(crc64.ISO)

// CRC64ISO is an alternate checksum algorithm, built entirely on the
// standard library. It exists so the catalogue has more than one member and
// so a volume can be formatted with a checksum other than xxhash64.
type CRC64ISO struct{}

func (CRC64ISO) Hash(buf []byte) uint64 { return crc64.Checksum(buf, crc64Table) }
func (CRC64ISO) Tag() Tag               { return TagCRC64ISO }
