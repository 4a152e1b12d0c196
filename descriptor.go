package zipstream

import (
	"encoding/binary"

	"github.com/meigma/zipstream/internal/format"
)

// descriptorLen is the size of a signed data descriptor record: a 4-byte
// signature followed by three little-endian uint32 fields.
const descriptorLen = 16

// DataDescriptor holds the CRC-32 and sizes appended after an entry's
// compressed data when they were unknown at write time.
type DataDescriptor struct {
	CRC32            uint32
	CompressedSize   uint32
	UncompressedSize uint32
}

// parseDescriptor interprets a full 16-byte capture as a signed data
// descriptor. It reports false when the signature does not match.
//
// Known limitation: the ZIP specification also permits a 12-byte
// descriptor without the leading signature. That form is not detected —
// the capture is treated as ordinary trailing data and given back to the
// source untouched.
func parseDescriptor(b *[descriptorLen]byte) (DataDescriptor, bool) {
	if binary.LittleEndian.Uint32(b[0:4]) != format.SigDataDescriptor {
		return DataDescriptor{}, false
	}
	return DataDescriptor{
		CRC32:            binary.LittleEndian.Uint32(b[4:8]),
		CompressedSize:   binary.LittleEndian.Uint32(b[8:12]),
		UncompressedSize: binary.LittleEndian.Uint32(b[12:16]),
	}, true
}
