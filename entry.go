package zipstream

import (
	"strings"
	"time"

	"github.com/meigma/zipstream/internal/format"
)

// Flags holds the general-purpose flag bits of an entry that matter for
// reading.
type Flags struct {
	// Encrypted reports whether the entry's data is encrypted.
	Encrypted bool

	// DataDescriptor reports whether the entry's CRC-32 and sizes were
	// unknown when writing began and a trailing data descriptor follows
	// the compressed data instead.
	DataDescriptor bool

	// UTF8 reports whether the filename and comment are encoded as UTF-8
	// rather than CP437.
	UTF8 bool
}

// Entry describes one file or stream stored in the archive.
//
// An Entry is immutable once parsed; readers only ever borrow it. For
// entries written with a data descriptor, CRC32, CompressedSize, and
// UncompressedSize hold the header placeholders (usually zero) — the
// authoritative values live in the trailing record resolved by the
// EntryReader.
type Entry struct {
	name             string
	comment          string
	method           Method
	flags            Flags
	crc32            uint32
	compressedSize   uint32
	uncompressedSize uint32
	modified         time.Time
	extra            []byte
	headerOffset     int64 // -1 when unknown (forward-only streams)
}

// Name returns the entry's filename, decoded per the UTF-8 flag.
func (e *Entry) Name() string { return e.name }

// Comment returns the entry's comment, if any. Comments are only present
// in the central directory, so entries from forward-only streams have none.
func (e *Entry) Comment() string { return e.comment }

// Method returns the declared compression method.
func (e *Entry) Method() Method { return e.method }

// Flags returns the general-purpose flag bits relevant to reading.
func (e *Entry) Flags() Flags { return e.flags }

// CRC32 returns the declared CRC-32 of the uncompressed content.
func (e *Entry) CRC32() uint32 { return e.crc32 }

// CompressedSize returns the declared size of the compressed data.
func (e *Entry) CompressedSize() uint32 { return e.compressedSize }

// UncompressedSize returns the declared size of the uncompressed content.
func (e *Entry) UncompressedSize() uint32 { return e.uncompressedSize }

// Modified returns the entry's modification time in local time, decoded
// from the MS-DOS timestamp fields.
func (e *Entry) Modified() time.Time { return e.modified }

// Extra returns the entry's raw extra field, or nil. The bytes alias the
// parsed header and must be treated as immutable.
func (e *Entry) Extra() []byte { return e.extra }

// IsDir reports whether the entry denotes a directory.
func (e *Entry) IsDir() bool { return strings.HasSuffix(e.name, "/") }

func flagsFromBits(bits uint16) Flags {
	return Flags{
		Encrypted:      bits&format.FlagEncrypted != 0,
		DataDescriptor: bits&format.FlagDataDescriptor != 0,
		UTF8:           bits&format.FlagUTF8 != 0,
	}
}

func entryFromLocal(h *format.LocalHeader) *Entry {
	return &Entry{
		name:             h.Name,
		method:           Method(h.Method),
		flags:            flagsFromBits(h.Flags),
		crc32:            h.CRC32,
		compressedSize:   h.CompressedSize,
		uncompressedSize: h.UncompressedSize,
		modified:         format.DOSTime(h.ModifiedDate, h.ModifiedTime),
		extra:            h.Extra,
		headerOffset:     -1,
	}
}

func entryFromCentral(h *format.CentralHeader) *Entry {
	return &Entry{
		name:             h.Name,
		comment:          h.Comment,
		method:           Method(h.Method),
		flags:            flagsFromBits(h.Flags),
		crc32:            h.CRC32,
		compressedSize:   h.CompressedSize,
		uncompressedSize: h.UncompressedSize,
		modified:         format.DOSTime(h.ModifiedDate, h.ModifiedTime),
		extra:            h.Extra,
		headerOffset:     int64(h.HeaderOffset),
	}
}
