// Package format implements the ZIP wire format: record signatures, header
// layouts, the end-of-central-directory scan, and the text and timestamp
// encodings headers use. All multi-byte integers are little-endian.
package format

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/text/encoding/charmap"
)

// Record signatures.
const (
	SigLocalHeader    uint32 = 0x04034b50
	SigCentralHeader  uint32 = 0x02014b50
	SigEndCentralDir  uint32 = 0x06054b50
	SigDataDescriptor uint32 = 0x08074b50
)

// General-purpose flag bits.
const (
	FlagEncrypted      uint16 = 0x0001
	FlagDataDescriptor uint16 = 0x0008
	FlagUTF8           uint16 = 0x0800
)

// Fixed record lengths, excluding the 4-byte signature.
const (
	localHeaderLen   = 26
	centralHeaderLen = 42
	endCentralLen    = 18

	maxCommentLen = 0xffff
)

// ErrBadRecord indicates a structurally invalid record. Callers wrap it
// into their own format error.
var ErrBadRecord = errors.New("format: invalid record")

// LocalHeader is a parsed local file header.
type LocalHeader struct {
	Version          uint16
	Flags            uint16
	Method           uint16
	ModifiedTime     uint16
	ModifiedDate     uint16
	CRC32            uint32
	CompressedSize   uint32
	UncompressedSize uint32
	Name             string
	Extra            []byte
}

// CentralHeader is a parsed central directory file header.
type CentralHeader struct {
	VersionMadeBy    uint16
	VersionNeeded    uint16
	Flags            uint16
	Method           uint16
	ModifiedTime     uint16
	ModifiedDate     uint16
	CRC32            uint32
	CompressedSize   uint32
	UncompressedSize uint32
	DiskNumber       uint16
	InternalAttrs    uint16
	ExternalAttrs    uint32
	HeaderOffset     uint32
	Name             string
	Extra            []byte
	Comment          string
}

// EndCentralDir is a parsed end-of-central-directory record.
type EndCentralDir struct {
	EntryCount      uint16
	DirectorySize   uint32
	DirectoryOffset uint32
	Comment         string
}

// ReadSignature reads the next 4-byte record signature from r.
func ReadSignature(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// ReadLocalHeader parses a local file header from r. The 4-byte signature
// must already have been consumed.
func ReadLocalHeader(r io.Reader) (*LocalHeader, error) {
	var b [localHeaderLen]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return nil, fmt.Errorf("read local header: %w", err)
	}

	h := &LocalHeader{
		Version:          binary.LittleEndian.Uint16(b[0:2]),
		Flags:            binary.LittleEndian.Uint16(b[2:4]),
		Method:           binary.LittleEndian.Uint16(b[4:6]),
		ModifiedTime:     binary.LittleEndian.Uint16(b[6:8]),
		ModifiedDate:     binary.LittleEndian.Uint16(b[8:10]),
		CRC32:            binary.LittleEndian.Uint32(b[10:14]),
		CompressedSize:   binary.LittleEndian.Uint32(b[14:18]),
		UncompressedSize: binary.LittleEndian.Uint32(b[18:22]),
	}
	nameLen := binary.LittleEndian.Uint16(b[22:24])
	extraLen := binary.LittleEndian.Uint16(b[24:26])

	name := make([]byte, nameLen)
	if _, err := io.ReadFull(r, name); err != nil {
		return nil, fmt.Errorf("read local header name: %w", err)
	}
	h.Name = DecodeText(name, h.Flags&FlagUTF8 != 0)

	if extraLen > 0 {
		h.Extra = make([]byte, extraLen)
		if _, err := io.ReadFull(r, h.Extra); err != nil {
			return nil, fmt.Errorf("read local header extra: %w", err)
		}
	}
	return h, nil
}

// ReadCentralHeader parses one central directory file header from r,
// including its signature.
func ReadCentralHeader(r io.Reader) (*CentralHeader, error) {
	sig, err := ReadSignature(r)
	if err != nil {
		return nil, fmt.Errorf("read central header: %w", err)
	}
	if sig != SigCentralHeader {
		return nil, fmt.Errorf("central header signature %#08x: %w", sig, ErrBadRecord)
	}

	var b [centralHeaderLen]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return nil, fmt.Errorf("read central header: %w", err)
	}

	h := &CentralHeader{
		VersionMadeBy:    binary.LittleEndian.Uint16(b[0:2]),
		VersionNeeded:    binary.LittleEndian.Uint16(b[2:4]),
		Flags:            binary.LittleEndian.Uint16(b[4:6]),
		Method:           binary.LittleEndian.Uint16(b[6:8]),
		ModifiedTime:     binary.LittleEndian.Uint16(b[8:10]),
		ModifiedDate:     binary.LittleEndian.Uint16(b[10:12]),
		CRC32:            binary.LittleEndian.Uint32(b[12:16]),
		CompressedSize:   binary.LittleEndian.Uint32(b[16:20]),
		UncompressedSize: binary.LittleEndian.Uint32(b[20:24]),
		DiskNumber:       binary.LittleEndian.Uint16(b[30:32]),
		InternalAttrs:    binary.LittleEndian.Uint16(b[32:34]),
		ExternalAttrs:    binary.LittleEndian.Uint32(b[34:38]),
		HeaderOffset:     binary.LittleEndian.Uint32(b[38:42]),
	}
	nameLen := binary.LittleEndian.Uint16(b[24:26])
	extraLen := binary.LittleEndian.Uint16(b[26:28])
	commentLen := binary.LittleEndian.Uint16(b[28:30])

	utf8Flag := h.Flags&FlagUTF8 != 0

	name := make([]byte, nameLen)
	if _, err := io.ReadFull(r, name); err != nil {
		return nil, fmt.Errorf("read central header name: %w", err)
	}
	h.Name = DecodeText(name, utf8Flag)

	if extraLen > 0 {
		h.Extra = make([]byte, extraLen)
		if _, err := io.ReadFull(r, h.Extra); err != nil {
			return nil, fmt.Errorf("read central header extra: %w", err)
		}
	}

	if commentLen > 0 {
		comment := make([]byte, commentLen)
		if _, err := io.ReadFull(r, comment); err != nil {
			return nil, fmt.Errorf("read central header comment: %w", err)
		}
		h.Comment = DecodeText(comment, utf8Flag)
	}
	return h, nil
}

// FindEndCentralDir locates and parses the end-of-central-directory record
// by scanning backward through the last 64 KiB + 22 bytes of r. It leaves
// r's position unspecified.
func FindEndCentralDir(r io.ReadSeeker) (*EndCentralDir, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("seek archive end: %w", err)
	}

	scan := int64(endCentralLen + 4 + maxCommentLen)
	if scan > size {
		scan = size
	}
	if scan < endCentralLen+4 {
		return nil, ErrBadRecord
	}

	if _, err := r.Seek(size-scan, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek directory scan window: %w", err)
	}
	tail := make([]byte, scan)
	if _, err := io.ReadFull(r, tail); err != nil {
		return nil, fmt.Errorf("read directory scan window: %w", err)
	}

	for i := len(tail) - endCentralLen - 4; i >= 0; i-- {
		if binary.LittleEndian.Uint32(tail[i:i+4]) != SigEndCentralDir {
			continue
		}
		b := tail[i+4:]
		commentLen := int(binary.LittleEndian.Uint16(b[16:18]))
		if endCentralLen+commentLen > len(b) {
			// Signature bytes occurring inside the comment of the real
			// record; keep scanning.
			continue
		}
		end := &EndCentralDir{
			EntryCount:      binary.LittleEndian.Uint16(b[6:8]),
			DirectorySize:   binary.LittleEndian.Uint32(b[8:12]),
			DirectoryOffset: binary.LittleEndian.Uint32(b[12:16]),
		}
		if commentLen > 0 {
			end.Comment = DecodeText(b[endCentralLen:endCentralLen+commentLen], false)
		}
		return end, nil
	}
	return nil, ErrBadRecord
}

// DecodeText decodes a filename or comment field. ZIP predates Unicode:
// unless the writer set the UTF-8 flag, text fields are CP437.
func DecodeText(b []byte, utf8Flag bool) string {
	if utf8Flag {
		return string(b)
	}
	decoded, err := charmap.CodePage437.NewDecoder().Bytes(b)
	if err != nil {
		// CP437 maps every byte; decoding cannot fail in practice.
		return string(b)
	}
	return string(decoded)
}

// DOSTime converts MS-DOS date and time fields to a time.Time in local
// time. MS-DOS timestamps have two-second resolution and no zone.
func DOSTime(date, tm uint16) time.Time {
	return time.Date(
		int(date>>9)+1980,
		time.Month(date>>5&0xf),
		int(date&0x1f),
		int(tm>>11),
		int(tm>>5&0x3f),
		int(tm&0x1f)*2,
		0,
		time.Local,
	)
}
