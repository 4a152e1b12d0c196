package zipstream

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/klauspost/compress/flate"

	"github.com/meigma/zipstream/internal/format"
)

// Fixed MS-DOS timestamp used by built archives: 2024-03-15 10:30:20.
const (
	testDOSDate = uint16(44<<9 | 3<<5 | 15)
	testDOSTime = uint16(10<<11 | 30<<5 | 10)
)

// testFile describes one entry for buildZip.
type testFile struct {
	name       string
	content    []byte
	method     Method
	descriptor bool // write placeholder sizes and a trailing data descriptor
	encrypted  bool // set the encryption flag bit (no actual encryption)
	badCRC     bool // corrupt the declared CRC-32
	comment    string
}

func deflateBytes(tb testing.TB, data []byte) []byte {
	tb.Helper()
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		tb.Fatalf("flate writer: %v", err)
	}
	if _, err := w.Write(data); err != nil {
		tb.Fatalf("flate write: %v", err)
	}
	if err := w.Close(); err != nil {
		tb.Fatalf("flate close: %v", err)
	}
	return buf.Bytes()
}

func (f *testFile) compressed(tb testing.TB) []byte {
	tb.Helper()
	switch f.method {
	case Stored:
		return f.content
	case Deflate:
		return deflateBytes(tb, f.content)
	default:
		tb.Fatalf("buildZip: no encoder for method %s", f.method)
		return nil
	}
}

func (f *testFile) flagBits() uint16 {
	var bits uint16
	if f.descriptor {
		bits |= format.FlagDataDescriptor
	}
	if f.encrypted {
		bits |= format.FlagEncrypted
	}
	return bits
}

func (f *testFile) checksum() uint32 {
	sum := crc32.ChecksumIEEE(f.content)
	if f.badCRC {
		sum++
	}
	return sum
}

func putU16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func putU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

// buildZip assembles a complete archive: local records (with optional data
// descriptors), the central directory, and the end record with comment.
func buildZip(tb testing.TB, files []testFile, comment string) []byte {
	tb.Helper()

	var buf bytes.Buffer
	offsets := make([]uint32, len(files))

	for i := range files {
		f := &files[i]
		offsets[i] = uint32(buf.Len())
		data := f.compressed(tb)

		putU32(&buf, format.SigLocalHeader)
		putU16(&buf, 20) // version needed
		putU16(&buf, f.flagBits())
		putU16(&buf, uint16(f.method))
		putU16(&buf, testDOSTime)
		putU16(&buf, testDOSDate)
		if f.descriptor {
			putU32(&buf, 0) // crc placeholder
			putU32(&buf, 0) // compressed size placeholder
			putU32(&buf, 0) // uncompressed size placeholder
		} else {
			putU32(&buf, f.checksum())
			putU32(&buf, uint32(len(data)))
			putU32(&buf, uint32(len(f.content)))
		}
		putU16(&buf, uint16(len(f.name)))
		putU16(&buf, 0) // extra length
		buf.WriteString(f.name)
		buf.Write(data)

		if f.descriptor {
			putU32(&buf, format.SigDataDescriptor)
			putU32(&buf, f.checksum())
			putU32(&buf, uint32(len(data)))
			putU32(&buf, uint32(len(f.content)))
		}
	}

	dirOffset := uint32(buf.Len())
	for i := range files {
		f := &files[i]
		data := f.compressed(tb)

		putU32(&buf, format.SigCentralHeader)
		putU16(&buf, 20) // version made by
		putU16(&buf, 20) // version needed
		putU16(&buf, f.flagBits())
		putU16(&buf, uint16(f.method))
		putU16(&buf, testDOSTime)
		putU16(&buf, testDOSDate)
		putU32(&buf, f.checksum())
		putU32(&buf, uint32(len(data)))
		putU32(&buf, uint32(len(f.content)))
		putU16(&buf, uint16(len(f.name)))
		putU16(&buf, 0) // extra length
		putU16(&buf, uint16(len(f.comment)))
		putU16(&buf, 0) // disk number
		putU16(&buf, 0) // internal attrs
		putU32(&buf, 0) // external attrs
		putU32(&buf, offsets[i])
		buf.WriteString(f.name)
		buf.WriteString(f.comment)
	}
	dirSize := uint32(buf.Len()) - dirOffset

	putU32(&buf, format.SigEndCentralDir)
	putU16(&buf, 0) // disk number
	putU16(&buf, 0) // directory disk
	putU16(&buf, uint16(len(files)))
	putU16(&buf, uint16(len(files)))
	putU32(&buf, dirSize)
	putU32(&buf, dirOffset)
	putU16(&buf, uint16(len(comment)))
	buf.WriteString(comment)

	return buf.Bytes()
}
