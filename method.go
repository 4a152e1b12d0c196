package zipstream

import "fmt"

// Method identifies the compression method used for an entry, using the
// numeric values assigned by the ZIP specification.
type Method uint16

const (
	Stored  Method = 0
	Deflate Method = 8
	BZip2   Method = 12
	LZMA    Method = 14
	Zstd    Method = 93
	XZ      Method = 95
)

func (m Method) String() string {
	switch m {
	case Stored:
		return "stored"
	case Deflate:
		return "deflate"
	case BZip2:
		return "bzip2"
	case LZMA:
		return "lzma"
	case Zstd:
		return "zstd"
	case XZ:
		return "xz"
	default:
		return fmt.Sprintf("method(%d)", uint16(m))
	}
}
