package zipstream

import "bytes"

// NewBytesReader returns a Reader over an archive held in memory.
func NewBytesReader(data []byte, opts ...Option) (*Reader, error) {
	return NewReader(bytes.NewReader(data), opts...)
}
