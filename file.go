package zipstream

import (
	"fmt"

	"github.com/spf13/afero"
)

// FileReader wraps a Reader with its underlying file handle. Close must be
// called to release the file.
type FileReader struct {
	*Reader
	file afero.File
}

// OpenFile opens the archive at path and parses its central directory.
//
// Paths resolve against the OS filesystem unless WithFS overrides it. The
// returned FileReader must be closed to release the file handle.
func OpenFile(path string, opts ...Option) (*FileReader, error) {
	cfg := newConfig(opts)

	f, err := cfg.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	r, err := NewReader(f, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &FileReader{Reader: r, file: f}, nil
}

// Close closes the underlying archive file.
func (fr *FileReader) Close() error {
	if fr.file == nil {
		return nil
	}
	err := fr.file.Close()
	fr.file = nil
	return err
}
