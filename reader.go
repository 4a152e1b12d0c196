package zipstream

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/meigma/zipstream/internal/format"
)

// Reader reads an archive through a seekable source. The central directory
// is parsed once at construction; entries can then be listed, looked up by
// name, and opened for reading in any order.
type Reader struct {
	archive
	r   io.ReadSeeker
	cfg config
}

// NewReader parses the central directory of the archive in r and returns a
// Reader over it. The source must remain valid for the Reader's lifetime.
func NewReader(r io.ReadSeeker, opts ...Option) (*Reader, error) {
	cfg := newConfig(opts)

	end, err := format.FindEndCentralDir(r)
	if err != nil {
		if errors.Is(err, format.ErrBadRecord) {
			return nil, ErrFormat
		}
		return nil, fmt.Errorf("locate central directory: %w", err)
	}

	if _, err := r.Seek(int64(end.DirectoryOffset), io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek central directory: %w", err)
	}

	br := bufio.NewReader(r)
	entries := make([]*Entry, 0, end.EntryCount)
	for i := 0; i < int(end.EntryCount); i++ {
		h, err := format.ReadCentralHeader(br)
		if err != nil {
			if errors.Is(err, format.ErrBadRecord) {
				return nil, ErrFormat
			}
			return nil, fmt.Errorf("central directory entry %d: %w", i, err)
		}
		entries = append(entries, entryFromCentral(h))
	}

	return &Reader{
		archive: archive{entries: entries, comment: end.Comment},
		r:       r,
		cfg:     cfg,
	}, nil
}

// OpenEntry positions the source at the start of entry i's compressed data
// and returns an EntryReader over it.
//
// The returned EntryReader borrows the Reader's source: it is valid only
// until the next OpenEntry or OpenEntryName call, and reads against it
// must not be interleaved with other use of the source.
func (rd *Reader) OpenEntry(i int) (*EntryReader, error) {
	if i < 0 || i >= len(rd.entries) {
		return nil, fmt.Errorf("%w: index %d", ErrEntryNotFound, i)
	}
	e := rd.entries[i]
	if e.flags.Encrypted {
		return nil, fmt.Errorf("%w: %s", ErrEncrypted, e.name)
	}

	if _, err := rd.r.Seek(e.headerOffset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek local header: %w", err)
	}

	// The central directory's name/extra lengths may differ from the local
	// header's, so the local header must be parsed to find the data start.
	// Reads here are exact-length; the source is not over-read.
	sig, err := format.ReadSignature(rd.r)
	if err != nil {
		return nil, fmt.Errorf("read local header: %w", err)
	}
	if sig != format.SigLocalHeader {
		return nil, ErrFormat
	}
	if _, err := format.ReadLocalHeader(rd.r); err != nil {
		return nil, err
	}

	// Bound the entry's raw bytes by the central directory's declared
	// compressed size, plus room for the trailing record when one was
	// written. The seekable flavor never gives bytes back: the next
	// OpenEntry repositions by offset, so nothing consumes them.
	limit := int64(e.compressedSize)
	if e.flags.DataDescriptor {
		limit += descriptorLen
	}
	pipe, err := newPipeline(e.method, io.LimitReader(rd.r, limit), int64(e.compressedSize), &rd.cfg)
	if err != nil {
		return nil, err
	}
	return newEntryReader(e, pipe, nil), nil
}

// OpenEntryName opens the first entry whose name matches exactly. It
// returns ErrEntryNotFound if there is none.
func (rd *Reader) OpenEntryName(name string) (*EntryReader, error) {
	i := rd.EntryIndex(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrEntryNotFound, name)
	}
	return rd.OpenEntry(i)
}
