package zipstream

import (
	"fmt"
	"io"

	"github.com/meigma/zipstream/internal/format"
)

// StreamReader reads entries from a forward-only source in wire order.
//
// Entries must be processed strictly in sequence: each entry's reader has
// to be drained (read to end of data, trailing record resolved) before
// NextEntry can position the next one correctly. The shared source wears a
// give-back wrapper so bytes an entry's input buffering pre-fetched past
// its true end are returned before the next entry starts.
//
// Give-back precision is exact for Stored, Deflate, and BZip2 entries,
// whose decoders never pull past their own framing from the buffered
// source. Zstd, XZ, and LZMA decoders buffer input internally, so entries
// using them should be read from seekable sources when byte-exact
// sequential positioning matters.
type StreamReader struct {
	src  *prependReader
	cfg  config
	cur  *EntryReader
	done bool
}

// NewStreamReader returns a StreamReader over r.
func NewStreamReader(r io.Reader, opts ...Option) *StreamReader {
	return &StreamReader{
		src: newPrependReader(r),
		cfg: newConfig(opts),
	}
}

// NextEntry parses the next local file header and returns an EntryReader
// for its data. It returns io.EOF once the central directory is reached,
// and ErrUnfinishedEntry if the previous entry was not read to end of
// data.
//
// Entries carrying the data-descriptor flag declare placeholder sizes in
// their local header; their authoritative sizes and CRC-32 come from the
// trailing record the EntryReader resolves at end of data.
func (s *StreamReader) NextEntry() (*EntryReader, error) {
	if s.done {
		return nil, io.EOF
	}
	if s.cur != nil && !s.cur.Consumed() {
		return nil, ErrUnfinishedEntry
	}
	s.cur = nil

	sig, err := format.ReadSignature(s.src)
	if err != nil {
		if err == io.EOF {
			s.done = true
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read record signature: %w", err)
	}

	switch sig {
	case format.SigLocalHeader:
		// Entry follows.
	case format.SigCentralHeader, format.SigEndCentralDir:
		// Entry data is over; the rest of the stream is directory
		// metadata.
		s.done = true
		return nil, io.EOF
	default:
		return nil, fmt.Errorf("%w: unexpected record signature %#08x", ErrFormat, sig)
	}

	h, err := format.ReadLocalHeader(s.src)
	if err != nil {
		return nil, err
	}
	entry := entryFromLocal(h)
	if entry.flags.Encrypted {
		return nil, fmt.Errorf("%w: %s", ErrEncrypted, entry.name)
	}

	pipe, err := newPipeline(entry.method, s.src, int64(entry.compressedSize), &s.cfg)
	if err != nil {
		return nil, err
	}

	s.cur = newEntryReader(entry, pipe, s.src)
	return s.cur, nil
}
