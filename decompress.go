package zipstream

import (
	"bufio"
	"compress/bzip2"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
)

// pipeline produces decompressed bytes for a single entry.
//
// The decoder side is self-terminating for every method except Stored: it
// consumes only the input bytes its own framing requires. The buffered
// source underneath it is not — it pre-fetches in fixed-size chunks, so
// when the decoder finishes, the bufio.Reader may hold raw bytes that
// belong to whatever follows the entry. takeBuffered reclaims them.
//
// Adding a compression method means adding one case to newPipeline;
// nothing downstream changes.
type pipeline struct {
	dec io.Reader
	br  *bufio.Reader
}

// newPipeline builds the decoding pipeline for method over src. size is
// the declared compressed byte count; it bounds Stored data (which has no
// framing of its own) and is ignored for self-terminating methods. A
// negative size with the Stored method yields ErrMissingSize.
func newPipeline(method Method, src io.Reader, size int64, cfg *config) (*pipeline, error) {
	br := bufio.NewReaderSize(src, cfg.bufferSize)
	p := &pipeline{br: br}

	switch method {
	case Stored:
		if size < 0 {
			return nil, ErrMissingSize
		}
		p.dec = io.LimitReader(br, size)
	case Deflate:
		// flate honors io.ByteReader, so it never pulls past its own
		// framing from br.
		p.dec = flate.NewReader(br)
	case BZip2:
		p.dec = bzip2.NewReader(br)
	case LZMA:
		lr, err := lzma.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("lzma reader: %w", err)
		}
		p.dec = lr
	case Zstd:
		opts := []zstd.DOption{zstd.WithDecoderConcurrency(1)}
		if cfg.maxDecoderMemory > 0 {
			opts = append(opts, zstd.WithDecoderMaxMemory(cfg.maxDecoderMemory))
		}
		zr, err := zstd.NewReader(br, opts...)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		p.dec = zr.IOReadCloser()
	case XZ:
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("xz reader: %w", err)
		}
		p.dec = xr
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}
	return p, nil
}

// Read produces decompressed bytes.
func (p *pipeline) Read(b []byte) (int, error) {
	return p.dec.Read(b)
}

// source returns the buffered reader feeding the decoder. Once the decoder
// has terminated, further reads from it bypass decompression entirely.
func (p *pipeline) source() *bufio.Reader {
	return p.br
}

// takeBuffered removes and returns the raw bytes the buffered source has
// pre-fetched but not handed to the decoder.
func (p *pipeline) takeBuffered() []byte {
	n := p.br.Buffered()
	if n == 0 {
		return nil
	}
	peeked, err := p.br.Peek(n)
	if err != nil {
		// Peek of Buffered() bytes cannot fail.
		return nil
	}
	out := make([]byte, n)
	copy(out, peeked)
	if _, err := p.br.Discard(n); err != nil {
		return out
	}
	return out
}
