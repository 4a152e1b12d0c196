package zipstream

import "io"

// giveBacker is implemented by byte sources that can take back bytes which
// were pulled but not consumed, so the next read observes them again.
//
// Entry readers come in two source flavors: the give-back flavor (a
// *prependReader shared across sequential entries) and a plain flavor with
// no give-back, used by seekable readers — those reposition by offset for
// every entry, so reclaimed bytes would have no consumer.
type giveBacker interface {
	Prepend(p []byte)
}

// prependReader wraps a forward-only source and allows bytes to be pushed
// back in front of it. Pending bytes are always returned before any new
// bytes from the underlying source.
type prependReader struct {
	r       io.Reader
	pending []byte
}

func newPrependReader(r io.Reader) *prependReader {
	return &prependReader{r: r}
}

func (p *prependReader) Read(b []byte) (int, error) {
	if len(p.pending) > 0 {
		n := copy(b, p.pending)
		p.pending = p.pending[n:]
		if len(p.pending) == 0 {
			p.pending = nil
		}
		return n, nil
	}
	return p.r.Read(b)
}

// Prepend queues b to be read before anything else, in the given order.
// The slice is copied; the caller may reuse it.
func (p *prependReader) Prepend(b []byte) {
	if len(b) == 0 {
		return
	}
	merged := make([]byte, 0, len(b)+len(p.pending))
	merged = append(merged, b...)
	merged = append(merged, p.pending...)
	p.pending = merged
}

// Interface compliance.
var (
	_ io.Reader  = (*prependReader)(nil)
	_ giveBacker = (*prependReader)(nil)
)
