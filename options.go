package zipstream

import "github.com/spf13/afero"

// defaultBufferSize is the pipeline's buffered-source size. It bounds how
// far input buffering can pre-fetch past an entry's true end; everything
// over-read is reclaimed and given back when the entry finishes.
const defaultBufferSize = 4096

type config struct {
	fs               afero.Fs
	bufferSize       int
	maxDecoderMemory uint64
}

func defaultConfig() config {
	return config{
		fs:         afero.NewOsFs(),
		bufferSize: defaultBufferSize,
	}
}

// Option configures a reader.
type Option func(*config)

// WithFS configures OpenFile to resolve paths against the given
// filesystem instead of the OS filesystem.
func WithFS(fsys afero.Fs) Option {
	return func(c *config) {
		if fsys != nil {
			c.fs = fsys
		}
	}
}

// WithBufferSize sets the size of the buffered source feeding each
// entry's decoder. Values <= 0 keep the default.
func WithBufferSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.bufferSize = n
		}
	}
}

// WithMaxDecoderMemory caps the memory a zstd decoder may allocate while
// decoding an entry. Zero means no limit.
func WithMaxDecoderMemory(n uint64) Option {
	return func(c *config) {
		c.maxDecoderMemory = n
	}
}

func newConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}
