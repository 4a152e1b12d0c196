package zipstream

import (
	"bytes"
	"hash"
	"hash/crc32"
	"io"
	"unicode/utf8"
)

// defaultCopyBufferSize is used by CopyTo when no explicit size is given.
// 64 KiB keeps read-call overhead low on modern systems.
const defaultCopyBufferSize = 64 << 10

type phase uint8

const (
	phaseData       phase = iota // normal decompression in progress
	phaseDescriptor              // mid-read of the trailing record
	phasePrepare                 // record captured, reconciling over-read bytes
)

// readerState is the suspend/resume state of an EntryReader.
//
// The state advances phaseData → phaseDescriptor → phasePrepare →
// phaseData at most once per reader. It is carried by value: finish
// operates on a copy, so any descriptor-read progress must be written back
// into the reader before reporting suspension, or a resumed call would
// silently restart the record from byte zero.
type readerState struct {
	phase  phase
	buf    [descriptorLen]byte
	filled int
}

// EntryReader streams the decompressed content of a single entry.
//
// Reads are pull-based and strictly sequential; an EntryReader must not be
// shared between goroutines. The underlying source may deliver data in
// arbitrary-sized chunks and may signal "no progress yet" by returning
// (0, nil) — EntryReader propagates that result and resumes exactly where
// it left off on the next call, including in the middle of trailing-record
// handling.
//
// Abandoning an EntryReader mid-stream is always safe, but leaves a shared
// forward-only source at an unspecified offset; do not read further
// entries from that source afterwards.
type EntryReader struct {
	entry    *Entry
	pipe     *pipeline
	src      giveBacker // nil when the source cannot take bytes back
	crc      hash.Hash32
	consumed bool
	state    readerState
	desc     *DataDescriptor
}

func newEntryReader(entry *Entry, pipe *pipeline, src giveBacker) *EntryReader {
	return &EntryReader{
		entry: entry,
		pipe:  pipe,
		src:   src,
		crc:   crc32.NewIEEE(),
	}
}

// Entry returns the metadata of the entry being read.
func (r *EntryReader) Entry() *Entry { return r.entry }

// Consumed reports whether end of data has been reached at least once.
func (r *EntryReader) Consumed() bool { return r.consumed }

// Descriptor returns the trailing data descriptor resolved for this entry,
// or nil if none was present (or none has been read yet).
func (r *EntryReader) Descriptor() *DataDescriptor { return r.desc }

// Read produces the next decompressed bytes of the entry.
//
// At end of data, Read resolves the trailing data descriptor when the
// entry was written with one, reclaims any bytes the input buffering
// pre-fetched past the entry's true end, and only then returns io.EOF.
// A (0, nil) return means the underlying source could make no progress;
// call Read again to resume.
func (r *EntryReader) Read(p []byte) (int, error) {
	if r.state.phase != phaseData {
		// A previous call suspended mid-record; resume without touching
		// the decompression pipeline.
		return r.finishRead()
	}

	n, err := r.pipe.Read(p)
	if n > 0 {
		r.crc.Write(p[:n])
		if err == io.EOF {
			// Hold the EOF back; end-of-data work runs on the next call.
			err = nil
		}
		return n, err
	}
	if err == nil {
		// Source made no progress this call.
		return 0, nil
	}
	if err != io.EOF {
		return 0, err
	}

	if r.consumed {
		// End of data observed before; nothing left to do.
		return 0, io.EOF
	}
	r.consumed = true

	if r.desc == nil && r.entry.flags.DataDescriptor {
		r.state = readerState{phase: phaseDescriptor}
	} else {
		// No record to parse, but over-read bytes still need reconciling.
		r.state = readerState{phase: phasePrepare}
	}
	return r.finishRead()
}

func (r *EntryReader) finishRead() (int, error) {
	done, err := r.finish()
	if err != nil {
		return 0, err
	}
	if !done {
		return 0, nil
	}
	return 0, io.EOF
}

// finish advances the end-of-data state machine. It returns done=false
// when the underlying source suspended; the persisted state lets a later
// call resume mid-record.
func (r *EntryReader) finish() (done bool, err error) {
	st := r.state
	if st.phase == phaseData {
		return true, nil
	}

	if st.phase == phaseDescriptor {
		// Read the candidate record from the pipeline's buffered source
		// directly: the decoder's own framing has already terminated.
		src := r.pipe.source()
		for st.filled < descriptorLen {
			n, rerr := src.Read(st.buf[st.filled:])
			st.filled += n
			if rerr == io.EOF {
				// Source exhausted; the capture is final as-is.
				break
			}
			if rerr != nil {
				r.state = st
				return false, rerr
			}
			if n == 0 {
				// Suspended. st is a copy; write progress back or the
				// resumed call restarts the record from byte zero.
				r.state = st
				return false, nil
			}
		}
		st.phase = phasePrepare
	}

	// phasePrepare: decide record validity, then hand every unconsumed
	// byte back so the next consumer of the source starts at the right
	// offset.
	if st.filled == descriptorLen {
		if d, ok := parseDescriptor(&st.buf); ok {
			r.desc = &d
		}
	}

	var giveBack []byte
	if r.desc == nil {
		// No record resolved: the captured bytes belong to whatever
		// follows the entry.
		giveBack = append(giveBack, st.buf[:st.filled]...)
	}
	giveBack = append(giveBack, r.pipe.takeBuffered()...)
	if r.src != nil && len(giveBack) > 0 {
		r.src.Prepend(giveBack)
	}

	r.state = readerState{phase: phaseData}
	return true, nil
}

// CompareCRC32 finalizes the running checksum and compares it against the
// authoritative value: the resolved data descriptor's CRC-32 for entries
// flagged as descriptor-written, the header's declared CRC-32 otherwise.
//
// The finalize is destructive — the accumulator is reset, so the check can
// be performed only once. Calling CompareCRC32 on a descriptor-flagged
// entry before the descriptor has been resolved (i.e. before the entry was
// read to end of data) is a programming error and panics.
func (r *EntryReader) CompareCRC32() bool {
	sum := r.crc.Sum32()
	r.crc.Reset()

	if r.entry.flags.DataDescriptor {
		if r.desc == nil {
			panic("zipstream: CompareCRC32 called before the data descriptor was read")
		}
		return r.desc.CRC32 == sum
	}
	return r.entry.crc32 == sum
}

// ReadAll reads every remaining byte of the entry and verifies the
// checksum. On mismatch it returns ErrChecksumMismatch and no data.
func (r *EntryReader) ReadAll() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, int(r.entry.uncompressedSize)))
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	if !r.CompareCRC32() {
		return nil, ErrChecksumMismatch
	}
	return buf.Bytes(), nil
}

// ReadAllString reads every remaining byte of the entry as UTF-8 text and
// verifies the checksum. Invalid UTF-8 is reported before the checksum is
// considered, so callers can distinguish "not text" from "corrupted text".
func (r *EntryReader) ReadAllString() (string, error) {
	buf := bytes.NewBuffer(make([]byte, 0, int(r.entry.uncompressedSize)))
	if _, err := buf.ReadFrom(r); err != nil {
		return "", err
	}
	if !utf8.Valid(buf.Bytes()) {
		return "", ErrInvalidUTF8
	}
	if !r.CompareCRC32() {
		return "", ErrChecksumMismatch
	}
	return buf.String(), nil
}

// CopyTo streams every remaining byte of the entry to w through an
// intermediate buffer of bufferSize bytes (64 KiB when <= 0), then
// verifies the checksum.
//
// Bytes already written to w are not retracted on checksum failure; the
// caller must handle that side effect, e.g. by deleting a partially
// written output file.
func (r *EntryReader) CopyTo(w io.Writer, bufferSize int) (int64, error) {
	if bufferSize <= 0 {
		bufferSize = defaultCopyBufferSize
	}
	n, err := io.CopyBuffer(w, r, make([]byte, bufferSize))
	if err != nil {
		return n, err
	}
	if !r.CompareCRC32() {
		return n, ErrChecksumMismatch
	}
	return n, nil
}

// Interface compliance.
var _ io.Reader = (*EntryReader)(nil)
