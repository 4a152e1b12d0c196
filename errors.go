package zipstream

import "errors"

// Sentinel errors returned by readers in this package.
var (
	// ErrChecksumMismatch is returned when an entry's decompressed content
	// does not match its expected CRC-32 value.
	ErrChecksumMismatch = errors.New("zipstream: checksum mismatch")

	// ErrMissingSize is returned when a Stored (uncompressed) entry is opened
	// without a declared compressed size. Stored data is not self-terminating,
	// so an explicit byte count is mandatory.
	ErrMissingSize = errors.New("zipstream: stored entry requires a declared size")

	// ErrUnsupportedMethod is returned when an entry uses a compression
	// method this package cannot decode.
	ErrUnsupportedMethod = errors.New("zipstream: unsupported compression method")

	// ErrEncrypted is returned when opening an encrypted entry. Decryption
	// is not supported.
	ErrEncrypted = errors.New("zipstream: entry is encrypted")

	// ErrFormat is returned when the archive's wire structure is invalid.
	ErrFormat = errors.New("zipstream: not a valid zip archive")

	// ErrInvalidUTF8 is returned by ReadAllString when an entry's content is
	// not valid UTF-8. It is reported before any checksum verification so
	// callers can distinguish "not text" from "corrupted text".
	ErrInvalidUTF8 = errors.New("zipstream: entry content is not valid UTF-8")

	// ErrEntryNotFound is returned when no entry matches the requested name.
	ErrEntryNotFound = errors.New("zipstream: entry not found")

	// ErrUnfinishedEntry is returned by StreamReader.NextEntry when the
	// previous entry has not been read to end of data. Sequential offsets
	// are only correct once the prior entry's trailing bytes are resolved.
	ErrUnfinishedEntry = errors.New("zipstream: previous entry not fully read")
)
