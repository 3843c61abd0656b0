package wikiredirect

import "errors"

var (
	// ErrMissingInput is returned when a file to load does not exist
	// or is a directory.
	ErrMissingInput = errors.New("input file not found")

	// ErrMalformedRecord is returned for a title or text line that
	// cannot be turned into a redirect pair.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrBadSnapshot is returned when a snapshot has the wrong magic,
	// an unknown version or a bad checksum.
	ErrBadSnapshot = errors.New("bad snapshot")
)
