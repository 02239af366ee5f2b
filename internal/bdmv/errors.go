package bdmv

import (
	"errors"
	"fmt"
)

var (
	// ErrBadMagic reports a buffer that does not start with the expected magic.
	ErrBadMagic = errors.New("bad magic")
	// ErrUnsupportedVersion reports a known magic with an unknown version string.
	ErrUnsupportedVersion = errors.New("unsupported version")
	// ErrTruncated reports a record that claims to extend past its buffer.
	ErrTruncated = errors.New("truncated record")
	// ErrMalformed reports a record whose fields contradict each other.
	ErrMalformed = errors.New("malformed record")
	// ErrNotFound reports an unknown title index, playlist or clip id.
	ErrNotFound = errors.New("not found")
)

// ParseError locates a decode failure. Unwrap yields one of the sentinel
// errors above.
type ParseError struct {
	Record string
	Offset int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Record == "" {
		return fmt.Sprintf("parse at offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("parse %s at offset %d: %v", e.Record, e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
