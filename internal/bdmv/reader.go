package bdmv

import (
	"bytes"
	"encoding/binary"
)

// reader walks a big-endian buffer. Offsets reported in errors are absolute
// positions in the top-level buffer.
type reader struct {
	buf    []byte
	off    int
	base   int
	record string
}

func newReader(buf []byte, record string) *reader {
	return &reader{buf: buf, record: record}
}

func (r *reader) fail(err error) error {
	return &ParseError{Record: r.record, Offset: r.base + r.off, Err: err}
}

func (r *reader) need(n int) error {
	if n < 0 || n > len(r.buf)-r.off {
		return r.fail(ErrTruncated)
	}
	return nil
}

func (r *reader) remaining() int { return len(r.buf) - r.off }

func (r *reader) u8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.buf[r.off]
	r.off++
	return v, nil
}

func (r *reader) u16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v, nil
}

func (r *reader) u32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v, nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.buf[r.off:r.off+n])
	r.off += n
	return out, nil
}

// str8 reads a string prefixed by a one-byte length.
func (r *reader) str8() (string, error) {
	n, err := r.u8()
	if err != nil {
		return "", err
	}
	raw, err := r.bytes(int(n))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// fixedID reads an n-byte NUL padded ASCII identifier.
func (r *reader) fixedID(n int) (string, error) {
	raw, err := r.bytes(n)
	if err != nil {
		return "", err
	}
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return string(raw), nil
}

// sub carves the next n bytes into a child reader and advances past them.
func (r *reader) sub(n int, record string) (*reader, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	child := &reader{
		buf:    r.buf[r.off : r.off+n],
		base:   r.base + r.off,
		record: record,
	}
	r.off += n
	return child, nil
}

// header validates a 4-byte magic followed by a 4-byte ASCII version.
func (r *reader) header(magic string) (string, error) {
	if err := r.need(len(magic)); err != nil {
		return "", err
	}
	if string(r.buf[r.off:r.off+len(magic)]) != magic {
		return "", r.fail(ErrBadMagic)
	}
	r.off += len(magic)
	version, err := r.fixedID(4)
	if err != nil {
		return "", err
	}
	switch version {
	case "0100", "0200", "0300":
		return version, nil
	default:
		r.off -= 4
		return "", r.fail(ErrUnsupportedVersion)
	}
}
