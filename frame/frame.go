// Package frame prepends and strips the fixed-width big-endian length
// prefixes used at the two framing points of the payload pipeline: a
// 32-bit prefix around the raw payload, and a 64-bit prefix around the
// Reed-Solomon-encoded payload.
package frame

import (
	"encoding/binary"

	"github.com/mirseo/updrm/errs"
)

const (
	width32 = 4
	width64 = 8
)

// Pack32 prepends a big-endian 32-bit length prefix to r.
func Pack32(r []byte) []byte {
	out := make([]byte, width32+len(r))
	binary.BigEndian.PutUint32(out, uint32(len(r)))
	copy(out[width32:], r)
	return out
}

// Pack64 prepends a big-endian 64-bit length prefix to r.
func Pack64(r []byte) []byte {
	out := make([]byte, width64+len(r))
	binary.BigEndian.PutUint64(out, uint64(len(r)))
	copy(out[width64:], r)
	return out
}

// Unpack32 reads a 32-bit length prefix from b and returns the declared
// payload plus any trailing bytes beyond it.
func Unpack32(b []byte) (payload []byte, rest []byte, err error) {
	return unpack(b, width32)
}

// Unpack64 reads a 64-bit length prefix from b and returns the declared
// payload plus any trailing bytes beyond it.
func Unpack64(b []byte) (payload []byte, rest []byte, err error) {
	return unpack(b, width64)
}

func unpack(b []byte, width int) ([]byte, []byte, error) {
	if len(b) < width {
		return nil, nil, errs.New(errs.TruncatedFrame, "frame.unpack", nil)
	}

	var declared uint64
	if width == width32 {
		declared = uint64(binary.BigEndian.Uint32(b))
	} else {
		declared = binary.BigEndian.Uint64(b)
	}

	available := uint64(len(b) - width)
	if declared > available {
		return nil, nil, errs.New(errs.LengthMismatch, "frame.unpack", nil)
	}

	body := b[width:]
	return body[:declared], body[declared:], nil
}
