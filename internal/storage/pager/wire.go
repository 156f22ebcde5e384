// Package pager implements the paged block store and B+Tree index for
// fgpctidx.
//
// The storage format is a directory of fixed-size page files, one per
// block, split across three families: data pages (DataBlock, see
// datablock.go), index pages (Node, see node.go) and overflow pages
// (OverflowBlock, see overflow.go). Every multi-byte integer and float on
// the wire is big-endian; there is no shared page header, no checksum, and
// no write-ahead log — this format carries no transactional durability,
// matching the core spec's Non-goals.
package pager

import (
	"fmt"
	"io"
	"math"
)

// Serializer provides the fixed-width, big-endian primitives every page
// family is built out of; it holds no state, and each method takes the
// io.Writer or io.Reader it works on. Each write
// method returns the number of bytes written; each read method consumes
// exactly that many bytes or returns an error, so that a short read
// inside a block is always visible to the caller as corruption.
type Serializer struct{}

// WriteUint16 writes v as a 2-byte big-endian integer.
func (Serializer) WriteUint16(w io.Writer, v uint16) (int, error) {
	var buf [2]byte
	buf[0] = byte(v >> 8)
	buf[1] = byte(v)
	return w.Write(buf[:])
}

// WriteUint32 writes v as a 4-byte big-endian integer.
func (Serializer) WriteUint32(w io.Writer, v uint32) (int, error) {
	var buf [4]byte
	buf[0] = byte(v >> 24)
	buf[1] = byte(v >> 16)
	buf[2] = byte(v >> 8)
	buf[3] = byte(v)
	return w.Write(buf[:])
}

// WriteInt32 writes v as a 4-byte big-endian two's-complement integer.
func (s Serializer) WriteInt32(w io.Writer, v int32) (int, error) {
	return s.WriteUint32(w, uint32(v))
}

// WriteFloat32 writes v as the big-endian bit pattern of its IEEE-754
// representation.
func (s Serializer) WriteFloat32(w io.Writer, v float32) (int, error) {
	return s.WriteUint32(w, math.Float32bits(v))
}

// WriteBool writes a single byte: 0 for false, 1 for true.
func (Serializer) WriteBool(w io.Writer, v bool) (int, error) {
	b := byte(0)
	if v {
		b = 1
	}
	n, err := w.Write([]byte{b})
	return n, err
}

// WriteUint8 writes a single unsigned byte.
func (Serializer) WriteUint8(w io.Writer, v uint8) (int, error) {
	return w.Write([]byte{v})
}

// ReadUint8 reads a single unsigned byte.
func (s Serializer) ReadUint8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if err := readFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadUint16 reads a 2-byte big-endian integer, failing on short read.
func (s Serializer) ReadUint16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if err := readFull(r, buf[:]); err != nil {
		return 0, err
	}
	return uint16(buf[0])<<8 | uint16(buf[1]), nil
}

// ReadUint32 reads a 4-byte big-endian integer, failing on short read.
func (s Serializer) ReadUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if err := readFull(r, buf[:]); err != nil {
		return 0, err
	}
	return uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3]), nil
}

// ReadInt32 reads a 4-byte big-endian two's-complement integer.
func (s Serializer) ReadInt32(r io.Reader) (int32, error) {
	v, err := s.ReadUint32(r)
	return int32(v), err
}

// ReadFloat32 reads the big-endian bit pattern of an IEEE-754 float32.
func (s Serializer) ReadFloat32(r io.Reader) (float32, error) {
	v, err := s.ReadUint32(r)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadBool reads a single byte: zero is false, nonzero is true.
func (s Serializer) ReadBool(r io.Reader) (bool, error) {
	var buf [1]byte
	if err := readFull(r, buf[:]); err != nil {
		return false, err
	}
	return buf[0] != 0, nil
}

// readFull requires the reader to fill buf exactly, surfacing any short
// read as corruption rather than silently returning a partial buffer.
func readFull(r io.Reader, buf []byte) error {
	n, err := io.ReadFull(r, buf)
	if err != nil {
		return fmt.Errorf("short read: wanted %d bytes, got %d: %w", len(buf), n, err)
	}
	return nil
}
