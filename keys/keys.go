// Package keys implements the byte encoding that maps ordered key
// types onto the lexicographic byte streams the trie core operates
// on: strings map identity, signed integers have their sign bit
// flipped before a big-endian conversion, and unsigned integers
// convert to big-endian directly. Byte order then equals key order,
// which is the only contract the core (package vart) relies on.
package keys

import (
	"encoding/binary"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Bytes is the wire form the trie core consumes: an ordered byte
// sequence. All constructors below produce a Bytes whose lexicographic
// order matches the source value's natural order.
type Bytes []byte

// FromBytes returns a copy of b as a Bytes. A nil b produces an empty
// (non-nil) Bytes, so callers always get a comparable, clonable value.
func FromBytes(b []byte) Bytes {
	if b == nil {
		return Bytes{}
	}
	kb := make([]byte, len(b))
	copy(kb, b)
	return Bytes(kb)
}

// FromString returns a Bytes produced from s after normalizing to
// Unicode NFC, so that canonically-equivalent strings compare equal
// and sort consistently as keys.
func FromString(s string) Bytes {
	s = norm.NFC.String(s)
	return FromBytes([]byte(s))
}

// FromInt64 converts a signed 64-bit integer to an 8-byte big-endian
// Bytes with the sign bit flipped, so lexicographic order of the
// result matches numeric order, including across negative and
// non-negative values.
func FromInt64(i int64) Bytes {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(i)^signBit)
	return FromBytes(b[:])
}

// FromInt32 widens i to int64 and encodes it the same way FromInt64
// does, so FromInt32(x) and FromInt64(int64(x)) always compare equal.
func FromInt32(i int32) Bytes { return FromInt64(int64(i)) }

// FromInt16 widens i to int64 and encodes it the same way FromInt64 does.
func FromInt16(i int16) Bytes { return FromInt64(int64(i)) }

// FromInt8 widens i to int64 and encodes it the same way FromInt64 does.
func FromInt8(i int8) Bytes { return FromInt64(int64(i)) }

// FromInt widens the platform int to int64 and encodes it the same
// way FromInt64 does.
func FromInt(i int) Bytes { return FromInt64(int64(i)) }

// FromUint64 converts an unsigned 64-bit integer directly to an
// 8-byte big-endian Bytes: unsigned values need no sign-bit transform
// for their byte order to match their numeric order.
func FromUint64(u uint64) Bytes {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], u)
	return FromBytes(b[:])
}

// FromUint32 widens u to uint64 and encodes it the same way
// FromUint64 does.
func FromUint32(u uint32) Bytes { return FromUint64(uint64(u)) }

// FromUint16 widens u to uint64 and encodes it the same way
// FromUint64 does.
func FromUint16(u uint16) Bytes { return FromUint64(uint64(u)) }

// FromUint8 widens u to uint64 and encodes it the same way
// FromUint64 does.
func FromUint8(u uint8) Bytes { return FromUint64(uint64(u)) }

// FromUint widens the platform uint to uint64 and encodes it the same
// way FromUint64 does.
func FromUint(u uint) Bytes { return FromUint64(uint64(u)) }

// FromByte is an alias for FromUint8.
func FromByte(b byte) Bytes { return FromUint8(b) }

// FromRune encodes r as its UTF-8 bytes, identity-mapped like strings.
func FromRune(r rune) Bytes {
	var buf [4]byte
	n := encodeRuneUTF8(buf[:], r)
	return FromBytes(buf[:n])
}

const signBit = uint64(1) << 63

// Bytes returns a copy of k.
func (k Bytes) Bytes() []byte {
	if k == nil {
		return nil
	}
	b := make([]byte, len(k))
	copy(b, k)
	return b
}

// Clone returns an independent copy of k. A nil k clones to nil.
func (k Bytes) Clone() Bytes {
	if k == nil {
		return nil
	}
	kb := make([]byte, len(k))
	copy(kb, k)
	return Bytes(kb)
}

// String renders k as uppercase hex byte-tuples, e.g. "[01,AB,00]".
func (k Bytes) String() string {
	if len(k) == 0 {
		return "[]"
	}
	var sb strings.Builder
	sb.WriteByte('[')
	const hex = "0123456789ABCDEF"
	for i, b := range k {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte(hex[b>>4])
		sb.WriteByte(hex[b&0x0F])
	}
	sb.WriteByte(']')
	return sb.String()
}

// Equal reports whether k and other hold the same bytes.
func (k Bytes) Equal(other Bytes) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}

// Less reports whether k sorts strictly before other under
// lexicographic byte order (the order the trie iterates in).
func (k Bytes) Less(other Bytes) bool {
	n := len(k)
	if len(other) < n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		if k[i] != other[i] {
			return k[i] < other[i]
		}
	}
	return len(k) < len(other)
}

// IsEmpty reports whether k is the zero-length key.
func (k Bytes) IsEmpty() bool { return len(k) == 0 }

func encodeRuneUTF8(buf []byte, r rune) int {
	switch {
	case r <= 0x7F:
		buf[0] = byte(r)
		return 1
	case r <= 0x7FF:
		buf[0] = 0xC0 | byte(r>>6)
		buf[1] = 0x80 | byte(r)&0x3F
		return 2
	case r <= 0xFFFF:
		buf[0] = 0xE0 | byte(r>>12)
		buf[1] = 0x80 | byte(r>>6)&0x3F
		buf[2] = 0x80 | byte(r)&0x3F
		return 3
	default:
		buf[0] = 0xF0 | byte(r>>18)
		buf[1] = 0x80 | byte(r>>12)&0x3F
		buf[2] = 0x80 | byte(r>>6)&0x3F
		buf[3] = 0x80 | byte(r)&0x3F
		return 4
	}
}
