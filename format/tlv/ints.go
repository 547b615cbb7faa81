package tlv

import (
	"encoding/binary"
	"math"
)

// Fixed-width integers encode as big-endian octets of their natural width. Decoding fails with
// ErrUnexpectedEndOfStream if fewer octets remain than the width.

type Uint8 uint8

func (v Uint8) Encode() []byte { return []byte{byte(v)} }
func (v Uint8) Size() int      { return 1 }

func (v *Uint8) Decode(cur *Cursor) error {
	b, err := fixed(cur, 1)
	if err != nil {
		return err
	}
	*v = Uint8(b[0])
	return nil
}

type Uint16 uint16

func (v Uint16) Encode() []byte { return binary.BigEndian.AppendUint16(nil, uint16(v)) }
func (v Uint16) Size() int      { return 2 }

func (v *Uint16) Decode(cur *Cursor) error {
	b, err := fixed(cur, 2)
	if err != nil {
		return err
	}
	*v = Uint16(binary.BigEndian.Uint16(b))
	return nil
}

type Uint32 uint32

func (v Uint32) Encode() []byte { return binary.BigEndian.AppendUint32(nil, uint32(v)) }
func (v Uint32) Size() int      { return 4 }

func (v *Uint32) Decode(cur *Cursor) error {
	b, err := fixed(cur, 4)
	if err != nil {
		return err
	}
	*v = Uint32(binary.BigEndian.Uint32(b))
	return nil
}

type Uint64 uint64

func (v Uint64) Encode() []byte { return binary.BigEndian.AppendUint64(nil, uint64(v)) }
func (v Uint64) Size() int      { return 8 }

func (v *Uint64) Decode(cur *Cursor) error {
	b, err := fixed(cur, 8)
	if err != nil {
		return err
	}
	*v = Uint64(binary.BigEndian.Uint64(b))
	return nil
}

type Int8 int8

func (v Int8) Encode() []byte { return []byte{byte(v)} }
func (v Int8) Size() int      { return 1 }

func (v *Int8) Decode(cur *Cursor) error {
	var u Uint8
	if err := u.Decode(cur); err != nil {
		return err
	}
	*v = Int8(u)
	return nil
}

type Int16 int16

func (v Int16) Encode() []byte { return Uint16(v).Encode() }
func (v Int16) Size() int      { return 2 }

func (v *Int16) Decode(cur *Cursor) error {
	var u Uint16
	if err := u.Decode(cur); err != nil {
		return err
	}
	*v = Int16(u)
	return nil
}

type Int32 int32

func (v Int32) Encode() []byte { return Uint32(v).Encode() }
func (v Int32) Size() int      { return 4 }

func (v *Int32) Decode(cur *Cursor) error {
	var u Uint32
	if err := u.Decode(cur); err != nil {
		return err
	}
	*v = Int32(u)
	return nil
}

type Int64 int64

func (v Int64) Encode() []byte { return Uint64(v).Encode() }
func (v Int64) Size() int      { return 8 }

func (v *Int64) Decode(cur *Cursor) error {
	var u Uint64
	if err := u.Decode(cur); err != nil {
		return err
	}
	*v = Int64(u)
	return nil
}

func fixed(cur *Cursor, width int) ([]byte, error) {
	if cur.Len() < width {
		return nil, errEndOfStream("tlv.DecodeInt", uint64(width), cur.Len())
	}
	return cur.Next(width)
}

// NonNegativeInteger is the NDN natural number value: 1, 2, 4 or 8 octets big-endian, the shortest that holds the
// value. Decoding consumes the whole cursor, which must be restricted to the payload of the enclosing record, and
// fails with ErrUnexpectedLength if its size is none of the supported widths.
type NonNegativeInteger uint64

func (n NonNegativeInteger) Size() int {
	switch {
	case n <= math.MaxUint8:
		return 1
	case n <= math.MaxUint16:
		return 2
	case n <= math.MaxUint32:
		return 4
	default:
		return 8
	}
}

func (n NonNegativeInteger) Encode() []byte {
	switch n.Size() {
	case 1:
		return []byte{byte(n)}
	case 2:
		return binary.BigEndian.AppendUint16(nil, uint16(n))
	case 4:
		return binary.BigEndian.AppendUint32(nil, uint32(n))
	default:
		return binary.BigEndian.AppendUint64(nil, uint64(n))
	}
}

func (n *NonNegativeInteger) Decode(cur *Cursor) error {
	b := cur.Bytes()
	switch len(b) {
	case 1:
		*n = NonNegativeInteger(b[0])
	case 2:
		*n = NonNegativeInteger(binary.BigEndian.Uint16(b))
	case 4:
		*n = NonNegativeInteger(binary.BigEndian.Uint32(b))
	case 8:
		*n = NonNegativeInteger(binary.BigEndian.Uint64(b))
	default:
		return errLength("NonNegativeInteger.Decode", len(b))
	}
	_, _ = cur.Next(len(b))
	return nil
}
