package tlv

import (
	"encoding/binary"
	"math"
)

const (
	// MaxVarNumSize is the largest size of an encoded VarNum.
	MaxVarNumSize = 9
	// MaxHeaderSize is the largest size of a record header: a type and a length VarNum.
	MaxHeaderSize = 2 * MaxVarNumSize
)

// VarNum is a variable-length number as used for TLV types and lengths. Encoding always picks the minimal width for
// the value's magnitude:
//
//	0x00-0xFC                  1 octet
//	0xFD-0xFFFF                0xFD + 2 octets big-endian
//	0x10000-0xFFFFFFFF         0xFE + 4 octets big-endian
//	0x100000000-0xFFFFFFFFFFFFFFFF  0xFF + 8 octets big-endian
//
// Decoding accepts any width whose range covers the value, so non-minimal encodings are tolerated.
type VarNum uint64

// Size returns the size of the wire encoding.
func (n VarNum) Size() int {
	switch {
	case n <= 0xFC:
		return 1
	case n <= math.MaxUint16:
		return 3
	case n <= math.MaxUint32:
		return 5
	default:
		return 9
	}
}

// Encode returns the wire encoding in a new buffer.
func (n VarNum) Encode() []byte {
	return n.AppendTo(make([]byte, 0, n.Size()))
}

// AppendTo appends the wire encoding to the given buffer.
func (n VarNum) AppendTo(buf []byte) []byte {
	switch {
	case n <= 0xFC:
		return append(buf, byte(n))
	case n <= math.MaxUint16:
		return binary.BigEndian.AppendUint16(append(buf, 0xFD), uint16(n))
	case n <= math.MaxUint32:
		return binary.BigEndian.AppendUint32(append(buf, 0xFE), uint32(n))
	default:
		return binary.BigEndian.AppendUint64(append(buf, 0xFF), uint64(n))
	}
}

// Decode reads a VarNum from the cursor.
func (n *VarNum) Decode(cur *Cursor) error {
	v, err := DecodeVarNum(cur)
	if err != nil {
		return err
	}
	*n = VarNum(v)
	return nil
}

// DecodeVarNum reads a VarNum from the cursor and returns its value. The cursor is left unchanged on failure.
func DecodeVarNum(cur *Cursor) (uint64, error) {
	buf := cur.Bytes()
	if len(buf) == 0 {
		return 0, errEndOfStream("DecodeVarNum", 1, 0)
	}
	first := buf[0]
	width := 0
	switch first {
	case 0xFD:
		width = 2
	case 0xFE:
		width = 4
	case 0xFF:
		width = 8
	default:
		cur.buf = buf[1:]
		return uint64(first), nil
	}
	if len(buf)-1 < width {
		return 0, errEndOfStream("DecodeVarNum", uint64(width+1), len(buf))
	}
	var v uint64
	switch width {
	case 2:
		v = uint64(binary.BigEndian.Uint16(buf[1:]))
	case 4:
		v = uint64(binary.BigEndian.Uint32(buf[1:]))
	default:
		v = binary.BigEndian.Uint64(buf[1:])
	}
	cur.buf = buf[1+width:]
	return v, nil
}
