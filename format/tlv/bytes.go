package tlv

// Bytes is a raw octet span. Encoding is the identity. Decoding consumes everything remaining in the cursor, so the
// cursor must already be restricted to the span's exact length. Decoded spans alias the decoded buffer.
type Bytes []byte

func (b Bytes) Encode() []byte {
	res := make([]byte, len(b))
	copy(res, b)
	return res
}

func (b Bytes) Size() int {
	return len(b)
}

func (b *Bytes) Decode(cur *Cursor) error {
	bts, _ := cur.Next(cur.Len())
	*b = bts
	return nil
}

// Unit is the empty value: it encodes to zero octets and always decodes successfully without consuming anything.
type Unit struct{}

func (Unit) Encode() []byte {
	return []byte{}
}

func (Unit) Size() int {
	return 0
}

func (*Unit) Decode(*Cursor) error {
	return nil
}

// DecodeFixed fills dst with the next len(dst) octets of the cursor. It fails with ErrUnexpectedEndOfStream if fewer
// octets remain. It is the building block for fixed-size arrays of any width:
//
//	var digest [32]byte
//	err := tlv.DecodeFixed(cur, digest[:])
func DecodeFixed(cur *Cursor, dst []byte) error {
	if cur.Len() < len(dst) {
		return errEndOfStream("DecodeFixed", uint64(len(dst)), cur.Len())
	}
	bts, _ := cur.Next(len(dst))
	copy(dst, bts)
	return nil
}

// Fixed4 is a fixed-size array of 4 octets.
type Fixed4 [4]byte

func (a Fixed4) Encode() []byte          { return append([]byte(nil), a[:]...) }
func (a Fixed4) Size() int               { return len(a) }
func (a *Fixed4) Decode(c *Cursor) error { return DecodeFixed(c, a[:]) }

// Fixed8 is a fixed-size array of 8 octets.
type Fixed8 [8]byte

func (a Fixed8) Encode() []byte          { return append([]byte(nil), a[:]...) }
func (a Fixed8) Size() int               { return len(a) }
func (a *Fixed8) Decode(c *Cursor) error { return DecodeFixed(c, a[:]) }

// Fixed16 is a fixed-size array of 16 octets.
type Fixed16 [16]byte

func (a Fixed16) Encode() []byte          { return append([]byte(nil), a[:]...) }
func (a Fixed16) Size() int               { return len(a) }
func (a *Fixed16) Decode(c *Cursor) error { return DecodeFixed(c, a[:]) }

// Fixed32 is a fixed-size array of 32 octets, e.g. a SHA-256 digest.
type Fixed32 [32]byte

func (a Fixed32) Encode() []byte          { return append([]byte(nil), a[:]...) }
func (a Fixed32) Size() int               { return len(a) }
func (a *Fixed32) Decode(c *Cursor) error { return DecodeFixed(c, a[:]) }
