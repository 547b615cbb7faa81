package tlv

// Encoder is implemented by values that can be written as a TLV record or as part of one.
//
// Encode returns a freshly allocated buffer. Size returns the exact length of that buffer without materializing it
// and must always equal len(Encode()). Whether the encoding includes a type-and-length header is up to the
// implementation: records write their own header, bare values (sequence elements, integers, spans) do not.
type Encoder interface {
	Encode() []byte
	Size() int
}

// Decoder is implemented by values that can be read from a TLV buffer.
//
// Decode consumes a prefix of the cursor and fills the receiver. It may consume a part of the cursor (one sequence
// element) or all of it (a raw span). Callers that know the exact length of a value must restrict the cursor to that
// length first (see Cursor.Limit) so that a nested decode cannot run past its own record's boundary.
type Decoder interface {
	Decode(cur *Cursor) error
}

// Typed is implemented by records that have a fixed type number.
type Typed interface {
	TlvType() uint64
}

// Record is a TLV record: a typed value that knows the size of its payload. PayloadSize does not include the type
// and length header and equals the length value on the wire.
type Record interface {
	Typed
	PayloadSize() int
}

// Codec is the constraint used by generic containers: a pointer to T that implements both halves of the contract.
type Codec[T any] interface {
	*T
	Encoder
	Decoder
}

// DecodeValue decodes a value of type T from the cursor.
func DecodeValue[T any, P Codec[T]](cur *Cursor) (T, error) {
	var v T
	err := P(&v).Decode(cur)
	return v, err
}

// DecodeBytes decodes a value of type T from the given buffer and returns it along with the number of octets used.
func DecodeBytes[T any, P Codec[T]](b []byte) (T, int, error) {
	cur := NewCursor(b)
	v, err := DecodeValue[T, P](cur)
	return v, len(b) - cur.Len(), err
}

// RecordSize returns the size of a record of the given type with a payload of the given size, header included.
func RecordSize(typ uint64, payloadSize int) int {
	return VarNum(typ).Size() + VarNum(uint64(payloadSize)).Size() + payloadSize
}

// AppendHeader appends the type and length header of a record to the given buffer.
func AppendHeader(buf []byte, typ uint64, payloadSize int) []byte {
	buf = VarNum(typ).AppendTo(buf)
	return VarNum(uint64(payloadSize)).AppendTo(buf)
}

// EncodeRecord encodes a record of the given type whose payload is the concatenation of the given fields' encodings
// in order.
func EncodeRecord(typ uint64, fields ...Encoder) []byte {
	payloadSize := 0
	for _, f := range fields {
		payloadSize += f.Size()
	}
	buf := make([]byte, 0, RecordSize(typ, payloadSize))
	buf = AppendHeader(buf, typ, payloadSize)
	for _, f := range fields {
		buf = append(buf, f.Encode()...)
	}
	return buf
}

// FieldsSize returns the sum of the sizes of the given fields.
func FieldsSize(fields ...Encoder) int {
	size := 0
	for _, f := range fields {
		size += f.Size()
	}
	return size
}

// DecodeHeader reads and checks the header of a record of the given type and returns an isolated cursor over exactly
// its payload. The given cursor is advanced past the whole record.
//
// It fails with a TypeMismatchError if the leading type differs and with ErrUnexpectedEndOfStream if the declared
// length exceeds the remaining octets.
func DecodeHeader(cur *Cursor, typ uint64) (*Cursor, error) {
	found, err := DecodeVarNum(cur)
	if err != nil {
		return nil, err
	}
	if found != typ {
		return nil, errTypeMismatch("DecodeHeader", typ, found)
	}
	length, err := DecodeVarNum(cur)
	if err != nil {
		return nil, err
	}
	return cur.Limit(length)
}

// DecodeAnyHeader reads the header of a record of any type and returns the type along with an isolated cursor over
// the payload.
func DecodeAnyHeader(cur *Cursor) (uint64, *Cursor, error) {
	typ, err := DecodeVarNum(cur)
	if err != nil {
		return 0, nil, err
	}
	length, err := DecodeVarNum(cur)
	if err != nil {
		return 0, nil, err
	}
	payload, err := cur.Limit(length)
	if err != nil {
		return 0, nil, err
	}
	return typ, payload, nil
}

// Probe runs fn on a duplicate of the cursor and commits the consumed octets only if fn succeeds. A failed probe
// leaves the cursor untouched.
func Probe(cur *Cursor, fn func(dup *Cursor) error) error {
	dup := cur.Clone()
	if err := fn(dup); err != nil {
		return err
	}
	cur.Commit(dup)
	return nil
}
