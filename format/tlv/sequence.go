package tlv

// Sequence is a repeated field: a slice of values of type T whose encodings are concatenated in order.
//
// Decoding is greedy with backoff: elements are decoded while octets remain. Each attempt runs on a duplicate of the
// cursor and is committed only on success. A TypeMismatchError ends the sequence without error and leaves the
// mismatching record in the cursor for the next field. Any other error is returned.
//
//	type Name struct {
//		Components tlv.Sequence[Component, *Component]
//	}
type Sequence[T any, P Codec[T]] []T

func (s Sequence[T, P]) Encode() []byte {
	buf := make([]byte, 0, s.Size())
	for i := range s {
		buf = append(buf, P(&s[i]).Encode()...)
	}
	return buf
}

func (s Sequence[T, P]) Size() int {
	size := 0
	for i := range s {
		size += P(&s[i]).Size()
	}
	return size
}

func (s *Sequence[T, P]) Decode(cur *Cursor) error {
	var res []T
	for cur.Len() > 0 {
		dup := cur.Clone()
		var v T
		err := P(&v).Decode(dup)
		if err != nil {
			if IsTypeMismatch(err) {
				break
			}
			return err
		}
		if dup.Len() == cur.Len() {
			// an element that consumes nothing would repeat forever
			break
		}
		cur.Commit(dup)
		res = append(res, v)
	}
	*s = res
	return nil
}

// Optional is a field that may be absent. Absent values encode to zero octets.
//
// Decoding attempts T on a duplicate of the cursor. Success yields a present value and commits the consumed octets.
// A TypeMismatchError or ErrUnexpectedEndOfStream yields an absent value and leaves the cursor untouched. Other errors
// are returned.
type Optional[T any, P Codec[T]] struct {
	Value T
	Valid bool
}

// Some returns a present optional value.
func Some[T any, P Codec[T]](v T) Optional[T, P] {
	return Optional[T, P]{Value: v, Valid: true}
}

// Get returns the value and whether it is present.
func (o Optional[T, P]) Get() (T, bool) {
	return o.Value, o.Valid
}

func (o Optional[T, P]) Encode() []byte {
	if !o.Valid {
		return []byte{}
	}
	return P(&o.Value).Encode()
}

func (o Optional[T, P]) Size() int {
	if !o.Valid {
		return 0
	}
	return P(&o.Value).Size()
}

func (o *Optional[T, P]) Decode(cur *Cursor) error {
	var v T
	err := Probe(cur, func(dup *Cursor) error {
		return P(&v).Decode(dup)
	})
	switch {
	case err == nil:
		*o = Optional[T, P]{Value: v, Valid: true}
	case IsTypeMismatch(err), IsUnexpectedEndOfStream(err):
		*o = Optional[T, P]{}
	default:
		return err
	}
	return nil
}
