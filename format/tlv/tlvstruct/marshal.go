package tlvstruct

import (
	"reflect"

	"github.com/eluv-io/errors-go"

	"github.com/eluv-io/tlv-go/format/tlv"
)

// Marshal encodes the given record struct (or pointer to one), header included.
func Marshal(v interface{}) ([]byte, error) {
	rv, l, err := root("tlvstruct.Marshal", v)
	if err != nil {
		return nil, err
	}
	size, err := l.payloadSize(rv)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, tlv.RecordSize(l.typ, size))
	buf = tlv.AppendHeader(buf, l.typ, size)
	return l.appendPayload(buf, rv)
}

// Size returns the size of the encoding Marshal produces for v, without materializing it.
func Size(v interface{}) (int, error) {
	rv, l, err := root("tlvstruct.Size", v)
	if err != nil {
		return 0, err
	}
	size, err := l.payloadSize(rv)
	if err != nil {
		return 0, err
	}
	return tlv.RecordSize(l.typ, size), nil
}

// Unmarshal decodes one record from the cursor into v, which must be a non-nil pointer to a record struct. The cursor
// is advanced past the record.
func Unmarshal(cur *tlv.Cursor, v interface{}) error {
	e := errors.Template("tlvstruct.Unmarshal", errors.K.Invalid)
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return e("reason", "target must be a non-nil pointer", "type", reflect.TypeOf(v))
	}
	rv = rv.Elem()
	l, err := recordLayout(rv.Type())
	if err != nil {
		return e(err)
	}
	payload, err := tlv.DecodeHeader(cur, l.typ)
	if err != nil {
		return err
	}
	return l.decodePayload(payload, rv)
}

// UnmarshalBytes decodes one record from the given buffer into v. Decoded byte slices alias the buffer.
func UnmarshalBytes(b []byte, v interface{}) error {
	return Unmarshal(tlv.NewCursor(b), v)
}

// TypeOf returns the type number of the given record struct.
func TypeOf(v interface{}) (uint64, error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return 0, errors.E("tlvstruct.TypeOf", errors.K.Invalid, "reason", "nil value")
	}
	l, err := recordLayout(t)
	if err != nil {
		return 0, err
	}
	return l.typ, nil
}

func root(op string, v interface{}) (reflect.Value, *layout, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return rv, nil, errors.E(op, errors.K.Invalid, "reason", "nil pointer", "type", rv.Type())
		}
		rv = rv.Elem()
	} else if rv.IsValid() {
		// copy into an addressable value so that fields can be handed to pointer-receiver encoders
		cp := reflect.New(rv.Type()).Elem()
		cp.Set(rv)
		rv = cp
	} else {
		return rv, nil, errors.E(op, errors.K.Invalid, "reason", "nil value")
	}
	l, err := recordLayout(rv.Type())
	if err != nil {
		return rv, nil, errors.E(op, errors.K.Invalid, err)
	}
	return rv, l, nil
}

func recordLayout(t reflect.Type) (*layout, error) {
	l, err := getLayout(t)
	if err != nil {
		return nil, err
	}
	if !l.hasTyp {
		return nil, errors.E("tlvstruct.layout", errors.K.Invalid,
			"reason", "struct declares no record type",
			"struct", l.name)
	}
	return l, nil
}

func (l *layout) payloadSize(v reflect.Value) (int, error) {
	size := 0
	for _, f := range l.fields {
		n, err := f.size(v.Field(f.index))
		if err != nil {
			return 0, err
		}
		size += n
	}
	return size, nil
}

func (l *layout) appendPayload(buf []byte, v reflect.Value) ([]byte, error) {
	var err error
	for _, f := range l.fields {
		buf, err = f.appendTo(buf, v.Field(f.index))
		if err != nil {
			return buf, err
		}
	}
	return buf, nil
}

func (l *layout) decodePayload(cur *tlv.Cursor, v reflect.Value) error {
	for _, f := range l.fields {
		if err := f.decode(cur, v.Field(f.index)); err != nil {
			return errors.NoTrace("tlvstruct.decode", err, "struct", l.name, "field", f.name)
		}
	}
	return nil
}

func (f *field) size(fv reflect.Value) (int, error) {
	switch f.kind {
	case kindFlag:
		if !fv.Bool() {
			return 0, nil
		}
	case kindOptional:
		if fv.IsNil() {
			return 0, nil
		}
		return f.codec.size(fv.Elem())
	case kindOmitZero:
		if fv.IsZero() {
			return 0, nil
		}
	case kindRepeated:
		size := 0
		for i := 0; i < fv.Len(); i++ {
			n, err := f.codec.size(fv.Index(i))
			if err != nil {
				return 0, err
			}
			size += n
		}
		return size, nil
	}
	return f.codec.size(fv)
}

func (f *field) appendTo(buf []byte, fv reflect.Value) ([]byte, error) {
	switch f.kind {
	case kindFlag:
		if !fv.Bool() {
			return buf, nil
		}
	case kindOptional:
		if fv.IsNil() {
			return buf, nil
		}
		return f.codec.appendTo(buf, fv.Elem())
	case kindOmitZero:
		if fv.IsZero() {
			return buf, nil
		}
	case kindRepeated:
		var err error
		for i := 0; i < fv.Len(); i++ {
			buf, err = f.codec.appendTo(buf, fv.Index(i))
			if err != nil {
				return buf, err
			}
		}
		return buf, nil
	}
	return f.codec.appendTo(buf, fv)
}

func (f *field) decode(cur *tlv.Cursor, fv reflect.Value) error {
	switch f.kind {
	case kindFlag:
		ok, err := f.probe(cur, fv, true)
		if err != nil {
			return err
		}
		fv.SetBool(ok)
	case kindOptional:
		nv := reflect.New(f.elemType)
		ok, err := f.probe(cur, nv.Elem(), true)
		if err != nil {
			return err
		}
		if ok {
			fv.Set(nv)
		} else {
			fv.Set(reflect.Zero(fv.Type()))
		}
	case kindOmitZero:
		nv := reflect.New(f.elemType).Elem()
		ok, err := f.probe(cur, nv, true)
		if err != nil {
			return err
		}
		if !ok {
			nv = reflect.Zero(f.elemType)
		}
		fv.Set(nv)
	case kindRepeated:
		res := reflect.MakeSlice(fv.Type(), 0, 0)
		for cur.Len() > 0 {
			before := cur.Len()
			nv := reflect.New(f.elemType).Elem()
			ok, err := f.probe(cur, nv, false)
			if err != nil {
				return err
			}
			if !ok || cur.Len() == before {
				break
			}
			res = reflect.Append(res, nv)
		}
		if res.Len() == 0 {
			res = reflect.Zero(fv.Type())
		}
		fv.Set(res)
	default:
		if f.hasTyp {
			if err := tlv.FindType(cur, f.typ); err != nil {
				return err
			}
		}
		return f.codec.decode(cur, fv)
	}
	return nil
}

// probe decodes one value on a duplicate of the cursor and commits it on success. It returns false without error if
// the next record belongs to another field: a type mismatch, or the end of the payload while locating the record. If
// endIsAbsent is set, running out of octets while decoding the value also counts as absent.
func (f *field) probe(cur *tlv.Cursor, dst reflect.Value, endIsAbsent bool) (bool, error) {
	dup := cur.Clone()
	if f.hasTyp {
		if err := tlv.FindType(dup, f.typ); err != nil {
			if tlv.IsTypeMismatch(err) || tlv.IsUnexpectedEndOfStream(err) {
				return false, nil
			}
			return false, err
		}
	}
	if err := f.codec.decode(dup, dst); err != nil {
		if tlv.IsTypeMismatch(err) || (endIsAbsent && tlv.IsUnexpectedEndOfStream(err)) {
			return false, nil
		}
		return false, err
	}
	cur.Commit(dup)
	return true, nil
}
