package tlvstruct

import (
	"encoding/binary"
	"reflect"

	"github.com/eluv-io/utc-go"

	"github.com/eluv-io/tlv-go/format/tlv"
)

// recordCodec wraps a payload in a record of a fixed type.
type recordCodec struct {
	typ     uint64
	payload codec
}

func (c recordCodec) size(v reflect.Value) (int, error) {
	ps, err := c.payload.size(v)
	if err != nil {
		return 0, err
	}
	return tlv.RecordSize(c.typ, ps), nil
}

func (c recordCodec) appendTo(buf []byte, v reflect.Value) ([]byte, error) {
	ps, err := c.payload.size(v)
	if err != nil {
		return buf, err
	}
	buf = tlv.AppendHeader(buf, c.typ, ps)
	return c.payload.appendTo(buf, v)
}

func (c recordCodec) decode(cur *tlv.Cursor, v reflect.Value) error {
	payload, err := tlv.DecodeHeader(cur, c.typ)
	if err != nil {
		return err
	}
	return c.payload.decode(payload, v)
}

// emptyCodec is the payload of presence flags.
type emptyCodec struct{}

func (emptyCodec) size(reflect.Value) (int, error)                      { return 0, nil }
func (emptyCodec) appendTo(buf []byte, _ reflect.Value) ([]byte, error) { return buf, nil }
func (emptyCodec) decode(*tlv.Cursor, reflect.Value) error              { return nil }

// encoderCodec delegates to the value's own tlv.Encoder and tlv.Decoder implementation.
type encoderCodec struct{}

func (encoderCodec) size(v reflect.Value) (int, error) {
	return v.Addr().Interface().(tlv.Encoder).Size(), nil
}

func (encoderCodec) appendTo(buf []byte, v reflect.Value) ([]byte, error) {
	return append(buf, v.Addr().Interface().(tlv.Encoder).Encode()...), nil
}

func (encoderCodec) decode(cur *tlv.Cursor, v reflect.Value) error {
	return v.Addr().Interface().(tlv.Decoder).Decode(cur)
}

// bytesCodec handles byte slices. Decoded slices alias the decoded buffer.
type bytesCodec struct{}

func (bytesCodec) size(v reflect.Value) (int, error) {
	return v.Len(), nil
}

func (bytesCodec) appendTo(buf []byte, v reflect.Value) ([]byte, error) {
	return append(buf, v.Bytes()...), nil
}

func (bytesCodec) decode(cur *tlv.Cursor, v reflect.Value) error {
	bts, err := cur.Next(cur.Len())
	if err != nil {
		return err
	}
	v.SetBytes(bts)
	return nil
}

type stringCodec struct{}

func (stringCodec) size(v reflect.Value) (int, error) {
	return v.Len(), nil
}

func (stringCodec) appendTo(buf []byte, v reflect.Value) ([]byte, error) {
	return append(buf, v.String()...), nil
}

func (stringCodec) decode(cur *tlv.Cursor, v reflect.Value) error {
	bts, err := cur.Next(cur.Len())
	if err != nil {
		return err
	}
	v.SetString(string(bts))
	return nil
}

// intCodec handles fixed-width big-endian integers of any integer kind.
type intCodec struct {
	width int
}

func (c intCodec) size(reflect.Value) (int, error) {
	return c.width, nil
}

func (c intCodec) appendTo(buf []byte, v reflect.Value) ([]byte, error) {
	var u uint64
	if v.CanUint() {
		u = v.Uint()
	} else {
		u = uint64(v.Int())
	}
	switch c.width {
	case 1:
		return append(buf, byte(u)), nil
	case 2:
		return binary.BigEndian.AppendUint16(buf, uint16(u)), nil
	case 4:
		return binary.BigEndian.AppendUint32(buf, uint32(u)), nil
	}
	return binary.BigEndian.AppendUint64(buf, u), nil
}

func (c intCodec) decode(cur *tlv.Cursor, v reflect.Value) error {
	var tmp [8]byte
	b := tmp[:c.width]
	if err := tlv.DecodeFixed(cur, b); err != nil {
		return err
	}
	var u uint64
	var i int64
	switch c.width {
	case 1:
		u, i = uint64(b[0]), int64(int8(b[0]))
	case 2:
		x := binary.BigEndian.Uint16(b)
		u, i = uint64(x), int64(int16(x))
	case 4:
		x := binary.BigEndian.Uint32(b)
		u, i = uint64(x), int64(int32(x))
	default:
		u = binary.BigEndian.Uint64(b)
		i = int64(u)
	}
	if v.CanUint() {
		v.SetUint(u)
	} else {
		v.SetInt(i)
	}
	return nil
}

// utcCodec encodes timestamps as 8-octet big-endian milliseconds since the epoch.
type utcCodec struct{}

func (utcCodec) size(reflect.Value) (int, error) {
	return 8, nil
}

func (utcCodec) appendTo(buf []byte, v reflect.Value) ([]byte, error) {
	ts := v.Interface().(utc.UTC)
	return binary.BigEndian.AppendUint64(buf, uint64(ts.UnixMilli())), nil
}

func (utcCodec) decode(cur *tlv.Cursor, v reflect.Value) error {
	var ms tlv.Int64
	if err := ms.Decode(cur); err != nil {
		return err
	}
	v.Set(reflect.ValueOf(utc.UnixMilli(int64(ms))))
	return nil
}

// structCodec encodes the fields of a struct as a payload. The struct's layout is resolved on use, which allows
// recursive record types.
type structCodec struct {
	t reflect.Type
}

func (c structCodec) size(v reflect.Value) (int, error) {
	l, err := getLayout(c.t)
	if err != nil {
		return 0, err
	}
	return l.payloadSize(v)
}

func (c structCodec) appendTo(buf []byte, v reflect.Value) ([]byte, error) {
	l, err := getLayout(c.t)
	if err != nil {
		return buf, err
	}
	return l.appendPayload(buf, v)
}

func (c structCodec) decode(cur *tlv.Cursor, v reflect.Value) error {
	l, err := getLayout(c.t)
	if err != nil {
		return err
	}
	return l.decodePayload(cur, v)
}
