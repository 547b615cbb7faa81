package tlvstruct

import (
	"reflect"
	"testing"
	"time"

	"github.com/eluv-io/errors-go"
	"github.com/eluv-io/utc-go"
	"github.com/stretchr/testify/require"

	"github.com/eluv-io/tlv-go/format/tlv"
)

type Component struct {
	_     struct{} `tlv:"8"`
	Value tlv.Bytes
}

type Name struct {
	_          struct{} `tlv:"7"`
	Components []Component
}

type VecPartial struct {
	_           struct{} `tlv:"129"`
	Components  []Component
	CanBePrefix bool `tlv:"33"`
}

type HasOption struct {
	_           struct{} `tlv:"143"`
	Component   *Component
	CanBePrefix bool `tlv:"33"`
}

type CanBePrefix struct {
	_ struct{} `tlv:"33"`
}

type Interest struct {
	_           struct{}                `tlv:"5"`
	Name        Name                    // nested record
	CanBePrefix bool                    `tlv:"33"`
	Nonce       tlv.Fixed4              `tlv:"10,optional"`
	Lifetime    *tlv.NonNegativeInteger `tlv:"12"`
	Hints       []string                `tlv:"30"`
}

type Lifetime struct {
	_    struct{} `tlv:"140"`
	Name Name
	Ms   uint32 `tlv:"12"`
}

type Stamped struct {
	_     struct{} `tlv:"150"`
	At    utc.UTC  `tlv:"1"`
	Label string   `tlv:"2"`
	Tags  []string `tlv:"3"`
	Delta int16    `tlv:"4"`
	Seq   uint64   `tlv:"5,optional"`
	Raw   []byte   `tlv:"6"`
	Note  string   `tlv:"-"`
	note  string
	Span  tlv.Bytes `tlv:"0x0102"`
}

type Ping struct {
	Seq tlv.NonNegativeInteger `tlv:"1"`
}

func (Ping) TlvType() uint64 { return 200 }

func hello() []byte {
	return []byte{8, 5, 'h', 'e', 'l', 'l', 'o'}
}

func world() []byte {
	return []byte{8, 5, 'w', 'o', 'r', 'l', 'd'}
}

func concat(parts ...[]byte) []byte {
	var res []byte
	for _, p := range parts {
		res = append(res, p...)
	}
	return res
}

func TestVecPartial(t *testing.T) {
	encoded := concat([]byte{129, 16}, hello(), world(), []byte{33, 0})

	var v VecPartial
	require.NoError(t, UnmarshalBytes(encoded, &v))
	require.Len(t, v.Components, 2)
	require.Equal(t, tlv.Bytes("hello"), v.Components[0].Value)
	require.Equal(t, tlv.Bytes("world"), v.Components[1].Value)
	require.True(t, v.CanBePrefix)

	bts, err := Marshal(v)
	require.NoError(t, err)
	require.Equal(t, encoded, bts)

	size, err := Size(&v)
	require.NoError(t, err)
	require.Equal(t, len(encoded), size)
}

func TestHasOption(t *testing.T) {
	t.Run("some", func(t *testing.T) {
		encoded := concat([]byte{143, 9}, hello(), []byte{33, 0})
		var v HasOption
		require.NoError(t, UnmarshalBytes(encoded, &v))
		require.NotNil(t, v.Component)
		require.Equal(t, tlv.Bytes("hello"), v.Component.Value)
		require.True(t, v.CanBePrefix)

		bts, err := Marshal(&v)
		require.NoError(t, err)
		require.Equal(t, encoded, bts)
	})
	t.Run("none", func(t *testing.T) {
		encoded := []byte{143, 2, 33, 0}
		var v HasOption
		require.NoError(t, UnmarshalBytes(encoded, &v))
		require.Nil(t, v.Component)
		require.True(t, v.CanBePrefix)

		bts, err := Marshal(v)
		require.NoError(t, err)
		require.Equal(t, encoded, bts)
	})
	t.Run("empty", func(t *testing.T) {
		var v HasOption
		require.NoError(t, UnmarshalBytes([]byte{143, 0}, &v))
		require.Nil(t, v.Component)
		require.False(t, v.CanBePrefix)
	})
}

func TestUnitStruct(t *testing.T) {
	bts, err := Marshal(CanBePrefix{})
	require.NoError(t, err)
	require.Equal(t, []byte{33, 0}, bts)

	var c CanBePrefix
	require.NoError(t, UnmarshalBytes([]byte{33, 0}, &c))

	err = UnmarshalBytes([]byte{34, 0}, &c)
	mismatch, ok := tlv.AsTypeMismatch(err)
	require.True(t, ok, err)
	require.Equal(t, uint64(33), mismatch.Expected)
	require.Equal(t, uint64(34), mismatch.Found)
}

func TestInterest(t *testing.T) {
	lifetime := tlv.NonNegativeInteger(4000)
	in := Interest{
		Name:        Name{Components: []Component{{Value: tlv.Bytes("a")}, {Value: tlv.Bytes("b")}}},
		CanBePrefix: true,
		Nonce:       tlv.Fixed4{1, 2, 3, 4},
		Lifetime:    &lifetime,
		Hints:       []string{"/x", "/y"},
	}

	bts, err := Marshal(&in)
	require.NoError(t, err)
	size, err := Size(in)
	require.NoError(t, err)
	require.Equal(t, len(bts), size)

	expected := concat(
		[]byte{5, 28},
		[]byte{7, 6, 8, 1, 'a', 8, 1, 'b'},
		[]byte{33, 0},
		[]byte{10, 4, 1, 2, 3, 4},
		[]byte{12, 2, 0x0f, 0xa0},
		[]byte{30, 2, '/', 'x', 30, 2, '/', 'y'},
	)
	require.Equal(t, expected, bts)

	var out Interest
	require.NoError(t, UnmarshalBytes(bts, &out))
	require.Equal(t, in, out)
}

func TestOmitZeroAndAbsentFields(t *testing.T) {
	in := Interest{Name: Name{Components: []Component{{Value: tlv.Bytes("a")}}}}

	bts, err := Marshal(in)
	require.NoError(t, err)
	require.Equal(t, []byte{5, 5, 7, 3, 8, 1, 'a'}, bts)

	var out Interest
	require.NoError(t, UnmarshalBytes(bts, &out))
	require.Equal(t, in, out)
	require.False(t, out.CanBePrefix)
	require.Equal(t, tlv.Fixed4{}, out.Nonce)
	require.Nil(t, out.Lifetime)
	require.Nil(t, out.Hints)
}

func TestUnknownRecords(t *testing.T) {
	name := []byte{7, 0}
	ms := []byte{12, 4, 0, 0, 0, 1}

	t.Run("non-critical skipped", func(t *testing.T) {
		encoded := concat([]byte{140, 11}, name, []byte{126, 1, 'x'}, ms)
		var v Lifetime
		require.NoError(t, UnmarshalBytes(encoded, &v))
		require.Equal(t, uint32(1), v.Ms)
	})
	t.Run("critical rejected", func(t *testing.T) {
		encoded := concat([]byte{140, 10}, name, []byte{127, 0}, ms)
		var v Lifetime
		err := UnmarshalBytes(encoded, &v)
		mismatch, ok := tlv.AsTypeMismatch(err)
		require.True(t, ok, err)
		require.Equal(t, uint64(12), mismatch.Expected)
		require.Equal(t, uint64(127), mismatch.Found)
	})
	t.Run("missing field", func(t *testing.T) {
		encoded := concat([]byte{140, 2}, name)
		var v Lifetime
		err := UnmarshalBytes(encoded, &v)
		require.Error(t, err)
		require.True(t, tlv.IsUnexpectedEndOfStream(err))
	})
	t.Run("field overruns record", func(t *testing.T) {
		encoded := concat([]byte{140, 5}, name, ms)
		var v Lifetime
		err := UnmarshalBytes(encoded, &v)
		require.Error(t, err)
		require.True(t, tlv.IsUnexpectedEndOfStream(err))
	})
}

func TestValueTypes(t *testing.T) {
	at := utc.UnixMilli(1_700_000_000_123)
	in := Stamped{
		At:    at,
		Label: "label",
		Tags:  []string{"a", "bc"},
		Delta: -2,
		Seq:   7,
		Raw:   []byte{0xde, 0xad},
		Note:  "ignored",
		Span:  tlv.Bytes{1},
	}

	bts, err := Marshal(in)
	require.NoError(t, err)
	size, err := Size(in)
	require.NoError(t, err)
	require.Equal(t, len(bts), size)

	var out Stamped
	require.NoError(t, UnmarshalBytes(bts, &out))
	require.Equal(t, at.UnixMilli(), out.At.UnixMilli())
	require.Equal(t, "label", out.Label)
	require.Equal(t, []string{"a", "bc"}, out.Tags)
	require.Equal(t, int16(-2), out.Delta)
	require.Equal(t, uint64(7), out.Seq)
	require.Equal(t, []byte{0xde, 0xad}, out.Raw)
	require.Empty(t, out.Note)
	require.Equal(t, tlv.Bytes{1}, out.Span)

	// the 0x0102 tag needs a three-octet type
	require.Equal(t, []byte{0xfd, 0x01, 0x02, 1, 1}, bts[len(bts)-5:])

	in.Seq = 0
	shorter, err := Size(in)
	require.NoError(t, err)
	require.Equal(t, size-10, shorter)
}

func TestTimestampEncoding(t *testing.T) {
	type At struct {
		_  struct{} `tlv:"9"`
		At utc.UTC  `tlv:"1"`
	}
	ts := utc.New(time.Date(1970, 1, 1, 0, 0, 1, 0, time.UTC))
	bts, err := Marshal(At{At: ts})
	require.NoError(t, err)
	require.Equal(t, []byte{9, 10, 1, 8, 0, 0, 0, 0, 0, 0, 0x03, 0xe8}, bts)
}

func TestTypedStruct(t *testing.T) {
	bts, err := Marshal(Ping{Seq: 1})
	require.NoError(t, err)
	require.Equal(t, []byte{200, 3, 1, 1, 1}, bts)

	typ, err := TypeOf(&Ping{})
	require.NoError(t, err)
	require.Equal(t, uint64(200), typ)

	var p Ping
	cur := tlv.NewCursor(concat(bts, []byte{0xff}))
	require.NoError(t, Unmarshal(cur, &p))
	require.Equal(t, tlv.NonNegativeInteger(1), p.Seq)
	require.Equal(t, 1, cur.Len())
}

func TestMixWithCoreRecords(t *testing.T) {
	type Packet struct {
		_        struct{} `tlv:"100"`
		Elements tlv.Elements
	}
	in := Packet{Elements: tlv.Elements{{Type: 1, Value: []byte{1}}, {Type: 2, Value: []byte{}}}}
	bts, err := Marshal(in)
	require.NoError(t, err)
	require.Equal(t, []byte{100, 5, 1, 1, 1, 2, 0}, bts)

	var out Packet
	require.NoError(t, UnmarshalBytes(bts, &out))
	require.Len(t, out.Elements, 2)
	require.Equal(t, uint64(2), out.Elements[1].Type)
}

func TestInvalidStructs(t *testing.T) {
	type NoType struct {
		A string `tlv:"1"`
	}
	type Unsupported struct {
		_ struct{}       `tlv:"1"`
		M map[string]int `tlv:"2"`
	}
	type Untagged struct {
		_ struct{} `tlv:"1"`
		S string
	}
	type BadTag struct {
		_ struct{} `tlv:"1"`
		S string   `tlv:"two"`
	}
	type BadOption struct {
		_ struct{} `tlv:"1"`
		S string   `tlv:"2,sometimes"`
	}

	for _, v := range []interface{}{NoType{}, Unsupported{}, Untagged{}, BadTag{}, BadOption{}, 5, nil, (*Ping)(nil)} {
		_, err := Marshal(v)
		require.Error(t, err, "%T", v)
		require.True(t, errors.IsKind(errors.K.Invalid, err), "%T: %v", v, err)
	}

	err := UnmarshalBytes([]byte{200, 0}, Ping{})
	require.Error(t, err)
	require.True(t, errors.IsKind(errors.K.Invalid, err))
}

func TestLayoutCache(t *testing.T) {
	type Cached struct {
		_ struct{} `tlv:"77"`
		A uint8    `tlv:"1"`
	}
	typ := reflect.TypeOf(Cached{})
	require.False(t, layouts.Contains(typ))

	_, err := Marshal(Cached{A: 1})
	require.NoError(t, err)
	require.True(t, layouts.Contains(typ))

	l1, err := getLayout(typ)
	require.NoError(t, err)
	l2, err := getLayout(typ)
	require.NoError(t, err)
	require.Same(t, l1, l2)
}
