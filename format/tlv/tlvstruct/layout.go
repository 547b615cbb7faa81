package tlvstruct

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/eluv-io/errors-go"
	"github.com/eluv-io/utc-go"
	lru "github.com/hashicorp/golang-lru"

	"github.com/eluv-io/tlv-go/format/tlv"
)

// LayoutCacheSize is the number of struct layouts kept in the layout cache.
const LayoutCacheSize = 512

var (
	typedType   = reflect.TypeOf((*tlv.Typed)(nil)).Elem()
	encoderType = reflect.TypeOf((*tlv.Encoder)(nil)).Elem()
	decoderType = reflect.TypeOf((*tlv.Decoder)(nil)).Elem()
	elementType = reflect.TypeOf(tlv.Element{})
	utcType     = reflect.TypeOf(utc.UTC{})
)

var layouts = newLayoutCache()

func newLayoutCache() *lru.Cache {
	c, err := lru.New(LayoutCacheSize)
	if err != nil {
		panic(err)
	}
	return c
}

type fieldKind int

const (
	kindSingle fieldKind = iota
	kindFlag
	kindOptional
	kindOmitZero
	kindRepeated
)

// layout is the field layout of a struct.
type layout struct {
	name   string
	typ    uint64
	hasTyp bool
	fields []*field
}

type field struct {
	name     string
	index    int
	typ      uint64 // the type of the field's records, located before decoding if hasTyp is set
	hasTyp   bool
	kind     fieldKind
	elemType reflect.Type // element type of optional and repeated fields
	codec    codec
}

// codec encodes and decodes a single value held in an addressable reflect.Value.
type codec interface {
	size(v reflect.Value) (int, error)
	appendTo(buf []byte, v reflect.Value) ([]byte, error)
	decode(cur *tlv.Cursor, v reflect.Value) error
}

func getLayout(t reflect.Type) (*layout, error) {
	if l, ok := layouts.Get(t); ok {
		return l.(*layout), nil
	}
	l, err := buildLayout(t)
	if err != nil {
		return nil, err
	}
	layouts.Add(t, l)
	return l, nil
}

func buildLayout(t reflect.Type) (*layout, error) {
	e := errors.Template("tlvstruct.layout", errors.K.Invalid, "struct", t.String())
	if t.Kind() != reflect.Struct {
		return nil, e("reason", "not a struct")
	}

	l := &layout{name: t.String()}
	var err error
	l.typ, l.hasTyp, err = recordType(t)
	if err != nil {
		return nil, e(err)
	}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Name == "_" || sf.PkgPath != "" {
			continue
		}
		tag, tagged := sf.Tag.Lookup("tlv")
		if tag == "-" {
			continue
		}
		var f *field
		if tagged {
			f, err = taggedField(sf, tag)
		} else {
			f, err = untaggedField(sf)
		}
		if err != nil {
			return nil, e(err, "field", sf.Name)
		}
		f.name = sf.Name
		f.index = i
		l.fields = append(l.fields, f)
	}
	return l, nil
}

// recordType returns the type number declared by a struct, if any.
func recordType(t reflect.Type) (uint64, bool, error) {
	if t != elementType && reflect.PtrTo(t).Implements(typedType) {
		return reflect.New(t).Interface().(tlv.Typed).TlvType(), true, nil
	}
	if t.Kind() != reflect.Struct {
		return 0, false, nil
	}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Name != "_" {
			continue
		}
		if tag, ok := sf.Tag.Lookup("tlv"); ok {
			typ, _, err := parseTag(tag)
			if err != nil {
				return 0, false, err
			}
			return typ, true, nil
		}
	}
	return 0, false, nil
}

func parseTag(tag string) (typ uint64, optional bool, err error) {
	parts := strings.Split(tag, ",")
	typ, err = strconv.ParseUint(strings.TrimSpace(parts[0]), 0, 64)
	if err != nil {
		return 0, false, errors.E("tlvstruct.parseTag", errors.K.Invalid, err, "tag", tag)
	}
	for _, opt := range parts[1:] {
		switch strings.TrimSpace(opt) {
		case "optional":
			optional = true
		default:
			return 0, false, errors.E("tlvstruct.parseTag", errors.K.Invalid,
				"reason", "unknown tag option",
				"tag", tag,
				"option", opt)
		}
	}
	return typ, optional, nil
}

func taggedField(sf reflect.StructField, tag string) (*field, error) {
	typ, optional, err := parseTag(tag)
	if err != nil {
		return nil, err
	}
	f := &field{typ: typ, hasTyp: true}
	t := sf.Type

	switch {
	case t.Kind() == reflect.Bool:
		f.kind = kindFlag
		f.codec = recordCodec{typ: typ, payload: emptyCodec{}}
		return f, nil
	case t.Kind() == reflect.Ptr:
		f.kind = kindOptional
		f.elemType = t.Elem()
	case t.Kind() == reflect.Slice && !isBytes(t) && !isCodec(t):
		f.kind = kindRepeated
		f.elemType = t.Elem()
	case optional:
		f.kind = kindOmitZero
		f.elemType = t
	default:
		f.kind = kindSingle
		f.elemType = t
	}

	payload, err := valueCodec(f.elemType)
	if err != nil {
		return nil, err
	}
	f.codec = recordCodec{typ: typ, payload: payload}
	return f, nil
}

func untaggedField(sf reflect.StructField) (*field, error) {
	f := &field{kind: kindSingle, elemType: sf.Type}
	switch sf.Type.Kind() {
	case reflect.Ptr:
		f.kind = kindOptional
		f.elemType = sf.Type.Elem()
	case reflect.Slice:
		if !isCodec(sf.Type) {
			f.kind = kindRepeated
			f.elemType = sf.Type.Elem()
		}
	}

	t := f.elemType
	typ, hasTyp, err := recordType(t)
	if err != nil {
		return nil, err
	}
	f.typ, f.hasTyp = typ, hasTyp

	switch {
	case isCodec(t):
		f.codec = encoderCodec{}
	case t.Kind() == reflect.Struct && hasTyp:
		f.codec = recordCodec{typ: typ, payload: structCodec{t: t}}
	default:
		return nil, errors.E("tlvstruct.field", errors.K.Invalid,
			"reason", "untagged field must be a record or implement tlv.Encoder and tlv.Decoder",
			"type", sf.Type.String())
	}
	if f.kind != kindSingle && !hasTyp {
		return nil, errors.E("tlvstruct.field", errors.K.Invalid,
			"reason", "optional and repeated untagged fields require a record type",
			"type", sf.Type.String())
	}
	return f, nil
}

// valueCodec returns the codec for the payload of a tagged field of the given type.
func valueCodec(t reflect.Type) (codec, error) {
	switch {
	case t == utcType:
		return utcCodec{}, nil
	case isCodec(t):
		return encoderCodec{}, nil
	case isBytes(t):
		return bytesCodec{}, nil
	}
	switch t.Kind() {
	case reflect.String:
		return stringCodec{}, nil
	case reflect.Uint8, reflect.Int8:
		return intCodec{width: 1}, nil
	case reflect.Uint16, reflect.Int16:
		return intCodec{width: 2}, nil
	case reflect.Uint32, reflect.Int32:
		return intCodec{width: 4}, nil
	case reflect.Uint64, reflect.Int64, reflect.Uint, reflect.Int:
		return intCodec{width: 8}, nil
	case reflect.Struct:
		return structCodec{t: t}, nil
	}
	return nil, errors.E("tlvstruct.valueCodec", errors.K.Invalid,
		"reason", "unsupported field type",
		"type", t.String())
}

func isBytes(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8
}

// isCodec returns true if pointers to t implement both halves of the tlv contract.
func isCodec(t reflect.Type) bool {
	pt := reflect.PtrTo(t)
	return pt.Implements(encoderType) && pt.Implements(decoderType)
}
