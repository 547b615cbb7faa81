// Package tlvstruct derives TLV encoders and decoders for Go structs at runtime.
//
// A record struct declares its type number either by implementing tlv.Typed or with a tag on a blank field:
//
//	type Interest struct {
//		_           struct{}                `tlv:"5"`
//		Name        Name                    // a nested record struct
//		CanBePrefix bool                    `tlv:"33"`
//		Nonce       tlv.Fixed4              `tlv:"10,optional"`
//		Lifetime    *tlv.NonNegativeInteger `tlv:"12"`
//		Hints       []string                `tlv:"30"`
//	}
//
// Tagged fields are wrapped in a record of the tagged type. Supported field types are []byte, string, bool
// (presence of an empty record), fixed-width integers, utc.UTC (milliseconds since the epoch), structs (their fields
// form the payload) and any type implementing both tlv.Encoder and tlv.Decoder through a pointer. A pointer makes a
// field optional, a slice makes it repeated. The "optional" tag option makes a non-pointer field optional, omitting
// it when it holds the zero value.
//
// Untagged fields must be record structs, or types implementing tlv.Encoder and tlv.Decoder. Pointers and slices of
// those are optional and repeated fields as above.
//
// Fields are encoded in declaration order. Decoding checks the record header, isolates exactly the declared payload
// and decodes the fields from it in order. Before each field of known type, unexpected non-critical records are
// skipped and unexpected critical records rejected (see tlv.FindType). Optional fields are absent when the next
// record has another type or the payload is exhausted. Repeated fields collect records until the next record has
// another type.
//
// Unexported fields and fields tagged `tlv:"-"` are ignored.
package tlvstruct
