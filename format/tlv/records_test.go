package tlv

// Hand-written records in the shape produced by a record generator: they check their own header, isolate their
// payload and decode their fields from it in order.

type component struct {
	name Bytes
}

func (c component) TlvType() uint64  { return 8 }
func (c component) PayloadSize() int { return c.name.Size() }
func (c component) Encode() []byte   { return EncodeRecord(c.TlvType(), c.name) }
func (c component) Size() int        { return RecordSize(c.TlvType(), c.PayloadSize()) }

func (c *component) Decode(cur *Cursor) error {
	payload, err := DecodeHeader(cur, c.TlvType())
	if err != nil {
		return err
	}
	return c.name.Decode(payload)
}

type name struct {
	components Sequence[component, *component]
}

func (n name) TlvType() uint64  { return 7 }
func (n name) PayloadSize() int { return n.components.Size() }
func (n name) Encode() []byte   { return EncodeRecord(n.TlvType(), n.components) }
func (n name) Size() int        { return RecordSize(n.TlvType(), n.PayloadSize()) }

func (n *name) Decode(cur *Cursor) error {
	payload, err := DecodeHeader(cur, n.TlvType())
	if err != nil {
		return err
	}
	return n.components.Decode(payload)
}

type canBePrefix struct{}

func (canBePrefix) TlvType() uint64  { return 33 }
func (canBePrefix) PayloadSize() int { return 0 }
func (c canBePrefix) Encode() []byte { return EncodeRecord(c.TlvType()) }
func (c canBePrefix) Size() int      { return RecordSize(c.TlvType(), 0) }

func (c *canBePrefix) Decode(cur *Cursor) error {
	_, err := DecodeHeader(cur, c.TlvType())
	return err
}

type vecPartial struct {
	components  Sequence[component, *component]
	canBePrefix canBePrefix
}

func (v vecPartial) TlvType() uint64 { return 129 }
func (v vecPartial) PayloadSize() int {
	return FieldsSize(v.components, v.canBePrefix)
}
func (v vecPartial) Encode() []byte { return EncodeRecord(v.TlvType(), v.components, v.canBePrefix) }
func (v vecPartial) Size() int      { return RecordSize(v.TlvType(), v.PayloadSize()) }

func (v *vecPartial) Decode(cur *Cursor) error {
	payload, err := DecodeHeader(cur, v.TlvType())
	if err != nil {
		return err
	}
	if err = v.components.Decode(payload); err != nil {
		return err
	}
	if err = FindRecord(payload, v.canBePrefix); err != nil {
		return err
	}
	return v.canBePrefix.Decode(payload)
}

type hasOption struct {
	component   Optional[component, *component]
	canBePrefix canBePrefix
}

func (h hasOption) TlvType() uint64 { return 143 }
func (h hasOption) PayloadSize() int {
	return FieldsSize(h.component, h.canBePrefix)
}
func (h hasOption) Encode() []byte { return EncodeRecord(h.TlvType(), h.component, h.canBePrefix) }
func (h hasOption) Size() int      { return RecordSize(h.TlvType(), h.PayloadSize()) }

func (h *hasOption) Decode(cur *Cursor) error {
	payload, err := DecodeHeader(cur, h.TlvType())
	if err != nil {
		return err
	}
	if err = h.component.Decode(payload); err != nil {
		return err
	}
	if err = FindRecord(payload, h.canBePrefix); err != nil {
		return err
	}
	return h.canBePrefix.Decode(payload)
}

var (
	_ Record = component{}
	_ Record = name{}
	_ Record = vecPartial{}
	_ Record = hasOption{}
)
