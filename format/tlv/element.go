package tlv

// Element is a record of any type with an uninterpreted payload. It is used to carry unknown records through a
// decode/encode cycle and to inspect buffers whose layout is not known in advance.
type Element struct {
	Type  uint64
	Value []byte
}

func (e Element) TlvType() uint64 {
	return e.Type
}

func (e Element) PayloadSize() int {
	return len(e.Value)
}

// Critical returns whether the element's type is critical.
func (e Element) Critical() bool {
	return IsCritical(e.Type)
}

func (e Element) Encode() []byte {
	buf := make([]byte, 0, e.Size())
	buf = AppendHeader(buf, e.Type, len(e.Value))
	return append(buf, e.Value...)
}

func (e Element) Size() int {
	return RecordSize(e.Type, len(e.Value))
}

// Decode reads one record of whatever type is present. The value aliases the decoded buffer.
func (e *Element) Decode(cur *Cursor) error {
	typ, payload, err := DecodeAnyHeader(cur)
	if err != nil {
		return err
	}
	e.Type = typ
	e.Value = payload.Bytes()
	return nil
}

// Elements are consecutive records.
type Elements []Element

func (es Elements) Encode() []byte {
	buf := make([]byte, 0, es.Size())
	for _, e := range es {
		buf = AppendHeader(buf, e.Type, len(e.Value))
		buf = append(buf, e.Value...)
	}
	return buf
}

func (es Elements) Size() int {
	size := 0
	for _, e := range es {
		size += e.Size()
	}
	return size
}

// Decode reads records until the cursor is exhausted.
func (es *Elements) Decode(cur *Cursor) error {
	var res Elements
	for cur.Len() > 0 {
		var e Element
		if err := e.Decode(cur); err != nil {
			return err
		}
		res = append(res, e)
	}
	*es = res
	return nil
}

// ParseElements splits the given buffer into its top-level records.
func ParseElements(b []byte) (Elements, error) {
	var es Elements
	err := es.Decode(NewCursor(b))
	return es, err
}
