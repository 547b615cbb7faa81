package tlv

// NewCursor creates a cursor over the given buffer. The cursor borrows the buffer: values decoded from it may alias
// the buffer's storage.
func NewCursor(b []byte) *Cursor {
	return &Cursor{buf: b}
}

// Cursor is a view over an octet buffer that tracks how much of it has been consumed. Decoders advance the cursor
// past the octets they use. A Cursor is not safe for concurrent use.
type Cursor struct {
	buf []byte
}

// Len returns the number of remaining octets.
func (c *Cursor) Len() int {
	return len(c.buf)
}

// Bytes returns the remaining octets without consuming them.
func (c *Cursor) Bytes() []byte {
	return c.buf
}

// Clone returns an independent duplicate of the cursor at the same position. Advancing the duplicate leaves the
// original untouched until the duplicate is committed with Commit.
func (c *Cursor) Clone() *Cursor {
	return &Cursor{buf: c.buf}
}

// Commit advances the cursor to the position of dup, which must be a duplicate created from this cursor (or from
// one of its duplicates) with Clone.
func (c *Cursor) Commit(dup *Cursor) {
	consumed := len(c.buf) - len(dup.buf)
	if consumed <= 0 {
		return
	}
	c.buf = c.buf[consumed:]
}

// Next consumes and returns the next n octets. The returned slice aliases the underlying buffer.
func (c *Cursor) Next(n int) ([]byte, error) {
	if n < 0 || n > len(c.buf) {
		return nil, errEndOfStream("Cursor.Next", uint64(n), len(c.buf))
	}
	res := c.buf[:n:n]
	c.buf = c.buf[n:]
	return res, nil
}

// ReadByte consumes and returns the next octet.
func (c *Cursor) ReadByte() (byte, error) {
	if len(c.buf) == 0 {
		return 0, errEndOfStream("Cursor.ReadByte", 1, 0)
	}
	b := c.buf[0]
	c.buf = c.buf[1:]
	return b, nil
}

// Skip consumes n octets.
func (c *Cursor) Skip(n uint64) error {
	if n > uint64(len(c.buf)) {
		return errEndOfStream("Cursor.Skip", n, len(c.buf))
	}
	c.buf = c.buf[n:]
	return nil
}

// Limit splits off the next n octets into an isolated cursor and advances this cursor past them. Decoding from the
// returned cursor can never run past those n octets.
func (c *Cursor) Limit(n uint64) (*Cursor, error) {
	if n > uint64(len(c.buf)) {
		return nil, errEndOfStream("Cursor.Limit", n, len(c.buf))
	}
	sub := &Cursor{buf: c.buf[:n:n]}
	c.buf = c.buf[n:]
	return sub, nil
}
