package byteutil

// NewRingBuffer creates a ring buffer that holds up to size unread bytes.
func NewRingBuffer(size int) *RingBuffer {
	if size < 1 {
		size = 1
	}
	return &RingBuffer{
		size: size,
		buf:  make([]byte, 2*size),
	}
}

// RingBuffer is a byte queue of fixed capacity. The backing array is twice the capacity: unread bytes are moved back
// to the start of the array once the read offset has passed its first half, so the unread bytes always form a single
// contiguous slice. This lets Peek hand out views without copying.
//
// A RingBuffer is not safe for concurrent use.
type RingBuffer struct {
	size int
	buf  []byte
	off  int // read offset
	n    int // number of unread bytes
}

// Write appends as many of the given bytes as fit and returns their number. It returns 0 if the buffer is full.
func (r *RingBuffer) Write(bts []byte) int {
	n := min(len(bts), r.Free())
	if n == 0 {
		return 0
	}
	if r.off >= r.size {
		copy(r.buf, r.buf[r.off:r.off+r.n])
		r.off = 0
	}
	copy(r.buf[r.off+r.n:], bts[:n])
	r.n += n
	return n
}

// Read moves up to len(bts) unread bytes into bts and returns their number.
func (r *RingBuffer) Read(bts []byte) int {
	n := copy(bts, r.buf[r.off:r.off+r.n])
	r.consume(n)
	return n
}

// Peek returns up to n unread bytes without consuming them. The returned slice is only valid until the next call to
// Write, Read, Discard or Reset.
func (r *RingBuffer) Peek(n int) []byte {
	n = max(0, min(n, r.n))
	return r.buf[r.off : r.off+n : r.off+n]
}

// Discard drops up to n unread bytes and returns the number dropped.
func (r *RingBuffer) Discard(n int) int {
	n = max(0, min(n, r.n))
	r.consume(n)
	return n
}

// Reset drops all unread bytes.
func (r *RingBuffer) Reset() {
	r.off = 0
	r.n = 0
}

func (r *RingBuffer) consume(n int) {
	r.off += n
	r.n -= n
	if r.n == 0 {
		r.off = 0
	}
}

// Len returns the number of unread bytes.
func (r *RingBuffer) Len() int {
	return r.n
}

// Free returns the number of bytes that can be written before the buffer is full.
func (r *RingBuffer) Free() int {
	return r.size - r.n
}

// Cap returns the capacity of the buffer.
func (r *RingBuffer) Cap() int {
	return r.size
}
