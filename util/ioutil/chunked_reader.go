package ioutil

import "io"

// NewChunkedReader wraps the given reader so that each Read returns at most chunk bytes. It simulates a network
// source delivering data in small segments.
func NewChunkedReader(r io.Reader, chunk int) *ChunkedReader {
	if chunk <= 0 {
		chunk = 1
	}
	return &ChunkedReader{r: r, chunk: chunk}
}

// ChunkedReader limits the size of individual reads. See NewChunkedReader.
type ChunkedReader struct {
	r     io.Reader
	chunk int
	reads int
}

func (c *ChunkedReader) Read(p []byte) (int, error) {
	if len(p) > c.chunk {
		p = p[:c.chunk]
	}
	c.reads++
	return c.r.Read(p)
}

// Reads returns the number of Read calls.
func (c *ChunkedReader) Reads() int {
	return c.reads
}
