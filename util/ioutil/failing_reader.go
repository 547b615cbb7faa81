package ioutil

import (
	"io"

	"github.com/eluv-io/errors-go"
)

var (
	_ io.Reader = (*FailingReader)(nil)
	_ io.Closer = (*FailingReader)(nil)
)

// NewFailingReader wraps the given reader and fails once failAt bytes have been read. The returned failure can be
// provided via the optional error parameter, otherwise an error of kind errors.K.IO is returned.
func NewFailingReader(r io.Reader, failAt int64, err ...error) *FailingReader {
	fr := &FailingReader{
		Reader: r,
		failAt: failAt,
	}
	if len(err) > 0 {
		fr.err = err[0]
	}
	return fr
}

// FailingReader is a test utility that simulates a byte source breaking down in the middle of a stream.
type FailingReader struct {
	io.Reader
	failAt int64
	count  int64
	err    error
}

func (r *FailingReader) Read(p []byte) (int, error) {
	left := r.failAt - r.count
	if left <= 0 {
		return 0, r.failure()
	}
	if int64(len(p)) > left {
		p = p[:left]
	}
	n, err := r.Reader.Read(p)
	r.count += int64(n)
	if r.count >= r.failAt {
		return n, r.failure()
	}
	return n, err
}

// Count returns the number of bytes read so far.
func (r *FailingReader) Count() int64 {
	return r.count
}

func (r *FailingReader) failure() error {
	if r.err != nil {
		return r.err
	}
	return errors.E("FailingReader.Read", errors.K.IO, "reason", "simulated failure", "fail_at", r.failAt)
}

func (r *FailingReader) Close() error {
	if cl, ok := r.Reader.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}
