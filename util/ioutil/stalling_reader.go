package ioutil

import "io"

// NewStallingReader wraps the given reader and, once the wrapped reader is exhausted, returns (0, nil) on every
// subsequent Read instead of io.EOF. It is used to verify that consumers do not mistake empty reads for progress.
func NewStallingReader(r io.Reader) *StallingReader {
	return &StallingReader{r: r}
}

// StallingReader never reports the end of its data. See NewStallingReader.
type StallingReader struct {
	r      io.Reader
	done   bool
	stalls int
}

func (s *StallingReader) Read(p []byte) (int, error) {
	if !s.done {
		n, err := s.r.Read(p)
		if err == io.EOF {
			s.done = true
			err = nil
		}
		if n > 0 || err != nil {
			return n, err
		}
	}
	s.stalls++
	return 0, nil
}

// Stalls returns the number of reads that returned no data.
func (s *StallingReader) Stalls() int {
	return s.stalls
}
