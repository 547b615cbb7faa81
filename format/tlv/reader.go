package tlv

import (
	"io"

	"github.com/eluv-io/errors-go"
	elog "github.com/eluv-io/log-go"
)

var log = elog.Get("/eluvio/tlv")

const (
	// DefaultMaxRecordSize is the default limit for records assembled by a Reader, header included.
	DefaultMaxRecordSize = 8800
	// DefaultMaxEmptyReads is the default number of consecutive reads returning no data and no error after which a
	// Reader gives up.
	DefaultMaxEmptyReads = 100
)

type readerOptions struct {
	maxRecordSize uint64
	maxEmptyReads int
}

// ReaderOption configures a Reader.
type ReaderOption func(*readerOptions)

// OptMaxRecordSize limits the size of records a Reader will assemble. The length field of a record is untrusted
// input: records exceeding the limit are rejected before any payload is read or allocated.
func OptMaxRecordSize(n int) ReaderOption {
	return func(o *readerOptions) {
		if n > 0 {
			o.maxRecordSize = uint64(n)
		}
	}
}

// OptMaxEmptyReads sets the number of consecutive reads without progress after which the source is considered
// exhausted.
func OptMaxEmptyReads(n int) ReaderOption {
	return func(o *readerOptions) {
		if n > 0 {
			o.maxEmptyReads = n
		}
	}
}

// TypedDecoder is a record that can decode itself.
type TypedDecoder interface {
	Typed
	Decoder
}

// NewReader creates a Reader that reads whole records from the given source.
func NewReader(src io.Reader, opts ...ReaderOption) *Reader {
	o := readerOptions{
		maxRecordSize: DefaultMaxRecordSize,
		maxEmptyReads: DefaultMaxEmptyReads,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Reader{
		src:  src,
		opts: o,
	}
}

// Reader reads exactly one complete record at a time from a byte source of unknown total length. It never reads
// beyond the end of the current record, so consecutive records can be read from the same source.
//
// Failures of the source are reported with kind errors.K.IO. A source that ends (or stops making progress) before a
// record is complete yields ErrUnexpectedEndOfStream. If the source is exhausted before the first octet of a record,
// io.EOF is returned unchanged.
//
// Reads block as long as the source blocks; timeouts and cancellation are the source's concern. A Reader is not safe
// for concurrent use.
type Reader struct {
	src   io.Reader
	opts  readerOptions
	probe [MaxHeaderSize]byte
}

// ReadRecord reads one record of dst's type and decodes it into dst.
func (r *Reader) ReadRecord(dst TypedDecoder) error {
	bts, err := r.read("tlv.ReadRecord", dst.TlvType(), false)
	if err != nil {
		return err
	}
	return dst.Decode(NewCursor(bts))
}

// ReadRecordBytes reads one record of the given type and returns its complete encoding, header included.
func (r *Reader) ReadRecordBytes(typ uint64) ([]byte, error) {
	return r.read("tlv.ReadRecordBytes", typ, false)
}

// ReadElement reads one record of any type.
func (r *Reader) ReadElement() (Element, error) {
	var e Element
	bts, err := r.read("tlv.ReadElement", 0, true)
	if err != nil {
		return e, err
	}
	err = e.Decode(NewCursor(bts))
	return e, err
}

func (r *Reader) read(op string, typ uint64, anyType bool) ([]byte, error) {
	e := errors.Template(op)

	probe := r.probe[:0]
	probe, found, err := r.readVarNum(probe)
	if err != nil {
		if err == io.EOF && len(probe) == 0 {
			return nil, io.EOF
		}
		return nil, r.sourceErr(e, err, len(probe))
	}
	if !anyType && found != typ {
		log.Debug("record type mismatch", "op", op, "expected", typ, "found", found)
		return nil, e(errors.K.Invalid, TypeMismatchError{Expected: typ, Found: found})
	}

	probe, length, err := r.readVarNum(probe)
	if err != nil {
		return nil, r.sourceErr(e, err, len(probe))
	}
	hdrLen := len(probe)
	if length > r.opts.maxRecordSize || uint64(hdrLen)+length > r.opts.maxRecordSize {
		log.Debug("record too large", "op", op, "type", found, "length", length, "max", r.opts.maxRecordSize)
		return nil, e(errors.K.Invalid, ErrRecordTooLarge,
			"type", found,
			"length", length,
			"max_record_size", r.opts.maxRecordSize)
	}

	buf := make([]byte, hdrLen+int(length))
	copy(buf, probe)
	n, err := r.fill(buf[hdrLen:])
	if err != nil {
		if log.IsDebug() {
			log.Debug("short record", "op", op, "type", found, "length", length, "read", n, "error", err)
		}
		return nil, r.sourceErr(e, err, hdrLen+n, "type", found, "length", length)
	}
	return buf, nil
}

// readVarNum reads a VarNum octet by octet group, appending the raw octets to probe. It reads the marker octet first
// and then exactly the number of octets the marker demands, so it never consumes octets beyond the VarNum.
func (r *Reader) readVarNum(probe []byte) ([]byte, uint64, error) {
	start := len(probe)
	n, err := r.fill(probe[start : start+1])
	probe = probe[:start+n]
	if err != nil {
		return probe, 0, err
	}
	width := 0
	switch probe[start] {
	case 0xFD:
		width = 2
	case 0xFE:
		width = 4
	case 0xFF:
		width = 8
	}
	if width > 0 {
		n, err = r.fill(probe[start+1 : start+1+width])
		probe = probe[:start+1+n]
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return probe, 0, err
		}
	}
	v, err := DecodeVarNum(NewCursor(probe[start:]))
	return probe, v, err
}

// fill reads exactly len(buf) octets unless the source fails, ends or stops making progress. It returns the number
// of octets read.
func (r *Reader) fill(buf []byte) (int, error) {
	n, empty := 0, 0
	for n < len(buf) {
		nn, err := r.src.Read(buf[n:])
		n += nn
		if n >= len(buf) {
			return n, nil
		}
		if err != nil {
			if err == io.EOF && n > 0 {
				err = io.ErrUnexpectedEOF
			}
			return n, err
		}
		if nn > 0 {
			empty = 0
			continue
		}
		empty++
		if empty >= r.opts.maxEmptyReads {
			return n, io.ErrNoProgress
		}
	}
	return n, nil
}

func (r *Reader) sourceErr(e errors.TemplateFn, err error, read int, fields ...interface{}) error {
	if IsUnexpectedEndOfStream(err) {
		return err
	}
	fields = append(fields, "read", read)
	switch err {
	case io.EOF, io.ErrUnexpectedEOF:
		return e(append([]interface{}{errors.K.Invalid, ErrUnexpectedEndOfStream}, fields...)...)
	case io.ErrNoProgress:
		fields = append(fields, "reason", "no progress")
		return e(append([]interface{}{errors.K.Invalid, ErrUnexpectedEndOfStream}, fields...)...)
	}
	return e(append([]interface{}{errors.K.IO, err}, fields...)...)
}

// ReadRecord reads one record of dst's type from src and decodes it into dst. See Reader.
func ReadRecord(src io.Reader, dst TypedDecoder, opts ...ReaderOption) error {
	return NewReader(src, opts...).ReadRecord(dst)
}

// ReadRecordBytes reads one record of the given type from src and returns its complete encoding. See Reader.
func ReadRecordBytes(src io.Reader, typ uint64, opts ...ReaderOption) ([]byte, error) {
	return NewReader(src, opts...).ReadRecordBytes(typ)
}
