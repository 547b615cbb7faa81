package tlv

import (
	"math"

	"github.com/eluv-io/errors-go"
	elog "github.com/eluv-io/log-go"
	"go.uber.org/atomic"

	wire "github.com/eluv-io/tlv-go/format/tlv"
	"github.com/eluv-io/tlv-go/util/byteutil"
)

var log = elog.Get("/eluvio/tlv/transport")

type options struct {
	valid       func(typ uint64) bool
	skipInvalid bool
}

type Option func(*options)

// OptValid restricts the record types accepted by the packetizer to the given types.
func OptValid(valid ...uint64) Option {
	return func(o *options) {
		o.valid = func(typ uint64) bool {
			for _, v := range valid {
				if v == typ {
					return true
				}
			}
			return false
		}
	}
}

// OptSkipInvalid makes the packetizer silently drop records of non-critical types rejected by OptValid instead of
// failing. Records of critical types are still reported.
func OptSkipInvalid() Option {
	return func(o *options) {
		o.skipInvalid = true
	}
}

// NewPacketizer creates a packetizer that splits a byte stream into complete TLV records. maxRecordSize is the
// maximum size of a record, header included. Larger records are reported with an error and dropped. A non-positive
// maxRecordSize selects tlv.DefaultMaxRecordSize.
func NewPacketizer(maxRecordSize int, opts ...Option) *Packetizer {
	if maxRecordSize <= 0 {
		maxRecordSize = wire.DefaultMaxRecordSize
	}
	o := options{
		valid: func(typ uint64) bool {
			return true
		},
	}
	for _, opt := range opts {
		opt(&o)
	}

	// the buffer must hold a complete header even if the record limit is smaller
	bufCap := max(maxRecordSize, wire.MaxHeaderSize)
	return &Packetizer{
		options:       o,
		maxRecordSize: maxRecordSize,
		buf:           byteutil.NewRingBuffer(bufCap),
		pkt:           make([]byte, bufCap),
		stats:         &stats{},
	}
}

// Packetizer splits a stream of TLV records pushed with Write into whole records returned by Next. It never blocks:
// Next returns nil when more data is needed.
type Packetizer struct {
	options       options
	maxRecordSize int

	buf       *byteutil.RingBuffer // internal ring buffer for packetization
	pkt       []byte               // the next record to be returned
	remaining []byte               // written bytes that did not fit into the ring buffer yet

	// parse state
	haveHeader bool
	nextSize   int    // size of the next record, header included
	discard    uint64 // number of bytes still to be dropped from a rejected record

	dropped  int // bytes dropped since the last record returned
	consumed int // bytes consumed to produce the last record returned

	stats *stats
}

// Write feeds the given bytes to the packetizer. The bytes are copied if they can't be buffered right away.
func (p *Packetizer) Write(bts []byte) {
	p.stats.written.Add(uint64(len(bts)))
	if len(p.remaining) == 0 {
		n := p.buf.Write(bts)
		bts = bts[n:]
	}
	if len(bts) > 0 {
		p.remaining = append(p.remaining, bts...)
		p.fill()
	}
}

// fill moves pending bytes into the ring buffer.
func (p *Packetizer) fill() {
	if len(p.remaining) == 0 {
		return
	}
	n := p.buf.Write(p.remaining)
	p.remaining = p.remaining[n:]
	if len(p.remaining) == 0 {
		p.remaining = nil
	}
}

// Next returns the next complete record, header included, or nil if more data is needed. The returned slice is
// only valid until the next call to Next.
//
// A record of an invalid type or exceeding the maximum record size is reported with an error (kind
// errors.K.Invalid) and dropped: subsequent calls resume with the record that follows it.
func (p *Packetizer) Next() ([]byte, error) {
	for {
		p.fill()

		if p.discard > 0 {
			n := p.buf.Discard(int(min(p.discard, uint64(p.buf.Len()))))
			p.discard -= uint64(n)
			p.dropped += n
			p.stats.dropped.Add(uint64(n))
			if p.discard > 0 {
				if p.buf.Len() == 0 && len(p.remaining) == 0 {
					return nil, nil
				}
				continue
			}
		}

		if !p.haveHeader {
			hdr := p.buf.Peek(wire.MaxHeaderSize)
			cur := wire.NewCursor(hdr)
			typ, err := wire.DecodeVarNum(cur)
			if err != nil {
				// truncated header
				return nil, nil
			}
			length, err := wire.DecodeVarNum(cur)
			if err != nil {
				return nil, nil
			}
			hdrSize := len(hdr) - cur.Len()

			if !p.options.valid(typ) {
				p.drop(hdrSize, length)
				if p.options.skipInvalid && !wire.IsCritical(typ) {
					p.stats.skipped.Inc()
					log.Debug("skipping record", "type", typ, "length", length)
					continue
				}
				p.stats.rejected.Inc()
				return nil, errors.NoTrace("Packetizer.Next", errors.K.Invalid,
					"reason", "invalid TLV type",
					"type", typ,
					"length", length)
			}
			if length > uint64(p.maxRecordSize) || uint64(hdrSize)+length > uint64(p.maxRecordSize) {
				p.drop(hdrSize, length)
				p.stats.rejected.Inc()
				log.Debug("record too large", "type", typ, "length", length, "max", p.maxRecordSize)
				return nil, errors.NoTrace("Packetizer.Next", errors.K.Invalid, wire.ErrRecordTooLarge,
					"type", typ,
					"length", length,
					"max_record_size", p.maxRecordSize)
			}
			p.nextSize = hdrSize + int(length)
			p.haveHeader = true
		}

		if p.buf.Len() < p.nextSize {
			return nil, nil
		}

		read := p.buf.Read(p.pkt[:p.nextSize])
		if read != p.nextSize {
			panic(errors.E("Packetizer.Next", errors.K.Invalid,
				"reason", "buffer read invariant violation",
				"expected", p.nextSize,
				"actual", read))
		}
		p.haveHeader = false
		p.consumed = p.dropped + read
		p.dropped = 0
		p.stats.records.Inc()
		p.stats.bytes.Add(uint64(read))
		return p.pkt[:read], nil
	}
}

// drop starts discarding a rejected record. The length is untrusted: a total size that does not fit 64 bits saturates,
// which discards the rest of the stream.
func (p *Packetizer) drop(hdrSize int, length uint64) {
	p.haveHeader = false
	if length > math.MaxUint64-uint64(hdrSize) {
		p.discard = math.MaxUint64
		return
	}
	p.discard = uint64(hdrSize) + length
}

// TargetRecordSize returns the size of the record currently being assembled, or 0 if its header has not been
// parsed yet.
func (p *Packetizer) TargetRecordSize() int {
	if !p.haveHeader {
		return 0
	}
	return p.nextSize
}

// Consumed returns the number of bytes consumed to produce the last record returned by Next, including dropped
// records that preceded it. Only call after Next() returns a non-nil record.
func (p *Packetizer) Consumed() int {
	return p.consumed
}

// Buffered returns the number of bytes written but not yet consumed.
func (p *Packetizer) Buffered() int {
	return p.buf.Len() + len(p.remaining)
}

// Stats returns a snapshot of the packetizer's counters. It may be called concurrently with Write and Next.
func (p *Packetizer) Stats() Stats {
	return p.stats.snapshot()
}

// Stats are the counters of a Packetizer.
type Stats struct {
	Written  uint64 `json:"written"`  // bytes written
	Records  uint64 `json:"records"`  // records returned
	Bytes    uint64 `json:"bytes"`    // bytes of records returned
	Skipped  uint64 `json:"skipped"`  // records dropped silently
	Rejected uint64 `json:"rejected"` // records dropped with an error
	Dropped  uint64 `json:"dropped"`  // bytes of dropped records
}

type stats struct {
	written  atomic.Uint64
	records  atomic.Uint64
	bytes    atomic.Uint64
	skipped  atomic.Uint64
	rejected atomic.Uint64
	dropped  atomic.Uint64
}

func (s *stats) snapshot() Stats {
	return Stats{
		Written:  s.written.Load(),
		Records:  s.records.Load(),
		Bytes:    s.bytes.Load(),
		Skipped:  s.skipped.Load(),
		Rejected: s.rejected.Load(),
		Dropped:  s.dropped.Load(),
	}
}
