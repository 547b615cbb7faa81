// Package tlv implements the Type-Length-Value codec core used by Named Data Networking packets.
//
// Every record on the wire is a (type, length, value) triple. Type and length are VarNums, a variable-width unsigned
// integer encoding with four fixed widths (1, 3, 5 or 9 octets). Types below 32 and odd types are "critical": a
// decoder that encounters an unexpected critical record must fail, while unexpected non-critical records may be
// skipped.
//
// The package provides
//   - VarNum encoding and decoding
//   - the criticality rule (IsCritical)
//   - the Encoder/Decoder contract and the Cursor it decodes from
//   - container instantiations: Bytes, fixed-size arrays, fixed-width integers, Unit, NonNegativeInteger,
//     Sequence (repeated fields) and Optional
//   - the scan-ahead locator (FindType)
//   - a streaming reader that assembles exactly one record from an io.Reader (ReadRecord)
//
// Per-record encode/decode bodies are not part of this package. They are either hand-written with the Record helpers
// (EncodeRecord, DecodeHeader) or derived at runtime by package tlvstruct.
//
// Decoding never panics on malformed input: truncated or adversarial buffers yield errors whose causes are
// ErrUnexpectedEndOfStream, ErrUnexpectedLength or a TypeMismatchError.
//
// The streaming reader adds ErrRecordTooLarge and failures of the byte source (kind errors.K.IO). ReadRecord,
// ReadRecordBytes and ReadElement return a bare io.EOF if the source ends before the first octet of a record, so
// callers can read consecutive records until io.EOF.
package tlv
