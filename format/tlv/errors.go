package tlv

import (
	"fmt"

	"github.com/eluv-io/errors-go"
)

var (
	// ErrUnexpectedEndOfStream is the cause of errors raised when fewer octets remain than a decode requires.
	ErrUnexpectedEndOfStream = errors.Str("unexpected end of stream")
	// ErrUnexpectedLength is the cause of errors raised when a numeric payload has none of the supported widths.
	ErrUnexpectedLength = errors.Str("unexpected length")
	// ErrRecordTooLarge is the cause of errors raised by readers when a record exceeds the configured maximum size.
	ErrRecordTooLarge = errors.Str("record too large")
)

// TypeMismatchError is the cause of errors raised when a decode encounters a record of another type than the one it
// wanted. It is a comparable value:
//
//	tm, ok := tlv.AsTypeMismatch(err)
//	if ok && tm == (tlv.TypeMismatchError{Expected: 33, Found: 127}) { ... }
type TypeMismatchError struct {
	Expected uint64
	Found    uint64
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("tlv type mismatch: found %d, expected %d", e.Found, e.Expected)
}

// IsTypeMismatch returns true if the given error is caused by a TypeMismatchError.
func IsTypeMismatch(err error) bool {
	_, ok := AsTypeMismatch(err)
	return ok
}

// AsTypeMismatch extracts the TypeMismatchError from the given error chain.
func AsTypeMismatch(err error) (TypeMismatchError, bool) {
	var tm TypeMismatchError
	if err == nil {
		return tm, false
	}
	ok := errors.As(err, &tm)
	return tm, ok
}

// IsUnexpectedEndOfStream returns true if the given error is caused by ErrUnexpectedEndOfStream.
func IsUnexpectedEndOfStream(err error) bool {
	return err != nil && errors.Is(err, ErrUnexpectedEndOfStream)
}

// IsUnexpectedLength returns true if the given error is caused by ErrUnexpectedLength.
func IsUnexpectedLength(err error) bool {
	return err != nil && errors.Is(err, ErrUnexpectedLength)
}

// IsRecordTooLarge returns true if the given error is caused by ErrRecordTooLarge.
func IsRecordTooLarge(err error) bool {
	return err != nil && errors.Is(err, ErrRecordTooLarge)
}

// IsIO returns true if the given error reports a failure of the underlying byte source rather than malformed data.
func IsIO(err error) bool {
	return err != nil && errors.IsKind(errors.K.IO, err)
}

func errEndOfStream(op string, need uint64, remaining int) error {
	return errors.NoTrace(op, errors.K.Invalid, ErrUnexpectedEndOfStream, "need", need, "remaining", remaining)
}

func errTypeMismatch(op string, expected, found uint64) error {
	return errors.NoTrace(op, errors.K.Invalid, TypeMismatchError{Expected: expected, Found: found})
}

func errLength(op string, length int) error {
	return errors.NoTrace(op, errors.K.Invalid, ErrUnexpectedLength, "length", length)
}
