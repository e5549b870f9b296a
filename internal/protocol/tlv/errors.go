package tlv

import (
	"errors"
	"fmt"
)

var (
	ErrTruncatedBuffer = errors.New("tlv: truncated buffer")
	ErrReservedForm    = errors.New("tlv: reserved length form 0x80")
	ErrNonCanonical    = errors.New("tlv: non-canonical varlen encoding")
	ErrNotSupported    = errors.New("tlv: varlen form not supported")
	ErrInvalidOffset   = errors.New("tlv: start offset out of range")
)

// DecodeError carries the absolute byte offset at which decoding failed.
type DecodeError struct {
	Offset int
	Err    error
	Detail string
}

func (e *DecodeError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v at offset %d", e.Err, e.Offset)
	}
	return fmt.Sprintf("%v at offset %d: %s", e.Err, e.Offset, e.Detail)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Errorf builds a DecodeError for err at offset.
func Errorf(offset int, err error, format string, args ...any) *DecodeError {
	return &DecodeError{Offset: offset, Err: err, Detail: fmt.Sprintf(format, args...)}
}

// OffsetOf returns the failure offset recorded in err, if any.
func OffsetOf(err error) (int, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Offset, true
	}
	return 0, false
}
