package binpath

import (
	"errors"
	"fmt"

	"github.com/danmuck/binpath/internal/protocol/tlv"
)

var (
	ErrTruncatedBuffer = tlv.ErrTruncatedBuffer
	ErrReservedForm    = tlv.ErrReservedForm
	ErrNonCanonical    = tlv.ErrNonCanonical
	ErrNotSupported    = tlv.ErrNotSupported
	ErrInvalidOffset   = tlv.ErrInvalidOffset

	ErrUnknownTag              = errors.New("binpath: unknown tag")
	ErrMissingLeaf             = errors.New("binpath: missing leaf")
	ErrUnexpectedTrailingBytes = errors.New("binpath: unexpected trailing bytes")
	ErrUnknownLeafType         = errors.New("binpath: unknown leaf type")
	ErrInvalidSliceContext     = errors.New("binpath: slice not allowed for leaf type")
	ErrInvalidArrayElement     = errors.New("binpath: invalid array element")
	ErrInvalidSlice            = errors.New("binpath: invalid slice bounds")
	ErrInvalidLeafCodes        = errors.New("binpath: invalid leaf code table")
	ErrInvalidNotation         = errors.New("binpath: invalid notation")
	ErrPathTooLarge            = errors.New("binpath: path exceeds limit")
)

// DecodeError is returned by every decode failure and carries the byte offset.
type DecodeError = tlv.DecodeError

// Positions used by ValidationError for parts that are not elements.
const (
	PositionLeaf  = -1
	PositionSlice = -2
)

// ValidationError reports a semantic failure on an in-memory path.
type ValidationError struct {
	Element int
	Err     error
	Detail  string
}

func (e ValidationError) Error() string {
	var where string
	switch e.Element {
	case PositionLeaf:
		where = "leaf"
	case PositionSlice:
		where = "slice"
	default:
		where = fmt.Sprintf("element %d", e.Element)
	}
	if e.Detail == "" {
		return fmt.Sprintf("%v (%s)", e.Err, where)
	}
	return fmt.Sprintf("%v (%s): %s", e.Err, where, e.Detail)
}

func (e ValidationError) Unwrap() error {
	return e.Err
}

var kinds = []struct {
	err  error
	name string
}{
	{ErrTruncatedBuffer, "truncated_buffer"},
	{ErrReservedForm, "reserved_form"},
	{ErrNonCanonical, "non_canonical"},
	{ErrNotSupported, "not_supported"},
	{ErrInvalidOffset, "invalid_offset"},
	{ErrUnknownTag, "unknown_tag"},
	{ErrMissingLeaf, "missing_leaf"},
	{ErrUnexpectedTrailingBytes, "unexpected_trailing_bytes"},
	{ErrUnknownLeafType, "unknown_leaf_type"},
	{ErrInvalidSliceContext, "invalid_slice_context"},
	{ErrInvalidArrayElement, "invalid_array_element"},
	{ErrInvalidSlice, "invalid_slice"},
	{ErrInvalidLeafCodes, "invalid_leaf_codes"},
	{ErrInvalidNotation, "invalid_notation"},
	{ErrPathTooLarge, "path_too_large"},
}

// Kind names the error class of err for logs, metrics and API responses.
func Kind(err error) string {
	if err == nil {
		return "ok"
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "internal"
}
