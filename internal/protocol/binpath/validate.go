package binpath

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// SlicePolicy decides what happens to a slice on a leaf that has no length prefix.
type SlicePolicy int

const (
	// SliceStrict rejects the path with ErrInvalidSliceContext.
	SliceStrict SlicePolicy = iota
	// SliceWarn accepts the path and logs a warning.
	SliceWarn
)

func (p SlicePolicy) String() string {
	if p == SliceWarn {
		return "warn"
	}
	return "strict"
}

// ParseSlicePolicy accepts "strict" and "warn".
func ParseSlicePolicy(raw string) (SlicePolicy, error) {
	switch raw {
	case "", "strict":
		return SliceStrict, nil
	case "warn":
		return SliceWarn, nil
	default:
		return SliceStrict, fmt.Errorf("binpath: unknown slice policy %q", raw)
	}
}

func checkElement(e PathElement) (string, error) {
	switch v := e.(type) {
	case TupleElement, RefElement:
		return "", nil
	case ArrayElement:
		if v.ItemSize == 0 {
			return "item_size is zero", ErrInvalidArrayElement
		}
		return "", nil
	default:
		return fmt.Sprintf("unsupported element %T", e), ErrUnknownTag
	}
}

func checkSliceBounds(s PathSlice) (string, error) {
	if s.Beg > s.End {
		return fmt.Sprintf("beg %d > end %d", s.Beg, s.End), ErrInvalidSlice
	}
	return "", nil
}

// checkSliceContext applies the slice policy. Under SliceWarn it never fails.
func (c Codec) checkSliceContext(leaf PathLeaf, s PathSlice) (string, error) {
	if leaf.Type.Sliceable() {
		return "", nil
	}
	detail := fmt.Sprintf("%s leaf cannot be sliced", leaf.Type)
	if c.Slices == SliceWarn {
		log.Warn().
			Str("leaf", leaf.Type.String()).
			Uint16("beg", s.Beg).
			Uint16("end", s.End).
			Msg("binpath: slice on non-sliceable leaf accepted")
		return "", nil
	}
	return detail, ErrInvalidSliceContext
}

// Validate applies the semantic rules to an in-memory path.
func (c Codec) Validate(p BinaryPath) error {
	for i, e := range p.elements {
		if detail, err := checkElement(e); err != nil {
			return ValidationError{Element: i, Err: err, Detail: detail}
		}
	}
	if _, ok := c.Leaves.Code(p.leaf.Type); !ok {
		return ValidationError{Element: PositionLeaf, Err: ErrUnknownLeafType, Detail: p.leaf.Type.String()}
	}
	if !p.hasSlice {
		return nil
	}
	if detail, err := checkSliceBounds(p.slice); err != nil {
		return ValidationError{Element: PositionSlice, Err: err, Detail: detail}
	}
	if detail, err := c.checkSliceContext(p.leaf, p.slice); err != nil {
		return ValidationError{Element: PositionSlice, Err: err, Detail: detail}
	}
	return nil
}

// Validate checks p with DefaultCodec.
func Validate(p BinaryPath) error {
	return DefaultCodec().Validate(p)
}
