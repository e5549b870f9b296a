package binpath

import (
	"fmt"
	"strconv"
	"strings"
)

var leafLetters = map[LeafType]byte{
	LeafStatic:  's',
	LeafDynamic: 'd',
	LeafArray:   'a',
	LeafTuple:   't',
}

// String renders p in path notation, e.g. "(1).[0:2](1)d{0:4}".
//
//	(n)        tuple element, slot offset n
//	[off:size] array element
//	.          ref element
//	s d a t    static, dynamic, array, tuple leaf
//	{beg:end}  slice
func (p BinaryPath) String() string {
	var b strings.Builder
	for _, e := range p.elements {
		switch v := e.(type) {
		case TupleElement:
			fmt.Fprintf(&b, "(%d)", v.SlotOffset)
		case ArrayElement:
			fmt.Fprintf(&b, "[%d:%d]", v.ItemOffset, v.ItemSize)
		case RefElement:
			b.WriteByte('.')
		default:
			b.WriteByte('?')
		}
	}
	if letter, ok := leafLetters[p.leaf.Type]; ok {
		b.WriteByte(letter)
	} else {
		b.WriteByte('?')
	}
	if p.hasSlice {
		fmt.Fprintf(&b, "{%d:%d}", p.slice.Beg, p.slice.End)
	}
	return b.String()
}

type notationScanner struct {
	src string
	pos int
}

func (s *notationScanner) fail(format string, args ...any) error {
	return fmt.Errorf("%w at %d: %s", ErrInvalidNotation, s.pos, fmt.Sprintf(format, args...))
}

// until returns the text up to the next stop byte and consumes the stop byte.
func (s *notationScanner) until(stop byte) (string, error) {
	i := strings.IndexByte(s.src[s.pos:], stop)
	if i < 0 {
		return "", s.fail("missing %q", stop)
	}
	out := s.src[s.pos : s.pos+i]
	s.pos += i + 1
	return out, nil
}

func (s *notationScanner) uint16(raw string) (uint16, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 16)
	if err != nil {
		return 0, s.fail("bad unsigned value %q", raw)
	}
	return uint16(v), nil
}

func (s *notationScanner) pair(raw string) (string, string, error) {
	left, right, ok := strings.Cut(raw, ":")
	if !ok {
		return "", "", s.fail("expected a:b, got %q", raw)
	}
	return left, right, nil
}

// ParseNotation parses the form produced by BinaryPath.String. The result is
// not validated; pass it through Codec.Validate or Encode.
func ParseNotation(src string) (BinaryPath, error) {
	s := &notationScanner{src: strings.Join(strings.Fields(src), "")}
	var elements []PathElement
	for s.pos < len(s.src) {
		ch := s.src[s.pos]
		s.pos++
		switch ch {
		case '(':
			raw, err := s.until(')')
			if err != nil {
				return BinaryPath{}, err
			}
			slot, err := s.uint16(raw)
			if err != nil {
				return BinaryPath{}, err
			}
			elements = append(elements, TupleElement{SlotOffset: slot})
		case '[':
			raw, err := s.until(']')
			if err != nil {
				return BinaryPath{}, err
			}
			left, right, err := s.pair(raw)
			if err != nil {
				return BinaryPath{}, err
			}
			off, err := strconv.ParseInt(left, 10, 16)
			if err != nil {
				return BinaryPath{}, s.fail("bad item offset %q", left)
			}
			size, err := s.uint16(right)
			if err != nil {
				return BinaryPath{}, err
			}
			elements = append(elements, ArrayElement{ItemOffset: int16(off), ItemSize: size})
		case '.':
			elements = append(elements, RefElement{})
		default:
			leaf, ok := leafFromLetter(ch)
			if !ok {
				s.pos--
				return BinaryPath{}, s.fail("unexpected %q", ch)
			}
			p := NewBinaryPath(PathLeaf{Type: leaf}, elements...)
			return parseSliceSuffix(s, p)
		}
	}
	return BinaryPath{}, s.fail("missing leaf")
}

func parseSliceSuffix(s *notationScanner, p BinaryPath) (BinaryPath, error) {
	if s.pos == len(s.src) {
		return p, nil
	}
	if s.src[s.pos] != '{' {
		return BinaryPath{}, s.fail("unexpected %q after leaf", s.src[s.pos])
	}
	s.pos++
	raw, err := s.until('}')
	if err != nil {
		return BinaryPath{}, err
	}
	left, right, err := s.pair(raw)
	if err != nil {
		return BinaryPath{}, err
	}
	beg, err := s.uint16(left)
	if err != nil {
		return BinaryPath{}, err
	}
	end, err := s.uint16(right)
	if err != nil {
		return BinaryPath{}, err
	}
	if s.pos != len(s.src) {
		return BinaryPath{}, s.fail("unexpected %q after slice", s.src[s.pos:])
	}
	return p.WithSlice(PathSlice{Beg: beg, End: end}), nil
}

func leafFromLetter(ch byte) (LeafType, bool) {
	for t, letter := range leafLetters {
		if letter == ch {
			return t, true
		}
	}
	return 0, false
}
