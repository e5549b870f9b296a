package binpath

import "fmt"

// Tag identifies a record kind in the path grammar.
type Tag uint32

const (
	TagBinaryPath   Tag = 0x01
	TagTupleElement Tag = 0x02
	TagArrayElement Tag = 0x03
	TagRefElement   Tag = 0x04
	TagLeafElement  Tag = 0x05
	TagSliceElement Tag = 0x06
)

func (t Tag) String() string {
	switch t {
	case TagBinaryPath:
		return "binary_path"
	case TagTupleElement:
		return "tuple_element"
	case TagArrayElement:
		return "array_element"
	case TagRefElement:
		return "ref_element"
	case TagLeafElement:
		return "leaf_element"
	case TagSliceElement:
		return "slice_element"
	default:
		return fmt.Sprintf("tag(0x%02x)", uint32(t))
	}
}

// PathElement is one addressing step: TupleElement, ArrayElement or RefElement.
type PathElement interface {
	Tag() Tag
	isPathElement()
}

// TupleElement moves SlotOffset slots forward inside a tuple.
type TupleElement struct {
	SlotOffset uint16
}

// ArrayElement selects an array item. ItemOffset may be negative to reach
// data before the first item, such as the length prefix.
type ArrayElement struct {
	ItemOffset int16
	ItemSize   uint16
}

// RefElement dereferences the current slot.
type RefElement struct{}

func (TupleElement) Tag() Tag { return TagTupleElement }
func (ArrayElement) Tag() Tag { return TagArrayElement }
func (RefElement) Tag() Tag   { return TagRefElement }

func (TupleElement) isPathElement() {}
func (ArrayElement) isPathElement() {}
func (RefElement) isPathElement()   {}

// LeafType says how the addressed data is interpreted. The zero value is
// not a valid leaf type.
type LeafType uint8

const (
	LeafStatic LeafType = iota + 1
	LeafDynamic
	LeafArray
	LeafTuple
)

func (t LeafType) String() string {
	switch t {
	case LeafStatic:
		return "static"
	case LeafDynamic:
		return "dynamic"
	case LeafArray:
		return "array"
	case LeafTuple:
		return "tuple"
	default:
		return fmt.Sprintf("leaf(%d)", uint8(t))
	}
}

// ParseLeafType accepts the names produced by LeafType.String.
func ParseLeafType(name string) (LeafType, bool) {
	switch name {
	case "static":
		return LeafStatic, true
	case "dynamic":
		return LeafDynamic, true
	case "array":
		return LeafArray, true
	case "tuple":
		return LeafTuple, true
	default:
		return 0, false
	}
}

// Sliceable reports whether the leaf describes a length-prefixed region.
func (t LeafType) Sliceable() bool {
	return t == LeafDynamic || t == LeafArray
}

// PathLeaf terminates every path.
type PathLeaf struct {
	Type LeafType
}

// PathSlice restricts the leaf to [Beg, End).
type PathSlice struct {
	Beg uint16
	End uint16
}

// BinaryPath is an immutable sequence of elements, a leaf and an optional
// slice. Methods that change a path return a new value.
type BinaryPath struct {
	elements []PathElement
	leaf     PathLeaf
	slice    PathSlice
	hasSlice bool
}

// NewBinaryPath copies elements into a new path ending in leaf.
func NewBinaryPath(leaf PathLeaf, elements ...PathElement) BinaryPath {
	return BinaryPath{elements: cloneElements(elements), leaf: leaf}
}

func cloneElements(in []PathElement) []PathElement {
	if len(in) == 0 {
		return nil
	}
	out := make([]PathElement, len(in))
	copy(out, in)
	return out
}

func (p BinaryPath) Elements() []PathElement {
	return cloneElements(p.elements)
}

func (p BinaryPath) Len() int {
	return len(p.elements)
}

func (p BinaryPath) Element(i int) PathElement {
	return p.elements[i]
}

func (p BinaryPath) Leaf() PathLeaf {
	return p.leaf
}

func (p BinaryPath) Slice() (PathSlice, bool) {
	return p.slice, p.hasSlice
}

// Append returns a copy of p with more elements before the leaf.
func (p BinaryPath) Append(elements ...PathElement) BinaryPath {
	out := p
	out.elements = make([]PathElement, 0, len(p.elements)+len(elements))
	out.elements = append(out.elements, p.elements...)
	out.elements = append(out.elements, elements...)
	return out
}

func (p BinaryPath) WithLeaf(leaf PathLeaf) BinaryPath {
	out := p
	out.elements = cloneElements(p.elements)
	out.leaf = leaf
	return out
}

func (p BinaryPath) WithSlice(s PathSlice) BinaryPath {
	out := p
	out.elements = cloneElements(p.elements)
	out.slice = s
	out.hasSlice = true
	return out
}

func (p BinaryPath) WithoutSlice() BinaryPath {
	out := p
	out.elements = cloneElements(p.elements)
	out.slice = PathSlice{}
	out.hasSlice = false
	return out
}

// Equal reports whether p and q describe the same path.
func (p BinaryPath) Equal(q BinaryPath) bool {
	if len(p.elements) != len(q.elements) || p.leaf != q.leaf || p.hasSlice != q.hasSlice {
		return false
	}
	if p.hasSlice && p.slice != q.slice {
		return false
	}
	for i := range p.elements {
		if p.elements[i] != q.elements[i] {
			return false
		}
	}
	return true
}
