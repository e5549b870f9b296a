package binpath

import (
	"encoding/json"
	"fmt"
)

type jsonElement struct {
	Kind       string  `json:"kind"`
	SlotOffset *uint16 `json:"slot_offset,omitempty"`
	ItemOffset *int16  `json:"item_offset,omitempty"`
	ItemSize   *uint16 `json:"item_size,omitempty"`
}

type jsonSlice struct {
	Beg uint16 `json:"beg"`
	End uint16 `json:"end"`
}

type jsonPath struct {
	Elements []jsonElement `json:"elements"`
	Leaf     string        `json:"leaf"`
	Slice    *jsonSlice    `json:"slice,omitempty"`
}

func (p BinaryPath) MarshalJSON() ([]byte, error) {
	out := jsonPath{Elements: make([]jsonElement, 0, len(p.elements)), Leaf: p.leaf.Type.String()}
	for i, e := range p.elements {
		switch v := e.(type) {
		case TupleElement:
			slot := v.SlotOffset
			out.Elements = append(out.Elements, jsonElement{Kind: "tuple", SlotOffset: &slot})
		case ArrayElement:
			off, size := v.ItemOffset, v.ItemSize
			out.Elements = append(out.Elements, jsonElement{Kind: "array", ItemOffset: &off, ItemSize: &size})
		case RefElement:
			out.Elements = append(out.Elements, jsonElement{Kind: "ref"})
		default:
			return nil, fmt.Errorf("binpath: marshal element %d: unsupported %T", i, e)
		}
	}
	if p.hasSlice {
		out.Slice = &jsonSlice{Beg: p.slice.Beg, End: p.slice.End}
	}
	return json.Marshal(out)
}

func (p *BinaryPath) UnmarshalJSON(data []byte) error {
	var in jsonPath
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	leaf, ok := ParseLeafType(in.Leaf)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLeafType, in.Leaf)
	}
	elements := make([]PathElement, 0, len(in.Elements))
	for i, e := range in.Elements {
		switch e.Kind {
		case "tuple":
			if e.SlotOffset == nil {
				return fmt.Errorf("binpath: element %d: tuple requires slot_offset", i)
			}
			elements = append(elements, TupleElement{SlotOffset: *e.SlotOffset})
		case "array":
			if e.ItemOffset == nil || e.ItemSize == nil {
				return fmt.Errorf("binpath: element %d: array requires item_offset and item_size", i)
			}
			elements = append(elements, ArrayElement{ItemOffset: *e.ItemOffset, ItemSize: *e.ItemSize})
		case "ref":
			elements = append(elements, RefElement{})
		default:
			return fmt.Errorf("%w: element %d kind %q", ErrUnknownTag, i, e.Kind)
		}
	}
	out := NewBinaryPath(PathLeaf{Type: leaf}, elements...)
	if in.Slice != nil {
		out = out.WithSlice(PathSlice{Beg: in.Slice.Beg, End: in.Slice.End})
	}
	*p = out
	return nil
}
