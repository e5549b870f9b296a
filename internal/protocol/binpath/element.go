package binpath

import (
	"fmt"

	"github.com/danmuck/binpath/internal/protocol/tlv"
)

// Record is one decoded path record. Only the field matching Tag is set.
type Record struct {
	Tag     Tag
	Offset  int
	Element PathElement
	Leaf    PathLeaf
	Slice   PathSlice
}

// DecodeRecord decodes the single element, leaf or slice record at off and
// returns the offset just past it.
func (c Codec) DecodeRecord(buf []byte, off int) (Record, int, error) {
	cur, err := tlv.CursorAt(buf, off)
	if err != nil {
		return Record{}, off, err
	}
	rec, err := c.readRecord(cur)
	if err != nil {
		return Record{}, off, err
	}
	return rec, cur.Offset(), nil
}

func (c Codec) readRecord(cur *tlv.Cursor) (Record, error) {
	h, val, err := cur.ReadRecordCursor(c.Strict)
	if err != nil {
		return Record{}, err
	}
	rec := Record{Tag: Tag(h.Tag), Offset: h.Offset}
	switch rec.Tag {
	case TagTupleElement:
		slot, err := val.U16()
		if err != nil {
			return Record{}, err
		}
		rec.Element = TupleElement{SlotOffset: slot}
	case TagArrayElement:
		offset, err := val.I16()
		if err != nil {
			return Record{}, err
		}
		size, err := val.U16()
		if err != nil {
			return Record{}, err
		}
		rec.Element = ArrayElement{ItemOffset: offset, ItemSize: size}
		if detail, err := checkElement(rec.Element); err != nil {
			return Record{}, tlv.Errorf(h.Offset, err, "%s", detail)
		}
	case TagRefElement:
		rec.Element = RefElement{}
	case TagLeafElement:
		codeAt := val.Offset()
		code, err := val.U8()
		if err != nil {
			return Record{}, err
		}
		leafType, ok := c.Leaves.Type(code)
		if !ok {
			return Record{}, tlv.Errorf(codeAt, ErrUnknownLeafType, "code 0x%02x", code)
		}
		rec.Leaf = PathLeaf{Type: leafType}
	case TagSliceElement:
		beg, err := val.U16()
		if err != nil {
			return Record{}, err
		}
		end, err := val.U16()
		if err != nil {
			return Record{}, err
		}
		rec.Slice = PathSlice{Beg: beg, End: end}
		if detail, err := checkSliceBounds(rec.Slice); err != nil {
			return Record{}, tlv.Errorf(h.Offset, err, "%s", detail)
		}
	default:
		return Record{}, tlv.Errorf(h.Offset, ErrUnknownTag, "%s", rec.Tag)
	}
	if !val.Done() {
		return Record{}, tlv.Errorf(val.Offset(), ErrUnexpectedTrailingBytes,
			"%s value has %d surplus bytes", rec.Tag, val.Remaining())
	}
	return rec, nil
}

// AppendElement appends the TLV record for e.
func AppendElement(dst []byte, e PathElement) ([]byte, error) {
	var value []byte
	switch v := e.(type) {
	case TupleElement:
		value = tlv.AppendU16(make([]byte, 0, 2), v.SlotOffset)
	case ArrayElement:
		value = tlv.AppendI16(make([]byte, 0, 4), v.ItemOffset)
		value = tlv.AppendU16(value, v.ItemSize)
	case RefElement:
	default:
		return dst, fmt.Errorf("%w: unsupported element %T", ErrUnknownTag, e)
	}
	return tlv.AppendRecord(dst, uint32(e.Tag()), value)
}

// AppendLeaf appends the leaf record using the codec's leaf codes.
func (c Codec) AppendLeaf(dst []byte, leaf PathLeaf) ([]byte, error) {
	code, ok := c.Leaves.Code(leaf.Type)
	if !ok {
		return dst, fmt.Errorf("%w: %s", ErrUnknownLeafType, leaf.Type)
	}
	return tlv.AppendRecord(dst, uint32(TagLeafElement), []byte{code})
}

// AppendSlice appends the slice record.
func AppendSlice(dst []byte, s PathSlice) ([]byte, error) {
	value := tlv.AppendU16(make([]byte, 0, 4), s.Beg)
	value = tlv.AppendU16(value, s.End)
	return tlv.AppendRecord(dst, uint32(TagSliceElement), value)
}
