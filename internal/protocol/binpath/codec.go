package binpath

import (
	"fmt"

	"github.com/danmuck/binpath/internal/protocol/tlv"
	"github.com/rs/zerolog/log"
)

// Codec holds the configuration shared by encode, decode and validation.
// Use DefaultCodec as a starting point; the zero value has no usable leaf codes.
type Codec struct {
	Leaves LeafCodes
	// Strict rejects non-minimal varlen tags and lengths. Decoding is only
	// byte-exact under Encode when Strict is set.
	Strict bool
	Slices SlicePolicy
}

func DefaultCodec() Codec {
	return Codec{
		Leaves: DefaultLeafCodes(),
		Strict: true,
		Slices: SliceStrict,
	}
}

// Decode reads one BINARY_PATH envelope starting at off. It returns the
// validated path and the offset just past the envelope.
func (c Codec) Decode(buf []byte, off int) (BinaryPath, int, error) {
	cur, err := tlv.CursorAt(buf, off)
	if err != nil {
		return BinaryPath{}, off, err
	}
	p, err := c.decode(cur)
	if err != nil {
		log.Debug().Err(err).Int("start", off).Str("kind", Kind(err)).Msg("binpath: decode failed")
		return BinaryPath{}, off, err
	}
	return p, cur.Offset(), nil
}

// Unmarshal decodes buf as exactly one path with nothing after it.
func (c Codec) Unmarshal(buf []byte) (BinaryPath, error) {
	p, end, err := c.Decode(buf, 0)
	if err != nil {
		return BinaryPath{}, err
	}
	if end != len(buf) {
		return BinaryPath{}, tlv.Errorf(end, ErrUnexpectedTrailingBytes, "%d bytes after envelope", len(buf)-end)
	}
	return p, nil
}

func (c Codec) decode(cur *tlv.Cursor) (BinaryPath, error) {
	h, body, err := cur.ReadRecordCursor(c.Strict)
	if err != nil {
		return BinaryPath{}, err
	}
	if Tag(h.Tag) != TagBinaryPath {
		return BinaryPath{}, tlv.Errorf(h.Offset, ErrUnknownTag, "expected %s, got %s", TagBinaryPath, Tag(h.Tag))
	}

	var p BinaryPath
	for haveLeaf := false; !haveLeaf; {
		if body.Done() {
			return BinaryPath{}, tlv.Errorf(body.Offset(), ErrMissingLeaf, "%d elements without a leaf", len(p.elements))
		}
		tag, err := body.PeekTag(c.Strict)
		if err != nil {
			return BinaryPath{}, err
		}
		switch Tag(tag) {
		case TagTupleElement, TagArrayElement, TagRefElement:
			rec, err := c.readRecord(body)
			if err != nil {
				return BinaryPath{}, err
			}
			p.elements = append(p.elements, rec.Element)
		case TagLeafElement:
			rec, err := c.readRecord(body)
			if err != nil {
				return BinaryPath{}, err
			}
			p.leaf = rec.Leaf
			haveLeaf = true
		default:
			return BinaryPath{}, tlv.Errorf(body.Offset(), ErrUnknownTag, "%s where an element or leaf is expected", Tag(tag))
		}
	}

	if body.Done() {
		return p, nil
	}
	sliceAt := body.Offset()
	if tag, err := body.PeekTag(c.Strict); err != nil || Tag(tag) != TagSliceElement {
		return BinaryPath{}, tlv.Errorf(sliceAt, ErrUnexpectedTrailingBytes, "%d bytes after leaf", body.Remaining())
	}
	rec, err := c.readRecord(body)
	if err != nil {
		return BinaryPath{}, err
	}
	if detail, err := c.checkSliceContext(p.leaf, rec.Slice); err != nil {
		return BinaryPath{}, tlv.Errorf(sliceAt, err, "%s", detail)
	}
	if !body.Done() {
		return BinaryPath{}, tlv.Errorf(body.Offset(), ErrUnexpectedTrailingBytes, "%d bytes after slice", body.Remaining())
	}
	p.slice = rec.Slice
	p.hasSlice = true
	return p, nil
}

// Encode validates p and returns its exact wire bytes.
func (c Codec) Encode(p BinaryPath) ([]byte, error) {
	return c.Append(nil, p)
}

// Append validates p and appends its wire bytes to dst.
func (c Codec) Append(dst []byte, p BinaryPath) ([]byte, error) {
	if err := c.Validate(p); err != nil {
		return dst, err
	}
	inner := make([]byte, 0, 6*len(p.elements)+9)
	var err error
	for i, e := range p.elements {
		if inner, err = AppendElement(inner, e); err != nil {
			return dst, fmt.Errorf("binpath: encode element %d: %w", i, err)
		}
	}
	if inner, err = c.AppendLeaf(inner, p.leaf); err != nil {
		return dst, err
	}
	if p.hasSlice {
		if inner, err = AppendSlice(inner, p.slice); err != nil {
			return dst, err
		}
	}
	out, err := tlv.AppendRecord(dst, uint32(TagBinaryPath), inner)
	if err != nil {
		return dst, fmt.Errorf("binpath: encode envelope of %d bytes: %w", len(inner), err)
	}
	return out, nil
}

// Decode reads one path at off with DefaultCodec.
func Decode(buf []byte, off int) (BinaryPath, int, error) {
	return DefaultCodec().Decode(buf, off)
}

// Unmarshal decodes exactly one path with DefaultCodec.
func Unmarshal(buf []byte) (BinaryPath, error) {
	return DefaultCodec().Unmarshal(buf)
}

// Encode encodes p with DefaultCodec.
func Encode(p BinaryPath) ([]byte, error) {
	return DefaultCodec().Encode(p)
}
