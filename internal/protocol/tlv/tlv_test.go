package tlv

import (
	"bytes"
	"errors"
	"testing"
)

func TestVarLenCanonicalLengthLaw(t *testing.T) {
	for v := uint32(0); v <= 0xFFFF; v++ {
		out, err := AppendVarLen(nil, v)
		if err != nil {
			t.Fatalf("encode %d: %v", v, err)
		}
		switch {
		case v <= 0x7F:
			if len(out) != 1 || out[0] != byte(v) {
				t.Fatalf("value %d: expected single byte, got % x", v, out)
			}
		case v <= 0xFF:
			if len(out) != 2 || out[0] != 0x81 {
				t.Fatalf("value %d: expected 0x81 form, got % x", v, out)
			}
		default:
			if len(out) != 3 || out[0] != 0x82 {
				t.Fatalf("value %d: expected 0x82 form, got % x", v, out)
			}
		}
		size, err := SizeOfVarLen(v)
		if err != nil || size != len(out) {
			t.Fatalf("value %d: size=%d err=%v, encoded %d bytes", v, size, err, len(out))
		}
		got, err := NewCursor(out).VarLen(true)
		if err != nil {
			t.Fatalf("decode %d: %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip: expected %d, got %d", v, got)
		}
	}
}

func TestVarLenEncodeAboveDeviceRangeNotSupported(t *testing.T) {
	_, err := AppendVarLen(nil, 0x10000)
	if !errors.Is(err, ErrNotSupported) {
		t.Fatalf("expected ErrNotSupported, got %v", err)
	}
}

func TestVarLenDecodeGeneralForm(t *testing.T) {
	v, err := NewCursor([]byte{0x83, 0x01, 0x00, 0x00}).VarLen(true)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v != 0x10000 {
		t.Fatalf("expected 0x10000, got 0x%x", v)
	}
}

func TestVarLenReservedForm(t *testing.T) {
	c, err := CursorAt([]byte{0xAA, 0x80, 0x01}, 1)
	if err != nil {
		t.Fatalf("cursor: %v", err)
	}
	_, err = c.VarLen(false)
	if !errors.Is(err, ErrReservedForm) {
		t.Fatalf("expected ErrReservedForm, got %v", err)
	}
	if off, ok := OffsetOf(err); !ok || off != 1 {
		t.Fatalf("expected offset 1, got %d (%v)", off, ok)
	}
}

func TestVarLenStrictRejectsNonCanonical(t *testing.T) {
	cases := [][]byte{
		{0x81, 0x05},
		{0x82, 0x00, 0xFF},
		{0x83, 0x00, 0xFF, 0xFF},
		{0x84, 0x00, 0x01, 0x00, 0x00},
	}
	for _, in := range cases {
		_, err := NewCursor(in).VarLen(true)
		if !errors.Is(err, ErrNonCanonical) {
			t.Fatalf("% x: expected ErrNonCanonical, got %v", in, err)
		}
		if _, err := NewCursor(in).VarLen(false); err != nil {
			t.Fatalf("% x: lenient decode failed: %v", in, err)
		}
	}
}

func TestVarLenTooManyLengthBytes(t *testing.T) {
	_, err := NewCursor([]byte{0x85, 1, 2, 3, 4, 5}).VarLen(false)
	if !errors.Is(err, ErrNotSupported) {
		t.Fatalf("expected ErrNotSupported, got %v", err)
	}
}

func TestVarLenTruncated(t *testing.T) {
	for _, in := range [][]byte{{}, {0x81}, {0x82, 0x01}} {
		_, err := NewCursor(in).VarLen(true)
		if !errors.Is(err, ErrTruncatedBuffer) {
			t.Fatalf("% x: expected ErrTruncatedBuffer, got %v", in, err)
		}
	}
}

func TestPrimitivesBigEndian(t *testing.T) {
	var buf []byte
	buf = AppendU8(buf, 0x7F)
	buf = AppendU16(buf, 0x1234)
	buf = AppendU32(buf, 0xDEADBEEF)
	buf = AppendI16(buf, -2)
	want := []byte{0x7F, 0x12, 0x34, 0xDE, 0xAD, 0xBE, 0xEF, 0xFF, 0xFE}
	if !bytes.Equal(buf, want) {
		t.Fatalf("expected % x, got % x", want, buf)
	}

	c := NewCursor(buf)
	u8, _ := c.U8()
	u16, _ := c.U16()
	u32, _ := c.U32()
	i16, err := c.I16()
	if err != nil {
		t.Fatalf("decode primitives: %v", err)
	}
	if u8 != 0x7F || u16 != 0x1234 || u32 != 0xDEADBEEF || i16 != -2 {
		t.Fatalf("primitive mismatch: %x %x %x %d", u8, u16, u32, i16)
	}
	if !c.Done() {
		t.Fatalf("expected cursor exhausted, %d bytes left", c.Remaining())
	}
}

func TestPrimitiveTruncatedReportsOffset(t *testing.T) {
	c, err := CursorAt([]byte{0x00, 0x01, 0x02}, 2)
	if err != nil {
		t.Fatalf("cursor: %v", err)
	}
	_, err = c.U16()
	if !errors.Is(err, ErrTruncatedBuffer) {
		t.Fatalf("expected ErrTruncatedBuffer, got %v", err)
	}
	if off, _ := OffsetOf(err); off != 2 {
		t.Fatalf("expected offset 2, got %d", off)
	}
}

func TestCursorAtBounds(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03}
	for _, off := range []int{0, 2, 3} {
		c, err := CursorAt(buf, off)
		if err != nil {
			t.Fatalf("offset %d: expected cursor, got %v", off, err)
		}
		if c.Offset() != off {
			t.Fatalf("offset %d: cursor starts at %d", off, c.Offset())
		}
	}
	for _, off := range []int{-1, -3, 4} {
		_, err := CursorAt(buf, off)
		if !errors.Is(err, ErrInvalidOffset) {
			t.Fatalf("offset %d: expected ErrInvalidOffset, got %v", off, err)
		}
		if got, _ := OffsetOf(err); got != off {
			t.Fatalf("offset %d: expected error offset %d, got %d", off, off, got)
		}
	}
}

func TestRecordRoundTrip(t *testing.T) {
	out, err := AppendRecord(nil, 0x02, []byte{0x00, 0x10})
	if err != nil {
		t.Fatalf("append record: %v", err)
	}
	if !bytes.Equal(out, []byte{0x02, 0x02, 0x00, 0x10}) {
		t.Fatalf("unexpected record bytes % x", out)
	}
	out, _ = AppendRecord(out, 0x04, nil)
	if !bytes.Equal(out[4:], []byte{0x04, 0x00}) {
		t.Fatalf("unexpected zero-length record bytes % x", out[4:])
	}

	c := NewCursor(out)
	r1, err := c.ReadRecord(true)
	if err != nil {
		t.Fatalf("read first record: %v", err)
	}
	if r1.Tag != 0x02 || !bytes.Equal(r1.Value, []byte{0x00, 0x10}) || r1.Offset != 0 {
		t.Fatalf("first record mismatch: %+v", r1)
	}
	r2, err := c.ReadRecord(true)
	if err != nil {
		t.Fatalf("read second record: %v", err)
	}
	if r2.Tag != 0x04 || len(r2.Value) != 0 || r2.Offset != 4 {
		t.Fatalf("second record mismatch: %+v", r2)
	}
	if !c.Done() {
		t.Fatalf("expected cursor exhausted")
	}
}

func TestReadRecordTruncatedValueIsDeterministic(t *testing.T) {
	// tag=0x03, len=4, value only 2 bytes
	c := NewCursor([]byte{0x03, 0x04, 0xFF, 0xFF})
	_, err := c.ReadRecord(true)
	if !errors.Is(err, ErrTruncatedBuffer) {
		t.Fatalf("expected ErrTruncatedBuffer, got %v", err)
	}
	if off, _ := OffsetOf(err); off != 2 {
		t.Fatalf("expected offset 2, got %d", off)
	}
	if c.Offset() != 0 {
		t.Fatalf("expected cursor rewound to 0, got %d", c.Offset())
	}
}

func TestSubCursorKeepsAbsoluteOffsets(t *testing.T) {
	buf := []byte{0x01, 0x03, 0x05, 0x01, 0x00}
	c := NewCursor(buf)
	h, sub, err := c.ReadRecordCursor(true)
	if err != nil {
		t.Fatalf("read record cursor: %v", err)
	}
	if h.Tag != 0x01 || h.Length != 3 || h.ValueFrom != 2 {
		t.Fatalf("header mismatch: %+v", h)
	}
	if sub.Offset() != 2 || sub.Remaining() != 3 {
		t.Fatalf("sub cursor at %d with %d remaining", sub.Offset(), sub.Remaining())
	}
	tag, err := sub.PeekTag(true)
	if err != nil || tag != 0x05 || sub.Offset() != 2 {
		t.Fatalf("peek: tag=%d err=%v off=%d", tag, err, sub.Offset())
	}
}

func TestSizeOfRecord(t *testing.T) {
	n, err := SizeOfRecord(0x01, 0x80)
	if err != nil {
		t.Fatalf("size: %v", err)
	}
	if n != 1+2+0x80 {
		t.Fatalf("expected %d, got %d", 1+2+0x80, n)
	}
}
