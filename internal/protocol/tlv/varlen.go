package tlv

import "math/bits"

// Varlen first-byte markers. 0x80 alone (zero length-of-length) is reserved.
const (
	shortFormMax  = 0x7F
	longFormFlag  = 0x80
	longForm1     = 0x81
	longForm2     = 0x82
	maxLongBytes  = 4
	maxEncodeable = 0xFFFF
)

// canonicalSize is the minimal encoded width of v, general form included.
func canonicalSize(v uint32) int {
	switch {
	case v <= shortFormMax:
		return 1
	case v <= 0xFF:
		return 2
	case v <= 0xFFFF:
		return 3
	default:
		return 1 + (bits.Len32(v)+7)/8
	}
}

// SizeOfVarLen returns the encoded width of v. Values that need the general
// form are not emitted.
func SizeOfVarLen(v uint32) (int, error) {
	if v > maxEncodeable {
		return 0, ErrNotSupported
	}
	return canonicalSize(v), nil
}

// AppendVarLen appends the minimal encoding of v to dst.
func AppendVarLen(dst []byte, v uint32) ([]byte, error) {
	switch {
	case v <= shortFormMax:
		return append(dst, byte(v)), nil
	case v <= 0xFF:
		return append(dst, longForm1, byte(v)), nil
	case v <= maxEncodeable:
		return AppendU16(append(dst, longForm2), uint16(v)), nil
	default:
		return dst, ErrNotSupported
	}
}

// VarLen reads one DER-style variable-length integer. In strict mode any
// form wider than canonicalSize is rejected with ErrNonCanonical.
func (c *Cursor) VarLen(strict bool) (uint32, error) {
	start := c.pos
	first, err := c.U8()
	if err != nil {
		return 0, err
	}
	if first <= shortFormMax {
		return uint32(first), nil
	}
	n := int(first &^ longFormFlag)
	if n == 0 {
		c.pos = start
		return 0, Errorf(start, ErrReservedForm, "first byte 0x%02x", first)
	}
	if n > maxLongBytes {
		c.pos = start
		return 0, Errorf(start, ErrNotSupported, "%d length bytes", n)
	}
	raw, err := c.Next(n)
	if err != nil {
		c.pos = start
		return 0, Errorf(start, ErrTruncatedBuffer, "varlen needs %d bytes, have %d", n+1, c.end-start)
	}
	var v uint32
	for _, b := range raw {
		v = v<<8 | uint32(b)
	}
	if strict && (raw[0] == 0 || 1+n != canonicalSize(v)) {
		c.pos = start
		return 0, Errorf(start, ErrNonCanonical, "value %d encoded in %d bytes, want %d", v, 1+n, canonicalSize(v))
	}
	return v, nil
}
