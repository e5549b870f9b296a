package binpath

import "fmt"

// LeafCodes maps leaf types to their on-wire byte. The device-assigned
// values are not fixed by the grammar, so the table is supplied as data.
type LeafCodes struct {
	Static  uint8 `toml:"static" json:"static"`
	Dynamic uint8 `toml:"dynamic" json:"dynamic"`
	Array   uint8 `toml:"array" json:"array"`
	Tuple   uint8 `toml:"tuple" json:"tuple"`
}

func DefaultLeafCodes() LeafCodes {
	return LeafCodes{Static: 0x00, Dynamic: 0x01, Array: 0x02, Tuple: 0x03}
}

func (lc LeafCodes) entries() [4]struct {
	t    LeafType
	code uint8
} {
	return [4]struct {
		t    LeafType
		code uint8
	}{
		{LeafStatic, lc.Static},
		{LeafDynamic, lc.Dynamic},
		{LeafArray, lc.Array},
		{LeafTuple, lc.Tuple},
	}
}

// Code returns the wire byte for t.
func (lc LeafCodes) Code(t LeafType) (uint8, bool) {
	for _, e := range lc.entries() {
		if e.t == t {
			return e.code, true
		}
	}
	return 0, false
}

// Type returns the leaf type carried by a wire byte.
func (lc LeafCodes) Type(code uint8) (LeafType, bool) {
	for _, e := range lc.entries() {
		if e.code == code {
			return e.t, true
		}
	}
	return 0, false
}

// Validate requires the four codes to be distinct.
func (lc LeafCodes) Validate() error {
	seen := make(map[uint8]LeafType, 4)
	for _, e := range lc.entries() {
		if prev, ok := seen[e.code]; ok {
			return fmt.Errorf("%w: %s and %s share code 0x%02x", ErrInvalidLeafCodes, prev, e.t, e.code)
		}
		seen[e.code] = e.t
	}
	return nil
}
