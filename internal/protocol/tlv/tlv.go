package tlv

// Record is one decoded tag-length-value record. Value aliases the decoded
// buffer; Offset is the absolute position of the tag byte.
type Record struct {
	Tag    uint32
	Value  []byte
	Offset int
}

// Header describes the tag and length prefix of a record.
type Header struct {
	Tag       uint32
	Length    uint32
	Offset    int
	ValueFrom int
}

// ReadHeader reads a record's tag and length without touching its value.
func (c *Cursor) ReadHeader(strict bool) (Header, error) {
	start := c.pos
	tag, err := c.VarLen(strict)
	if err != nil {
		return Header{}, err
	}
	length, err := c.VarLen(strict)
	if err != nil {
		c.pos = start
		return Header{}, err
	}
	return Header{Tag: tag, Length: length, Offset: start, ValueFrom: c.pos}, nil
}

// PeekTag decodes the next tag without consuming anything.
func (c *Cursor) PeekTag(strict bool) (uint32, error) {
	start := c.pos
	tag, err := c.VarLen(strict)
	c.pos = start
	return tag, err
}

// ReadRecord reads tag, length and exactly length value bytes.
func (c *Cursor) ReadRecord(strict bool) (Record, error) {
	h, err := c.ReadHeader(strict)
	if err != nil {
		return Record{}, err
	}
	if uint64(h.Length) > uint64(c.Remaining()) {
		c.pos = h.Offset
		return Record{}, Errorf(h.ValueFrom, ErrTruncatedBuffer,
			"tag 0x%02x declares %d value bytes, have %d", h.Tag, h.Length, c.end-h.ValueFrom)
	}
	value, _ := c.Next(int(h.Length))
	return Record{Tag: h.Tag, Value: value, Offset: h.Offset}, nil
}

// ReadRecordCursor reads a record header and returns a cursor bounded to its value.
func (c *Cursor) ReadRecordCursor(strict bool) (Header, *Cursor, error) {
	h, err := c.ReadHeader(strict)
	if err != nil {
		return Header{}, nil, err
	}
	if uint64(h.Length) > uint64(c.Remaining()) {
		c.pos = h.Offset
		return Header{}, nil, Errorf(h.ValueFrom, ErrTruncatedBuffer,
			"tag 0x%02x declares %d value bytes, have %d", h.Tag, h.Length, c.end-h.ValueFrom)
	}
	sub, _ := c.Sub(int(h.Length))
	return h, sub, nil
}

// SizeOfRecord returns the encoded width of a record holding valueLen bytes.
func SizeOfRecord(tag uint32, valueLen int) (int, error) {
	if valueLen < 0 || valueLen > maxEncodeable {
		return 0, ErrNotSupported
	}
	ts, err := SizeOfVarLen(tag)
	if err != nil {
		return 0, err
	}
	ls, _ := SizeOfVarLen(uint32(valueLen))
	return ts + ls + valueLen, nil
}

// AppendRecord appends tag || length || value to dst.
func AppendRecord(dst []byte, tag uint32, value []byte) ([]byte, error) {
	if len(value) > maxEncodeable {
		return dst, ErrNotSupported
	}
	out, err := AppendVarLen(dst, tag)
	if err != nil {
		return dst, err
	}
	out, _ = AppendVarLen(out, uint32(len(value)))
	return append(out, value...), nil
}
