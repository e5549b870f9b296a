package tlv

// Cursor reads forward through buf[pos:end]. Offsets reported by a cursor
// are always absolute positions in buf, including for sub-cursors.
type Cursor struct {
	buf []byte
	pos int
	end int
}

// NewCursor starts a cursor at the beginning of buf.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf, end: len(buf)}
}

// CursorAt starts a cursor at off covering the rest of buf. off may equal
// len(buf); anything outside [0, len(buf)] is an ErrInvalidOffset.
func CursorAt(buf []byte, off int) (*Cursor, error) {
	if off < 0 || off > len(buf) {
		return nil, Errorf(off, ErrInvalidOffset, "start %d outside buffer of %d bytes", off, len(buf))
	}
	return &Cursor{buf: buf, pos: off, end: len(buf)}, nil
}

func (c *Cursor) Offset() int {
	return c.pos
}

func (c *Cursor) Remaining() int {
	return c.end - c.pos
}

func (c *Cursor) Done() bool {
	return c.pos >= c.end
}

// Peek returns the next byte without consuming it.
func (c *Cursor) Peek() (byte, error) {
	if c.Remaining() < 1 {
		return 0, Errorf(c.pos, ErrTruncatedBuffer, "need 1 byte, have 0")
	}
	return c.buf[c.pos], nil
}

// Next consumes n bytes and returns them as a subslice of the underlying buffer.
func (c *Cursor) Next(n int) ([]byte, error) {
	if n < 0 || c.Remaining() < n {
		return nil, Errorf(c.pos, ErrTruncatedBuffer, "need %d bytes, have %d", n, c.Remaining())
	}
	out := c.buf[c.pos : c.pos+n]
	c.pos += n
	return out, nil
}

// Sub consumes n bytes and returns a cursor bounded to them.
func (c *Cursor) Sub(n int) (*Cursor, error) {
	start := c.pos
	if _, err := c.Next(n); err != nil {
		return nil, err
	}
	return &Cursor{buf: c.buf, pos: start, end: start + n}, nil
}
