package binpath

import (
	"errors"
	"fmt"
	"io"

	"github.com/danmuck/binpath/internal/protocol/tlv"
)

// Limits constrains decode memory use.
type Limits struct {
	// MaxPathBytes caps the value length an envelope may declare. The
	// BINARY_PATH tag and length bytes are not counted.
	MaxPathBytes uint32
}

// Allow returns ErrPathTooLarge when an envelope declaring length value
// bytes exceeds the limit.
func (l Limits) Allow(length uint32) error {
	if length > l.MaxPathBytes {
		return fmt.Errorf("%w: %d > %d bytes", ErrPathTooLarge, length, l.MaxPathBytes)
	}
	return nil
}

func DefaultLimits() Limits {
	return Limits{MaxPathBytes: 4096}
}

// ReadPath reads the next BINARY_PATH envelope from r and decodes it. It
// returns io.EOF when r is exhausted before the first byte of an envelope.
// Offsets in decode errors are relative to the start of the envelope.
func (c Codec) ReadPath(r io.Reader, limits Limits) (BinaryPath, []byte, error) {
	head := make([]byte, 0, 10)
	head, err := readVarLen(r, head)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return BinaryPath{}, nil, io.EOF
		}
		return BinaryPath{}, nil, err
	}
	head, err = readVarLen(r, head)
	if err != nil {
		return BinaryPath{}, nil, unexpectedEOF(err, len(head))
	}

	h, err := tlv.NewCursor(head).ReadHeader(c.Strict)
	if err != nil {
		return BinaryPath{}, nil, err
	}
	if Tag(h.Tag) != TagBinaryPath {
		return BinaryPath{}, nil, tlv.Errorf(0, ErrUnknownTag, "expected %s, got %s", TagBinaryPath, Tag(h.Tag))
	}
	if err := limits.Allow(h.Length); err != nil {
		return BinaryPath{}, nil, err
	}

	raw := make([]byte, len(head)+int(h.Length))
	copy(raw, head)
	if _, err := io.ReadFull(r, raw[len(head):]); err != nil {
		return BinaryPath{}, nil, unexpectedEOF(err, len(head))
	}
	p, err := c.Unmarshal(raw)
	if err != nil {
		return BinaryPath{}, raw, err
	}
	return p, raw, nil
}

// WritePath encodes p and writes it to w.
func (c Codec) WritePath(w io.Writer, p BinaryPath) error {
	buf, err := c.Encode(p)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

// readVarLen copies one varlen field from r onto dst without interpreting it.
func readVarLen(r io.Reader, dst []byte) ([]byte, error) {
	var first [1]byte
	if _, err := io.ReadFull(r, first[:]); err != nil {
		return dst, err
	}
	dst = append(dst, first[0])
	if first[0] < 0x81 {
		return dst, nil
	}
	n := int(first[0] & 0x7F)
	if n > 4 {
		return dst, tlv.Errorf(len(dst)-1, ErrNotSupported, "%d length bytes", n)
	}
	more := make([]byte, n)
	if _, err := io.ReadFull(r, more); err != nil {
		return dst, unexpectedEOF(err, len(dst))
	}
	return append(dst, more...), nil
}

func unexpectedEOF(err error, offset int) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return tlv.Errorf(offset, ErrTruncatedBuffer, "stream ended")
	}
	return err
}
