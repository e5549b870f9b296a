package pathsvc

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/danmuck/binpath/internal/observability"
	"github.com/danmuck/binpath/internal/protocol/binpath"
	"github.com/danmuck/binpath/internal/protocol/tlv"
)

var ErrInvalidHex = errors.New("pathsvc: invalid hex input")

// ErrorBody is the wire form of a codec failure.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Offset  *int   `json:"offset,omitempty"`
	Element *int   `json:"element,omitempty"`
	Message string `json:"message"`
}

// NewErrorBody classifies err for API and CLI output.
func NewErrorBody(err error) *ErrorBody {
	if err == nil {
		return nil
	}
	body := &ErrorBody{Kind: binpath.Kind(err), Message: err.Error()}
	if errors.Is(err, ErrInvalidHex) {
		body.Kind = "invalid_hex"
	}
	var de *binpath.DecodeError
	if errors.As(err, &de) {
		off := de.Offset
		body.Offset = &off
	}
	var ve binpath.ValidationError
	if errors.As(err, &ve) {
		el := ve.Element
		body.Element = &el
	}
	return body
}

// Result is the outcome of processing one path. Exactly one of Path or Error is set.
type Result struct {
	Index    int                 `json:"index"`
	Hex      string              `json:"hex,omitempty"`
	Path     *binpath.BinaryPath `json:"path,omitempty"`
	Notation string              `json:"notation,omitempty"`
	Error    *ErrorBody          `json:"error,omitempty"`
}

func (r Result) OK() bool {
	return r.Error == nil
}

// Processor applies a configured codec to inputs and records metrics for
// every operation. It is safe for concurrent use.
type Processor struct {
	Codec  binpath.Codec
	Limits binpath.Limits
}

func NewProcessor(codec binpath.Codec, limits binpath.Limits) *Processor {
	return &Processor{Codec: codec, Limits: limits}
}

// ParseHex accepts an optional 0x prefix and surrounding whitespace.
func ParseHex(raw string) ([]byte, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	buf, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	return buf, nil
}

// DecodeBytes decodes buf as exactly one path. The envelope's declared
// length is checked against Limits before any element is decoded; a header
// that does not parse is left for Unmarshal to report.
func (p *Processor) DecodeBytes(buf []byte) (binpath.BinaryPath, error) {
	if h, err := tlv.NewCursor(buf).ReadHeader(p.Codec.Strict); err == nil {
		if err := p.Limits.Allow(h.Length); err != nil {
			observability.RecordCodec(observability.OpDecode, 0, err)
			return binpath.BinaryPath{}, err
		}
	}
	path, err := p.Codec.Unmarshal(buf)
	observability.RecordCodec(observability.OpDecode, len(buf), err)
	return path, err
}

// ReadNext reads one envelope from r. It returns io.EOF untouched when r is
// exhausted; every other outcome is recorded as a decode.
func (p *Processor) ReadNext(r io.Reader) (binpath.BinaryPath, []byte, error) {
	path, raw, err := p.Codec.ReadPath(r, p.Limits)
	if errors.Is(err, io.EOF) {
		return path, raw, err
	}
	observability.RecordCodec(observability.OpDecode, len(raw), err)
	return path, raw, err
}

func (p *Processor) DecodeHex(raw string) (binpath.BinaryPath, error) {
	buf, err := ParseHex(raw)
	if err != nil {
		return binpath.BinaryPath{}, err
	}
	return p.DecodeBytes(buf)
}

func (p *Processor) Encode(path binpath.BinaryPath) ([]byte, error) {
	buf, err := p.Codec.Encode(path)
	observability.RecordCodec(observability.OpEncode, len(buf), err)
	return buf, err
}

func (p *Processor) Validate(path binpath.BinaryPath) error {
	err := p.Codec.Validate(path)
	observability.RecordCodec(observability.OpValidate, 0, err)
	return err
}

// DecodeOne produces a Result for a single hex input.
func (p *Processor) DecodeOne(index int, raw string) Result {
	res := Result{Index: index, Hex: strings.TrimSpace(raw)}
	path, err := p.DecodeHex(raw)
	if err != nil {
		res.Error = NewErrorBody(err)
		return res
	}
	res.Path = &path
	res.Notation = path.String()
	return res
}

// DecodeBatch decodes every item independently; a failing item does not
// stop the ones after it.
func (p *Processor) DecodeBatch(items []string) []Result {
	out := make([]Result, 0, len(items))
	for i, raw := range items {
		out = append(out, p.DecodeOne(i, raw))
	}
	return out
}
