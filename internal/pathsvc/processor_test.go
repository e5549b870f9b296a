package pathsvc

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/danmuck/binpath/internal/observability"
	"github.com/danmuck/binpath/internal/protocol/binpath"
	"github.com/danmuck/binpath/internal/testutil/testlog"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestDecodeBatchContinuesPastFailures(t *testing.T) {
	testlog.Start(t)
	proc := NewProcessor(binpath.DefaultCodec(), binpath.DefaultLimits())
	results := proc.DecodeBatch([]string{
		"0x010702020003050100",
		"010402020003",
		"zz",
		"01 04 05 01 00 ff",
		"010305 0103",
	})
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	if !results[0].OK() || results[0].Notation != "(3)s" {
		t.Fatalf("item 0: %+v", results[0])
	}
	if results[1].OK() || results[1].Error.Kind != "missing_leaf" {
		t.Fatalf("item 1: expected missing_leaf, got %+v", results[1].Error)
	}
	if results[1].Error.Offset == nil || *results[1].Error.Offset != 6 {
		t.Fatalf("item 1: expected offset 6, got %+v", results[1].Error)
	}
	if results[2].OK() || results[2].Error.Kind != "invalid_hex" {
		t.Fatalf("item 2: expected invalid_hex, got %+v", results[2].Error)
	}
	if results[3].OK() {
		t.Fatalf("item 3: spaces inside hex should be rejected")
	}
	if results[4].OK() {
		t.Fatalf("item 4: spaces inside hex should be rejected")
	}
}

func TestDecodeBytesLimit(t *testing.T) {
	testlog.Start(t)
	buf := []byte{0x01, 0x03, 0x05, 0x01, 0x00}

	// The limit applies to the 3 value bytes, as it does for ReadPath.
	proc := NewProcessor(binpath.DefaultCodec(), binpath.Limits{MaxPathBytes: 3})
	if _, err := proc.DecodeBytes(buf); err != nil {
		t.Fatalf("expected envelope at the limit to decode, got %v", err)
	}
	if _, _, err := proc.Codec.ReadPath(bytes.NewReader(buf), proc.Limits); err != nil {
		t.Fatalf("expected ReadPath to agree, got %v", err)
	}

	proc = NewProcessor(binpath.DefaultCodec(), binpath.Limits{MaxPathBytes: 2})
	if _, err := proc.DecodeBytes(buf); !errors.Is(err, binpath.ErrPathTooLarge) {
		t.Fatalf("expected ErrPathTooLarge, got %v", err)
	}
	if _, _, err := proc.Codec.ReadPath(bytes.NewReader(buf), proc.Limits); !errors.Is(err, binpath.ErrPathTooLarge) {
		t.Fatalf("expected ReadPath ErrPathTooLarge, got %v", err)
	}
}

func TestReadNextRecordsDecodeMetric(t *testing.T) {
	testlog.Start(t)
	proc := NewProcessor(binpath.DefaultCodec(), binpath.DefaultLimits())
	counter := func(kind string) float64 {
		return testutil.ToFloat64(observability.CodecOps().WithLabelValues(observability.OpDecode, kind))
	}
	okBefore, badBefore := counter("ok"), counter("unexpected_trailing_bytes")

	in := bytes.NewReader([]byte{
		0x01, 0x03, 0x05, 0x01, 0x00,
		0x01, 0x04, 0x05, 0x01, 0x00, 0xFF,
	})
	if _, _, err := proc.ReadNext(in); err != nil {
		t.Fatalf("first envelope: %v", err)
	}
	if _, raw, err := proc.ReadNext(in); !errors.Is(err, binpath.ErrUnexpectedTrailingBytes) || raw == nil {
		t.Fatalf("second envelope: expected trailing bytes error with raw bytes, got %v", err)
	}
	if _, _, err := proc.ReadNext(in); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}

	if got := counter("ok") - okBefore; got != 1 {
		t.Fatalf("expected 1 ok decode, got %v", got)
	}
	if got := counter("unexpected_trailing_bytes") - badBefore; got != 1 {
		t.Fatalf("expected 1 failed decode, got %v", got)
	}
}

func TestErrorBodyCarriesElementIndex(t *testing.T) {
	testlog.Start(t)
	proc := NewProcessor(binpath.DefaultCodec(), binpath.DefaultLimits())
	p := binpath.NewBinaryPath(binpath.PathLeaf{Type: binpath.LeafStatic},
		binpath.TupleElement{}, binpath.ArrayElement{ItemSize: 0})
	_, err := proc.Encode(p)
	body := NewErrorBody(err)
	if body.Kind != "invalid_array_element" || body.Element == nil || *body.Element != 1 {
		t.Fatalf("unexpected error body %+v", body)
	}
	if NewErrorBody(nil) != nil {
		t.Fatalf("expected nil body for nil error")
	}
}
