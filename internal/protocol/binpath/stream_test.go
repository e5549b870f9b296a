package binpath

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/danmuck/binpath/internal/testutil/testlog"
)

func TestReadWritePathStream(t *testing.T) {
	testlog.Start(t)
	c := DefaultCodec()
	var buf bytes.Buffer
	paths := roundTripPaths()
	for _, p := range paths {
		if err := c.WritePath(&buf, p); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
	for i := 0; ; i++ {
		p, raw, err := c.ReadPath(&buf, DefaultLimits())
		if errors.Is(err, io.EOF) {
			if i != len(paths) {
				t.Fatalf("expected %d paths, read %d", len(paths), i)
			}
			break
		}
		if err != nil {
			t.Fatalf("read path %d: %v", i, err)
		}
		if !p.Equal(paths[i]) {
			t.Fatalf("path %d: want %s, got %s", i, paths[i], p)
		}
		want, _ := c.Encode(paths[i])
		if !bytes.Equal(raw, want) {
			t.Fatalf("path %d raw mismatch: % x", i, raw)
		}
	}
}

func TestReadPathTruncatedStream(t *testing.T) {
	testlog.Start(t)
	in := []byte{0x01, 0x07, 0x02, 0x02, 0x00}
	_, _, err := DefaultCodec().ReadPath(bytes.NewReader(in), DefaultLimits())
	if !errors.Is(err, ErrTruncatedBuffer) {
		t.Fatalf("expected ErrTruncatedBuffer, got %v", err)
	}
}

func TestReadPathLimit(t *testing.T) {
	testlog.Start(t)
	in := []byte{0x01, 0x81, 0x90}
	_, _, err := DefaultCodec().ReadPath(bytes.NewReader(in), Limits{MaxPathBytes: 64})
	if !errors.Is(err, ErrPathTooLarge) {
		t.Fatalf("expected ErrPathTooLarge, got %v", err)
	}
}

func TestReadPathWrongTag(t *testing.T) {
	testlog.Start(t)
	_, _, err := DefaultCodec().ReadPath(bytes.NewReader([]byte{0x05, 0x01, 0x00}), DefaultLimits())
	if !errors.Is(err, ErrUnknownTag) {
		t.Fatalf("expected ErrUnknownTag, got %v", err)
	}
}
