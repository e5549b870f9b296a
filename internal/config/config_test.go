package config

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/danmuck/binpath/internal/protocol/binpath"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestTemplateLoadsAsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pathd.toml")
	if err := WriteTemplate(path, false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Fatalf("template drifted from defaults:\n got=%+v\nwant=%+v", cfg, Default())
	}
	if err := WriteTemplate(path, false); err == nil {
		t.Fatalf("expected refusal to overwrite")
	}
	if err := WriteTemplate(path, true); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := writeFile(t, `
[codec]
slice_policy = "warn"

[codec.leaf_codes]
array = 1
tuple = 2
static = 3
dynamic = 4
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Codec.Strict || cfg.Server.Addr != ":9310" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	codec, err := cfg.BuildCodec()
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	if codec.Slices != binpath.SliceWarn {
		t.Fatalf("expected warn policy, got %v", codec.Slices)
	}
	if code, _ := codec.Leaves.Code(binpath.LeafStatic); code != 3 {
		t.Fatalf("expected static code 3, got %d", code)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, "[codec]\nstrickt = true\n")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "codec.strickt") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadRejectsDuplicateLeafCodes(t *testing.T) {
	path := writeFile(t, "[codec.leaf_codes]\nstatic = 1\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected duplicate leaf code error")
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"policy":    func(c *Config) { c.Codec.SlicePolicy = "loose" },
		"max bytes": func(c *Config) { c.Codec.MaxPathBytes = 0 },
		"name":      func(c *Config) { c.Server.Name = " " },
		"addr":      func(c *Config) { c.Server.Addr = "" },
		"batch":     func(c *Config) { c.Server.MaxBatch = 0 },
	}
	for name, mutate := range cases {
		cfg := Default()
		mutate(&cfg)
		if err := Validate(cfg); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestDumpRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	if err := Dump(&buf, Default()); err != nil {
		t.Fatalf("dump: %v", err)
	}
	path := writeFile(t, buf.String())
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load dumped config: %v\n%s", err, buf.String())
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Fatalf("dumped config differs: %+v", cfg)
	}
}
