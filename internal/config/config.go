package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/binpath/internal/protocol/binpath"
)

type Config struct {
	Codec  CodecConfig  `toml:"codec"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

type CodecConfig struct {
	Strict       bool              `toml:"strict"`
	SlicePolicy  string            `toml:"slice_policy"`
	MaxPathBytes uint32            `toml:"max_path_bytes"`
	LeafCodes    binpath.LeafCodes `toml:"leaf_codes"`
}

type ServerConfig struct {
	Name        string   `toml:"name"`
	Addr        string   `toml:"addr"`
	CorsOrigins []string `toml:"cors_origins"`
	MaxBatch    int      `toml:"max_batch"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

func Default() Config {
	return Config{
		Codec: CodecConfig{
			Strict:       true,
			SlicePolicy:  binpath.SliceStrict.String(),
			MaxPathBytes: binpath.DefaultLimits().MaxPathBytes,
			LeafCodes:    binpath.DefaultLeafCodes(),
		},
		Server: ServerConfig{
			Name:        "pathd",
			Addr:        ":9310",
			CorsOrigins: []string{"http://localhost:3000"},
			MaxBatch:    256,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads a TOML file over Default. Keys the file omits keep their
// defaults; unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("config parse failed (%s): unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if _, err := binpath.ParseSlicePolicy(cfg.Codec.SlicePolicy); err != nil {
		return err
	}
	if err := cfg.Codec.LeafCodes.Validate(); err != nil {
		return err
	}
	if cfg.Codec.MaxPathBytes == 0 {
		return fmt.Errorf("codec max_path_bytes must be positive")
	}
	if strings.TrimSpace(cfg.Server.Name) == "" {
		return fmt.Errorf("server config missing name")
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return fmt.Errorf("server config missing addr")
	}
	if cfg.Server.MaxBatch <= 0 {
		return fmt.Errorf("server max_batch must be positive")
	}
	return nil
}

// BuildCodec builds the binpath codec described by cfg.
func (cfg Config) BuildCodec() (binpath.Codec, error) {
	policy, err := binpath.ParseSlicePolicy(cfg.Codec.SlicePolicy)
	if err != nil {
		return binpath.Codec{}, err
	}
	if err := cfg.Codec.LeafCodes.Validate(); err != nil {
		return binpath.Codec{}, err
	}
	return binpath.Codec{
		Leaves: cfg.Codec.LeafCodes,
		Strict: cfg.Codec.Strict,
		Slices: policy,
	}, nil
}

func (cfg Config) Limits() binpath.Limits {
	return binpath.Limits{MaxPathBytes: cfg.Codec.MaxPathBytes}
}

// Dump writes cfg as TOML.
func Dump(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}
