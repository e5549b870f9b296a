package config

import (
	"fmt"
	"os"
)

func Template() string {
	return defaultTemplate
}

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(defaultTemplate), 0o600)
}

const defaultTemplate = `[codec]
strict = true
slice_policy = "strict"
max_path_bytes = 4096

# Device-assigned leaf type codes. Each code must be distinct.
[codec.leaf_codes]
static = 0
dynamic = 1
array = 2
tuple = 3

[server]
name = "pathd"
addr = ":9310"
cors_origins = ["http://localhost:3000"]
max_batch = 256

[log]
level = "info"
`
