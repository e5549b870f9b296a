package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

const usage = `usage: pathctl <command> [flags] [args]

commands:
  decode    decode hex-encoded binary paths
  encode    encode paths given in notation, e.g. "(1).d{0:4}"
  validate  check hex or notation inputs without printing the path
  batch     decode a file of hex lines or a binary stream of paths
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	var cmd func([]string, io.Reader, io.Writer, io.Writer) error
	switch args[0] {
	case "decode":
		cmd = runDecode
	case "encode":
		cmd = runEncode
	case "validate":
		cmd = runValidate
	case "batch":
		cmd = runBatch
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "pathctl: unknown command %q\n%s", args[0], usage)
		return 2
	}
	if err := cmd(args[1:], stdin, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "pathctl %s: %v\n", args[0], err)
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	return 0
}
