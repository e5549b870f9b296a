package main

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/danmuck/binpath/internal/config"
	"github.com/danmuck/binpath/internal/logging"
	"github.com/danmuck/binpath/internal/pathsvc"
	"github.com/danmuck/binpath/internal/protocol/binpath"
	"github.com/rs/zerolog/log"
)

var (
	errFailedItems = errors.New("one or more inputs failed")
	// errUsage marks bad flags or arguments; run maps it to exit status 2.
	errUsage = errors.New("usage")
)

func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// parseFlags wraps every flag failure, -h included, in errUsage.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	return nil
}

type commonFlags struct {
	configPath string
	lenient    bool
	slices     string
	asJSON     bool
}

func (cf *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&cf.configPath, "config", "", "TOML config supplying leaf codes and codec options")
	fs.BoolVar(&cf.lenient, "lenient", false, "accept non-minimal varlen tags and lengths")
	fs.StringVar(&cf.slices, "slice-policy", "", "override slice policy: strict|warn")
	fs.BoolVar(&cf.asJSON, "json", false, "print JSON results")
}

// processor resolves config, flags and logging into a Processor.
func (cf *commonFlags) processor() (*pathsvc.Processor, error) {
	cfg := config.Default()
	if cf.configPath != "" {
		loaded, err := config.Load(cf.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if cf.lenient {
		cfg.Codec.Strict = false
	}
	if cf.slices != "" {
		cfg.Codec.SlicePolicy = cf.slices
	}
	logging.Configure(logging.ProfileRuntime, cfg.Log.Level)
	codec, err := cfg.BuildCodec()
	if err != nil {
		return nil, err
	}
	log.Debug().
		Bool("strict", codec.Strict).
		Str("slice_policy", codec.Slices.String()).
		Msg("pathctl codec ready")
	return pathsvc.NewProcessor(codec, cfg.Limits()), nil
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func printResult(w io.Writer, res pathsvc.Result, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(res)
	}
	if res.OK() {
		_, err := fmt.Fprintf(w, "%d\tok\t%s\n", res.Index, res.Notation)
		return err
	}
	_, err := fmt.Fprintf(w, "%d\t%s\t%s\n", res.Index, res.Error.Kind, res.Error.Message)
	return err
}

func printResults(w io.Writer, results []pathsvc.Result, asJSON bool) error {
	failed := 0
	for _, res := range results {
		if !res.OK() {
			failed++
		}
		if err := printResult(w, res, asJSON); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errFailedItems, failed, len(results))
	}
	return nil
}

func runDecode(args []string, _ io.Reader, stdout, stderr io.Writer) error {
	var cf commonFlags
	fs := newFlagSet("decode", stderr)
	cf.register(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return usageError("expected at least one hex input")
	}
	proc, err := cf.processor()
	if err != nil {
		return err
	}
	return printResults(stdout, proc.DecodeBatch(fs.Args()), cf.asJSON)
}

func runEncode(args []string, _ io.Reader, stdout, stderr io.Writer) error {
	var cf commonFlags
	fs := newFlagSet("encode", stderr)
	cf.register(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return usageError("expected at least one path in notation")
	}
	proc, err := cf.processor()
	if err != nil {
		return err
	}
	failed := 0
	for i, text := range fs.Args() {
		path, err := binpath.ParseNotation(text)
		var buf []byte
		if err == nil {
			buf, err = proc.Encode(path)
		}
		if err != nil {
			failed++
			body := pathsvc.NewErrorBody(err)
			fmt.Fprintf(stdout, "%d\t%s\t%s\n", i, body.Kind, body.Message)
			continue
		}
		fmt.Fprintf(stdout, "%d\tok\t%s\n", i, hex.EncodeToString(buf))
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errFailedItems, failed, fs.NArg())
	}
	return nil
}

func runValidate(args []string, _ io.Reader, stdout, stderr io.Writer) error {
	var cf commonFlags
	fs := newFlagSet("validate", stderr)
	cf.register(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return usageError("expected at least one hex or notation input")
	}
	proc, err := cf.processor()
	if err != nil {
		return err
	}
	results := make([]pathsvc.Result, 0, fs.NArg())
	for i, in := range fs.Args() {
		if _, hexErr := pathsvc.ParseHex(in); hexErr == nil {
			results = append(results, proc.DecodeOne(i, in))
			continue
		}
		res := pathsvc.Result{Index: i}
		path, err := binpath.ParseNotation(in)
		if err == nil {
			err = proc.Validate(path)
		}
		if err != nil {
			res.Error = pathsvc.NewErrorBody(err)
		} else {
			res.Path = &path
			res.Notation = path.String()
		}
		results = append(results, res)
	}
	return printResults(stdout, results, cf.asJSON)
}

func runBatch(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var cf commonFlags
	fs := newFlagSet("batch", stderr)
	cf.register(fs)
	in := fs.String("in", "-", "input file, - for stdin")
	format := fs.String("format", "hex", "input format: hex (one path per line) or bin (concatenated envelopes)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *format != "hex" && *format != "bin" {
		return usageError("unknown format %q", *format)
	}
	if fs.NArg() > 0 {
		return usageError("unexpected arguments %v", fs.Args())
	}
	proc, err := cf.processor()
	if err != nil {
		return err
	}

	r := stdin
	if *in != "-" {
		f, err := os.Open(*in)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	switch *format {
	case "hex":
		items, err := readHexLines(r)
		if err != nil {
			return err
		}
		return printResults(stdout, proc.DecodeBatch(items), cf.asJSON)
	case "bin":
		results, err := readBinaryStream(r, proc)
		if err != nil {
			return err
		}
		return printResults(stdout, results, cf.asJSON)
	default:
		return usageError("unknown format %q", *format)
	}
}

// readHexLines skips blank lines and lines starting with '#'.
func readHexLines(r io.Reader) ([]string, error) {
	var items []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		items = append(items, line)
	}
	return items, sc.Err()
}

// readBinaryStream stops at the first framing error since the stream
// cannot be resynchronised after it; semantic failures are per item.
func readBinaryStream(r io.Reader, proc *pathsvc.Processor) ([]pathsvc.Result, error) {
	br := bufio.NewReader(r)
	var results []pathsvc.Result
	for i := 0; ; i++ {
		path, raw, err := proc.ReadNext(br)
		if errors.Is(err, io.EOF) {
			return results, nil
		}
		res := pathsvc.Result{Index: i, Hex: hex.EncodeToString(raw)}
		if err != nil {
			res.Error = pathsvc.NewErrorBody(err)
			results = append(results, res)
			if raw == nil {
				return results, nil
			}
			continue
		}
		res.Path = &path
		res.Notation = path.String()
		results = append(results, res)
	}
}
