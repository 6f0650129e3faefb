// Command beamview inspects BEAM files.
//
// It prints the decoded chunks as JSON, YAML, CBOR or a per-record table,
// or opens an interactive browser with -i. Gzip-compressed files are read
// transparently.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/wippyai/beamfile/beam"
	"github.com/wippyai/beamfile/config"
	"github.com/wippyai/beamfile/render"
)

type options struct {
	configPath  string
	format      string
	atomChunk   string
	interactive bool
	verbose     bool
	path        string
}

func main() {
	opts, flagSet, err := parseArgs(os.Args[1:])
	if err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := settings(opts, flagSet)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if opts.interactive {
		if err := runInteractive(opts.path, cfg, os.Stderr); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(opts.path, cfg, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseArgs(args []string) (*options, *pflag.FlagSet, error) {
	var opts options

	flagSet := pflag.NewFlagSet("beamview", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&opts.configPath, "config", "", "settings file (default: $"+config.EnvVar+")")
	flagSet.StringVar(&opts.format, "format", string(render.FormatJSON), "output format: json, yaml, cbor or chunks")
	flagSet.StringVar(&opts.atomChunk, "atom-chunk", beam.TagAtom, "chunk holding the atom table")
	flagSet.BoolVarP(&opts.interactive, "interactive", "i", false, "browse chunks in a terminal UI")
	flagSet.BoolVarP(&opts.verbose, "verbose", "v", false, "log decode steps to stderr")

	if err := flagSet.Parse(args); err != nil {
		return nil, flagSet, err
	}

	rest := flagSet.Args()
	switch len(rest) {
	case 0:
		return nil, flagSet, fmt.Errorf("missing BEAM file argument")
	case 1:
		opts.path = rest[0]
	default:
		return nil, flagSet, fmt.Errorf("unexpected argument: %s", rest[1])
	}
	return &opts, flagSet, nil
}

// settings loads the settings file and applies flags set on the command
// line over it.
func settings(opts *options, flagSet *pflag.FlagSet) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if flagSet.Changed("format") {
		cfg.Format = opts.format
	}
	if flagSet.Changed("atom-chunk") {
		cfg.AtomChunk = opts.atomChunk
	}
	if flagSet.Changed("verbose") {
		cfg.Verbose = opts.verbose
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(path string, cfg *config.Config, stdout, stderr io.Writer) error {
	format, err := render.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	c, err := decode(path, cfg, stderr)
	if err != nil {
		return err
	}
	return render.Write(stdout, c, format)
}

func decode(path string, cfg *config.Config, stderr io.Writer) (*beam.Container, error) {
	logger := newLogger(cfg.Verbose, stderr)
	defer logger.Sync()

	d := beam.NewDecoder(
		beam.WithAtomChunk(cfg.AtomChunk),
		beam.WithLogger(logger.Named("beam")),
	)
	return d.DecodeFile(path)
}

func newLogger(verbose bool, w io.Writer) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	if f, ok := w.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `beamview prints or browses the chunks of a BEAM file.

Usage:
  beamview [flags] <file.beam>

Examples:
  # Decoded tables as YAML
  beamview --format yaml lists.beam

  # One row per chunk record
  beamview --format chunks lists.beam

  # Modules compiled with UTF-8 atoms
  beamview --atom-chunk AtU8 -i elixir_module.beam

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
