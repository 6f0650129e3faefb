// Package config loads beamview settings.
//
// Settings come from a single YAML file named by the --config flag or the
// BEAMVIEW_CONFIG environment variable. Fields left out of the file keep
// their defaults, and command-line flags override both.
//
//	format: yaml
//	atom_chunk: AtU8
//	verbose: false
//	labels:
//	  Dbgi: debug info
package config

import (
	"bytes"
	goerrors "errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/beamfile/beam"
	"github.com/wippyai/beamfile/errors"
	"github.com/wippyai/beamfile/render"
)

// EnvVar names the environment variable holding the settings path.
const EnvVar = "BEAMVIEW_CONFIG"

// Config holds beamview settings.
type Config struct {
	// Format is the output format: json, yaml, cbor or chunks.
	Format string `yaml:"format"`

	// AtomChunk is the tag decoded as the atom table.
	// Default: Atom
	AtomChunk string `yaml:"atom_chunk"`

	// Verbose logs each decoded chunk to stderr.
	Verbose bool `yaml:"verbose"`

	// Labels are human-readable chunk names shown by the interactive
	// browser. Entries in the file are merged over the defaults.
	Labels map[string]string `yaml:"labels"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Format:    string(render.FormatJSON),
		AtomChunk: beam.TagAtom,
		Labels: map[string]string{
			"Atom": "atoms",
			"AtU8": "atoms (utf-8)",
			"Code": "bytecode",
			"StrT": "string table",
			"ImpT": "imports",
			"ExpT": "exports",
			"FunT": "lambdas",
			"LitT": "literals",
			"LocT": "local functions",
			"Attr": "attributes",
			"CInf": "compile info",
			"Dbgi": "debug info",
			"Docs": "documentation",
			"Line": "line table",
			"Type": "type table",
			"Meta": "metadata",
			"ExCk": "type checker data",
			"Abst": "abstract code",
		},
	}
}

// Load reads the file named by BEAMVIEW_CONFIG, or returns the defaults
// when it is unset.
func Load() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads settings from path over the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.IO(errors.PhaseConfig, errors.NoOffset, "read "+path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes settings from YAML. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	labels := cfg.Labels
	cfg.Labels = nil

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !goerrors.Is(err, io.EOF) {
		return nil, errors.New(errors.KindInvalidInput).
			Phase(errors.PhaseConfig).
			Detail("parse settings").
			Cause(err).
			Build()
	}

	for tag, label := range cfg.Labels {
		labels[tag] = label
	}
	cfg.Labels = labels

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the format name and the atom chunk tag.
func (c *Config) Validate() error {
	if _, err := render.ParseFormat(c.Format); err != nil {
		return errors.New(errors.KindInvalidInput).
			Phase(errors.PhaseConfig).
			Detail("format").
			Cause(err).
			Build()
	}
	if len(c.AtomChunk) != 4 {
		return errors.InvalidInput(errors.PhaseConfig, "atom_chunk must be a 4-byte tag, got "+strconv.Quote(c.AtomChunk))
	}
	for tag := range c.Labels {
		if len(tag) != 4 {
			return errors.InvalidInput(errors.PhaseConfig, "label key must be a 4-byte tag, got "+strconv.Quote(tag))
		}
	}
	return nil
}

// Label returns the display name for tag, or "" if none is known.
func (c *Config) Label(tag string) string {
	return c.Labels[tag]
}
