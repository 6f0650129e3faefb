// Package render serializes decoded BEAM containers.
//
// Every format keeps the chunk order of the file. Output is produced in
// memory first, so a failed render writes nothing.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/wippyai/beamfile/beam"
	"github.com/wippyai/beamfile/errors"
)

// Format names an output encoding.
type Format string

const (
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatCBOR   Format = "cbor"
	FormatChunks Format = "chunks" // one table row per chunk record
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatCBOR, FormatChunks}

// Indent is the per-level indentation of the text formats.
const Indent = "    "

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return "", errors.InvalidInput(errors.PhaseRender,
		fmt.Sprintf("unknown format %q (want one of %s)", s, strings.Join(names, ", ")))
}

// Write renders c to w in format f.
func Write(w io.Writer, c *beam.Container, f Format) error {
	var (
		buf bytes.Buffer
		err error
	)
	switch f {
	case FormatJSON:
		err = encodeJSON(&buf, c)
	case FormatYAML:
		err = encodeYAML(&buf, c)
	case FormatCBOR:
		err = encodeCBOR(&buf, c)
	case FormatChunks:
		err = encodeChunks(&buf, c)
	default:
		_, err = ParseFormat(string(f))
	}
	if err != nil {
		return err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return errors.IO(errors.PhaseRender, errors.NoOffset, "write output", err)
	}
	return nil
}

// JSON renders c as JSON indented by four spaces, with null for skipped
// chunks and a trailing newline.
func JSON(w io.Writer, c *beam.Container) error {
	return Write(w, c, FormatJSON)
}

func encodeJSON(buf *bytes.Buffer, c *beam.Container) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)
	if err := enc.Encode(c); err != nil {
		return errors.New(errors.KindInvalidInput).
			Phase(errors.PhaseRender).
			Detail("encode json").
			Cause(err).
			Build()
	}
	return nil
}

// Summary describes a decoded chunk value in a few words.
func Summary(v any) string {
	switch v := v.(type) {
	case nil:
		return "skipped"
	case []string:
		return plural(len(v), "entry", "entries")
	case *beam.ExportTable:
		return plural(v.Len(), "entry", "entries")
	default:
		return fmt.Sprintf("%T", v)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}
