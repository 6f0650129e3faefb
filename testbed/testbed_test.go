package testbed

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/wippyai/beamfile/beam"
	"github.com/wippyai/beamfile/render"
)

func TestRecordPadding(t *testing.T) {
	tests := []struct {
		payload int
		size    int
	}{
		{0, 8},
		{1, 12},
		{3, 12},
		{4, 12},
		{5, 16},
	}

	for _, tt := range tests {
		rec := Record(Chunk{Tag: "Code", Payload: make([]byte, tt.payload)})
		if len(rec) != tt.size {
			t.Errorf("payload %d: record is %d bytes, want %d", tt.payload, len(rec), tt.size)
		}
		if got := binary.BigEndian.Uint32(rec[4:8]); got != uint32(tt.payload) {
			t.Errorf("payload %d: declared length %d", tt.payload, got)
		}
	}
}

func TestBuildFormLength(t *testing.T) {
	data := New().Atoms("a").Raw("Code", []byte{1}).Bytes()
	if !bytes.HasPrefix(data, []byte("FOR1")) || string(data[8:12]) != "BEAM" {
		t.Fatalf("bad header: % x", data[:12])
	}
	if got := binary.BigEndian.Uint32(data[4:8]); int(got)+8 != len(data) {
		t.Errorf("form length %d does not cover %d bytes", got, len(data))
	}
}

func TestModuleChunksIsCopy(t *testing.T) {
	m := New().Atoms("a")
	chunks := m.Chunks()
	chunks[0].Tag = "XXXX"
	if m.Chunks()[0].Tag != "Atom" {
		t.Error("Chunks exposed internal slice")
	}
}

// TestPipeline decodes a module built here and renders it, the way the
// command-line tools do.
func TestPipeline(t *testing.T) {
	data := New().
		Atoms("lists", "reverse", "erlang", "++").
		Raw("Code", []byte{0, 0, 0, 16, 0, 0, 0, 0, 0, 0, 0, 168}).
		Raw("StrT", nil).
		Imports(
			Import{Module: 3, Function: 4, Arity: 2},
			Import{Module: 3, Function: 4, Arity: 2},
		).
		Exports(
			Export{Atom: 2, Arity: 1, Label: 2},
			Export{Atom: 2, Arity: 2, Label: 4},
		).
		Raw("LocT", TablePayload()).
		Bytes()

	c, err := beam.DecodeBytes(data)
	if err != nil {
		t.Fatalf("DecodeBytes: %v", err)
	}

	wantTags := []string{"Atom", "Code", "StrT", "ImpT", "ExpT", "LocT"}
	if !reflect.DeepEqual(c.Tags(), wantTags) {
		t.Errorf("Tags: got %v, want %v", c.Tags(), wantTags)
	}

	var out bytes.Buffer
	if err := render.JSON(&out, c); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	want := `{
    "Atom": [
        "lists",
        "reverse",
        "erlang",
        "++"
    ],
    "Code": null,
    "StrT": null,
    "ImpT": [
        "erlang:++/2",
        "erlang:++/2"
    ],
    "ExpT": {
        "reverse/1": 2,
        "reverse/2": 4
    },
    "LocT": null
}
`
	if out.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", out.String(), want)
	}
}

// TestCompiledModules decodes real compiler output when it is available.
// Set BEAM_FIXTURES to a directory of .beam files to run it.
func TestCompiledModules(t *testing.T) {
	dir := os.Getenv("BEAM_FIXTURES")
	if dir == "" {
		t.Skip("BEAM_FIXTURES not set")
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*.beam"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Skipf("no .beam files in %s", dir)
	}

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			// Current compilers write AtU8; older ones write Atom.
			c, err := beam.NewDecoder(beam.WithAtomChunk(beam.TagAtomUTF8)).DecodeFile(path)
			if err != nil {
				c, err = beam.DecodeFile(path)
			}
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if _, ok := c.Exports(); !ok {
				t.Error("no export table")
			}
			var out bytes.Buffer
			if err := render.JSON(&out, c); err != nil {
				t.Errorf("JSON: %v", err)
			}
		})
	}
}
