package beam

import (
	"bytes"
	goerrors "errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/wippyai/beamfile/errors"
	"github.com/wippyai/beamfile/testbed"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func sampleModule() []byte {
	return buildBEAM(
		chunk{Tag: TagAtom, Payload: atomPayload("sample", "run", "io", "format")},
		chunk{Tag: "Code", Payload: []byte{0, 0, 0, 16}},
		chunk{Tag: TagImports, Payload: triplePayload([3]uint32{3, 4, 1})},
		chunk{Tag: TagExports, Payload: triplePayload([3]uint32{2, 0, 2})},
	)
}

func TestDecodeFile(t *testing.T) {
	path := writeFile(t, "sample.beam", sampleModule())

	c, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}
	if got := c.Tags(); !reflect.DeepEqual(got, []string{"Atom", "Code", "ImpT", "ExpT"}) {
		t.Errorf("Tags: got %v", got)
	}
}

func TestDecodeFileGzip(t *testing.T) {
	raw := sampleModule()
	plain, err := DecodeBytes(raw)
	if err != nil {
		t.Fatalf("DecodeBytes: %v", err)
	}

	path := writeFile(t, "sample.beam", testbed.Gzip(raw))
	c, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}

	if !reflect.DeepEqual(c.Tags(), plain.Tags()) {
		t.Errorf("Tags: got %v, want %v", c.Tags(), plain.Tags())
	}
	if !reflect.DeepEqual(c.Chunks(), plain.Chunks()) {
		t.Errorf("Chunks differ between raw and gzip input")
	}
	imports, _ := c.Imports()
	if !reflect.DeepEqual(imports, []string{"io:format/1"}) {
		t.Errorf("imports: got %v", imports)
	}
}

func TestDecodeFileMissing(t *testing.T) {
	_, err := DecodeFile(filepath.Join(t.TempDir(), "absent.beam"))
	if !goerrors.Is(err, errors.ErrIO) {
		t.Fatalf("expected io error, got %v", err)
	}
	if !goerrors.Is(err, os.ErrNotExist) {
		t.Errorf("cause not preserved: %v", err)
	}
}

func TestDecodeFileCorruptGzip(t *testing.T) {
	data := testbed.Gzip(sampleModule())
	path := writeFile(t, "bad.beam", data[:len(data)/2])

	_, err := DecodeFile(path)
	var e *errors.Error
	if !goerrors.As(err, &e) {
		t.Fatalf("expected *errors.Error, got %v", err)
	}
	if e.Kind != errors.KindIO || e.Phase != errors.PhaseSource {
		t.Errorf("got kind %s phase %s", e.Kind, e.Phase)
	}
}

func TestDecodeFileWrapsPath(t *testing.T) {
	path := writeFile(t, "short.beam", []byte("FOR1"))
	_, err := DecodeFile(path)
	if !goerrors.Is(err, errors.ErrTruncatedInput) {
		t.Fatalf("expected truncated input, got %v", err)
	}
	if !bytes.Contains([]byte(err.Error()), []byte(path)) {
		t.Errorf("error %q does not name the file", err)
	}
}

func TestOpenTinyFile(t *testing.T) {
	path := writeFile(t, "one.beam", []byte{0x1f})
	src, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()

	b := make([]byte, 2)
	n, _ := src.Read(b)
	if n != 1 || b[0] != 0x1f {
		t.Errorf("Open did not rewind: read %d bytes %x", n, b[:n])
	}
}
