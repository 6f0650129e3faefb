package beam

import (
	"bytes"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"

	"github.com/wippyai/beamfile/errors"
)

var gzipMagic = []byte{0x1f, 0x8b}

// memSource is a decompressed file held in memory.
type memSource struct {
	*bytes.Reader
}

func (memSource) Close() error { return nil }

// Open opens a BEAM file for decoding. Files compressed with gzip, as
// written by the compiler's compressed option, are inflated into memory.
// The caller must close the returned source.
func Open(path string) (io.ReadSeekCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.IO(errors.PhaseSource, errors.NoOffset, "open "+path, err)
	}

	var magic [2]byte
	n, err := io.ReadFull(f, magic[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		f.Close()
		return nil, errors.IO(errors.PhaseSource, 0, "read "+path, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, errors.IO(errors.PhaseSource, 0, "seek "+path, err)
	}
	if n < len(gzipMagic) || !bytes.Equal(magic[:], gzipMagic) {
		return f, nil
	}

	defer f.Close()
	data, err := inflate(f)
	if err != nil {
		return nil, err
	}
	return memSource{bytes.NewReader(data)}, nil
}

func inflate(r io.Reader) ([]byte, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.IO(errors.PhaseSource, 0, "gzip header", err)
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, errors.IO(errors.PhaseSource, errors.NoOffset, "gzip stream", err)
	}
	return data, nil
}
