package binary

import (
	"encoding/binary"
	goerrors "errors"
	"io"

	"github.com/wippyai/beamfile/errors"
)

// NoLimit disables the read limit.
const NoLimit int64 = -1

// Reader wraps an io.ReadSeeker with position tracking and the big-endian
// reads used by the BEAM container.
//
// The source must be positioned at offset 0 when the Reader is created.
type Reader struct {
	r     io.ReadSeeker
	pos   int64
	size  int64
	limit int64
	buf   [4]byte
}

// NewReader creates a new Reader wrapping the given io.ReadSeeker.
func NewReader(r io.ReadSeeker) *Reader {
	return &Reader{r: r, size: -1, limit: NoLimit}
}

// Position returns the current absolute byte offset.
func (r *Reader) Position() int64 {
	return r.pos
}

// SetLimit makes every read or skip that would cross limit fail with a
// chunk length mismatch. Pass NoLimit to clear it.
func (r *Reader) SetLimit(limit int64) {
	r.limit = limit
}

// ReadByte reads a single byte and advances the position.
func (r *Reader) ReadByte() (byte, error) {
	if err := r.fill(r.buf[:1]); err != nil {
		return 0, err
	}
	return r.buf[0], nil
}

// ReadBytes reads exactly n bytes, retrying short reads until the source
// is exhausted.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := r.fill(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadTag reads a 4-byte chunk tag.
func (r *Reader) ReadTag() (string, error) {
	if err := r.fill(r.buf[:4]); err != nil {
		return "", err
	}
	return string(r.buf[:4]), nil
}

// ReadU32 reads a big-endian uint32 (fixed 4 bytes).
func (r *Reader) ReadU32() (uint32, error) {
	if err := r.fill(r.buf[:4]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(r.buf[:4]), nil
}

// Skip advances the position by n bytes without copying. The skipped bytes
// must exist in the source.
func (r *Reader) Skip(n int64) error {
	if n < 0 {
		return errors.InvariantViolation(r.pos, "negative skip")
	}
	if err := r.checkLimit(n); err != nil {
		return err
	}
	size, err := r.Size()
	if err != nil {
		return err
	}
	if r.pos+n > size {
		return errors.Truncated(r.pos, n, size-r.pos)
	}
	if _, err := r.r.Seek(r.pos+n, io.SeekStart); err != nil {
		return errors.IO("", r.pos, "seek", err)
	}
	r.pos += n
	return nil
}

// Align4 advances to the next multiple of 4. It does nothing when the
// position is already aligned.
func (r *Reader) Align4() error {
	if rem := r.pos % 4; rem != 0 {
		return r.Skip(4 - rem)
	}
	return nil
}

// Size returns the total length of the source. The value is computed once.
func (r *Reader) Size() (int64, error) {
	if r.size >= 0 {
		return r.size, nil
	}
	end, err := r.r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, errors.IO("", r.pos, "seek to end", err)
	}
	if _, err := r.r.Seek(r.pos, io.SeekStart); err != nil {
		return 0, errors.IO("", r.pos, "seek back", err)
	}
	r.size = end
	return end, nil
}

func (r *Reader) fill(buf []byte) error {
	if err := r.checkLimit(int64(len(buf))); err != nil {
		return err
	}
	n, err := io.ReadFull(r.r, buf)
	if err != nil {
		start := r.pos
		r.pos += int64(n)
		if goerrors.Is(err, io.EOF) || goerrors.Is(err, io.ErrUnexpectedEOF) {
			return errors.Truncated(start, int64(len(buf)), int64(n))
		}
		return errors.IO("", start, "read", err)
	}
	r.pos += int64(n)
	return nil
}

func (r *Reader) checkLimit(n int64) error {
	if r.limit != NoLimit && r.pos+n > r.limit {
		return errors.Overrun(r.pos, n, r.limit)
	}
	return nil
}
