package beam

import (
	"bytes"
	"fmt"
	"io"
	"maps"

	"go.uber.org/zap"

	"github.com/wippyai/beamfile/beam/internal/binary"
	"github.com/wippyai/beamfile/errors"
)

// Decoder walks a BEAM container and dispatches each chunk to its decoder.
// A Decoder is immutable once built and may be shared.
type Decoder struct {
	decoders  map[string]ChunkDecoder
	atomChunk string
	logger    *zap.Logger
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithDecoder registers fn for tag, replacing any built-in decoder.
func WithDecoder(tag string, fn ChunkDecoder) Option {
	return func(d *Decoder) {
		d.decoders[tag] = fn
	}
}

// WithAtomChunk reads the atom table from tag instead of "Atom". The tag is
// decoded with DecodeAtoms and export and import tables resolve against it.
func WithAtomChunk(tag string) Option {
	return func(d *Decoder) {
		d.atomChunk = tag
		d.decoders[tag] = DecodeAtoms
	}
}

// WithLogger sets the logger used for per-chunk debug output.
func WithLogger(l *zap.Logger) Option {
	return func(d *Decoder) {
		d.logger = l
	}
}

// NewDecoder returns a Decoder with the built-in Atom, ExpT and ImpT
// decoders and the given options applied.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		decoders:  maps.Clone(builtinDecoders),
		atomChunk: TagAtom,
		logger:    Logger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// lookup returns the decoder for tag and whether it is a structured one.
func (d *Decoder) lookup(tag string) (ChunkDecoder, bool) {
	if fn, ok := d.decoders[tag]; ok {
		return fn, true
	}
	return Opaque, false
}

// Decode reads a whole container from src, which must be positioned at the
// start of the file. On error no container is returned.
func (d *Decoder) Decode(src io.ReadSeeker) (*Container, error) {
	r := binary.NewReader(src)

	end, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	log := d.logger.With(zap.Int64("end", end))
	log.Debug("container header", zap.Int64("length", end-formPrefix))

	c := newContainer(d.atomChunk)
	for {
		pos := r.Position()
		if pos == end {
			break
		}
		if pos > end {
			return nil, errors.InvariantViolation(pos,
				fmt.Sprintf("position is past container end %d", end))
		}
		info, err := d.step(r, c, end)
		if err != nil {
			return nil, err
		}
		log.Debug("chunk",
			zap.String("tag", info.Tag),
			zap.Int64("offset", info.Offset),
			zap.Uint32("length", info.Length),
			zap.Int64("padding", info.Padding),
			zap.Bool("decoded", info.Decoded))
	}

	return c, nil
}

// step decodes one chunk record and stores its value.
func (d *Decoder) step(r *binary.Reader, c *Container, end int64) (ChunkInfo, error) {
	start := r.Position()
	tag, err := r.ReadTag()
	if err != nil {
		return ChunkInfo{}, errors.Annotate(err, errors.PhaseChunk, "")
	}
	length, err := r.ReadU32()
	if err != nil {
		return ChunkInfo{}, errors.Annotate(err, errors.PhaseChunk, tag)
	}

	payload := r.Position()
	expected := payload + int64(length)
	if expected > end {
		return ChunkInfo{}, errors.New(errors.KindInvariantViolation).
			Phase(errors.PhaseChunk).
			Tag(tag).
			Offset(start).
			Detail("payload ends at %d, past container end %d", expected, end).
			Build()
	}

	size, err := r.Size()
	if err != nil {
		return ChunkInfo{}, errors.Annotate(err, errors.PhaseChunk, tag)
	}
	if expected > size {
		return ChunkInfo{}, errors.Annotate(
			errors.Truncated(payload, int64(length), size-payload), errors.PhaseChunk, tag)
	}

	fn, structured := d.lookup(tag)

	r.SetLimit(expected)
	value, err := fn(r, length, view{c})
	r.SetLimit(binary.NoLimit)
	if err != nil {
		return ChunkInfo{}, errors.Annotate(err, errors.PhaseChunk, tag)
	}

	if got := r.Position(); got != expected {
		return ChunkInfo{}, errors.LengthMismatch(tag, start, int64(length), got-payload)
	}

	if err := r.Align4(); err != nil {
		return ChunkInfo{}, errors.Annotate(err, errors.PhaseChunk, tag)
	}

	info := ChunkInfo{
		Tag:     tag,
		Offset:  start,
		Length:  length,
		Padding: r.Position() - expected,
		Decoded: structured,
	}
	c.put(info, value)
	return info, nil
}

// DecodeFile opens path and decodes it. Gzip-compressed files are
// decompressed first. The file is closed before DecodeFile returns.
func (d *Decoder) DecodeFile(path string) (*Container, error) {
	src, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	c, err := d.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return c, nil
}

// Decode reads a container from src with the default decoders.
func Decode(src io.ReadSeeker) (*Container, error) {
	return NewDecoder().Decode(src)
}

// DecodeBytes decodes an in-memory container with the default decoders.
func DecodeBytes(data []byte) (*Container, error) {
	return NewDecoder().Decode(bytes.NewReader(data))
}

// DecodeFile decodes the file at path with the default decoders.
func DecodeFile(path string) (*Container, error) {
	return NewDecoder().DecodeFile(path)
}
