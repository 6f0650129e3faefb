package errors

import (
	goerrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseSource Phase = "source" // opening or decompressing the input
	PhaseHeader Phase = "header" // FOR1/BEAM framing
	PhaseChunk  Phase = "chunk"  // chunk records and their payloads
	PhaseRender Phase = "render" // serializing a decoded container
	PhaseConfig Phase = "config" // inspector settings
)

// Kind categorizes the error
type Kind string

const (
	KindTruncatedInput      Kind = "truncated_input"
	KindMalformedHeader     Kind = "malformed_header"
	KindChunkLengthMismatch Kind = "chunk_length_mismatch"
	KindInvariantViolation  Kind = "invariant_violation"
	KindInvalidEncoding     Kind = "invalid_encoding"
	KindMissingDependency   Kind = "missing_dependency"
	KindIndexOutOfRange     Kind = "index_out_of_range"
	KindIO                  Kind = "io"
	KindInvalidInput        Kind = "invalid_input"
)

// NoOffset marks errors that are not tied to a byte position.
const NoOffset int64 = -1

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrTruncatedInput      = &Error{Kind: KindTruncatedInput, Offset: NoOffset}
	ErrMalformedHeader     = &Error{Kind: KindMalformedHeader, Offset: NoOffset}
	ErrChunkLengthMismatch = &Error{Kind: KindChunkLengthMismatch, Offset: NoOffset}
	ErrInvariantViolation  = &Error{Kind: KindInvariantViolation, Offset: NoOffset}
	ErrInvalidEncoding     = &Error{Kind: KindInvalidEncoding, Offset: NoOffset}
	ErrMissingDependency   = &Error{Kind: KindMissingDependency, Offset: NoOffset}
	ErrIndexOutOfRange     = &Error{Kind: KindIndexOutOfRange, Offset: NoOffset}
	ErrIO                  = &Error{Kind: KindIO, Offset: NoOffset}
	ErrInvalidInput        = &Error{Kind: KindInvalidInput, Offset: NoOffset}
)

// Error is the structured error type used by the decoder and its tools
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Tag    string
	Detail string
	Offset int64
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if e.Tag != "" {
		b.WriteString(" in chunk ")
		b.WriteString(fmt.Sprintf("%q", e.Tag))
	}

	if e.Offset >= 0 {
		b.WriteString(" at offset ")
		b.WriteString(fmt.Sprintf("%d", e.Offset))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Kinds must be equal; the
// phase is compared only when the target sets one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Kind != t.Kind {
		return false
	}
	return t.Phase == "" || t.Phase == e.Phase
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(kind Kind) *Builder {
	return &Builder{
		err: Error{
			Kind:   kind,
			Offset: NoOffset,
		},
	}
}

// Phase sets the processing phase
func (b *Builder) Phase(p Phase) *Builder {
	b.err.Phase = p
	return b
}

// Tag sets the chunk tag
func (b *Builder) Tag(tag string) *Builder {
	b.err.Tag = tag
	return b
}

// Offset sets the absolute byte offset
func (b *Builder) Offset(off int64) *Builder {
	b.err.Offset = off
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Annotate returns err with the phase and chunk tag filled in where the
// first structured error in its chain leaves them unset. That error is
// never modified: a directly passed *Error is copied, and a wrapped one is
// kept as the cause of a new *Error of the same kind. Other errors are
// returned unchanged.
func Annotate(err error, phase Phase, tag string) error {
	var e *Error
	if !goerrors.As(err, &e) {
		return err
	}
	needPhase := e.Phase == "" && phase != ""
	needTag := e.Tag == "" && tag != ""
	if !needPhase && !needTag {
		return err
	}

	c := *e
	if needPhase {
		c.Phase = phase
	}
	if needTag {
		c.Tag = tag
	}
	if err != error(e) {
		c.Detail = ""
		c.Cause = err
	}
	return &c
}

// KindOf returns the kind of the first structured error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if !goerrors.As(err, &e) {
		return "", false
	}
	return e.Kind, true
}

// Convenience constructors for common error patterns

// Truncated creates an error for a field that needs more bytes than remain
func Truncated(offset int64, want, got int64) *Error {
	return &Error{
		Kind:   KindTruncatedInput,
		Offset: offset,
		Detail: fmt.Sprintf("need %d bytes, only %d available", want, got),
		Value:  want,
	}
}

// MalformedHeader creates a magic mismatch error
func MalformedHeader(offset int64, want, got string) *Error {
	return &Error{
		Phase:  PhaseHeader,
		Kind:   KindMalformedHeader,
		Offset: offset,
		Detail: fmt.Sprintf("bad magic: got %q, expected %q", got, want),
		Value:  got,
	}
}

// LengthMismatch creates an error for a decoder that consumed a different
// number of bytes than the chunk declared
func LengthMismatch(tag string, offset int64, declared, consumed int64) *Error {
	return &Error{
		Phase:  PhaseChunk,
		Kind:   KindChunkLengthMismatch,
		Tag:    tag,
		Offset: offset,
		Detail: fmt.Sprintf("declared %d bytes, decoder consumed %d (off by %+d)", declared, consumed, consumed-declared),
		Value:  consumed - declared,
	}
}

// Overrun creates an error for a decoder read that crosses the chunk end
func Overrun(offset, want, limit int64) *Error {
	return &Error{
		Kind:   KindChunkLengthMismatch,
		Offset: offset,
		Detail: fmt.Sprintf("read of %d bytes overruns chunk end at %d by %d", want, limit, offset+want-limit),
		Value:  offset + want - limit,
	}
}

// InvariantViolation creates an error for a walker position that left the
// container extent
func InvariantViolation(offset int64, detail string) *Error {
	return &Error{
		Phase:  PhaseChunk,
		Kind:   KindInvariantViolation,
		Offset: offset,
		Detail: detail,
	}
}

// InvalidEncoding creates an invalid UTF-8 error
func InvalidEncoding(offset int64, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Kind:   KindInvalidEncoding,
		Offset: offset,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// MissingDependency creates an error for a chunk that resolves against a
// table that has not been decoded yet
func MissingDependency(offset int64, dependency string) *Error {
	return &Error{
		Kind:   KindMissingDependency,
		Offset: offset,
		Detail: fmt.Sprintf("chunk %q has not been decoded yet", dependency),
		Value:  dependency,
	}
}

// IndexOutOfRange creates an error for a 1-based table index outside
// [1, length]
func IndexOutOfRange(offset int64, index uint32, length int) *Error {
	return &Error{
		Kind:   KindIndexOutOfRange,
		Offset: offset,
		Detail: fmt.Sprintf("index %d out of range [1, %d]", index, length),
		Value:  index,
	}
}

// IO wraps a failure of the underlying byte source
func IO(phase Phase, offset int64, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIO,
		Offset: offset,
		Detail: detail,
		Cause:  cause,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Offset: NoOffset,
		Detail: detail,
	}
}
