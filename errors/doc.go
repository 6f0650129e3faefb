// Package errors provides structured error types for the BEAM decoder.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries the chunk tag, the absolute byte offset,
// a detail message, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.KindIndexOutOfRange).
//		Phase(errors.PhaseChunk).
//		Tag("ImpT").
//		Offset(96).
//		Detail("index %d out of range [1, %d]", 7, 3).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Truncated(offset, 4, 1)
//	err := errors.MissingDependency(offset, "Atom")
//
// Kinds are matched with the standard library through the sentinels:
//
//	if errors.Is(err, beamerrors.ErrMissingDependency) { ... }
package errors
