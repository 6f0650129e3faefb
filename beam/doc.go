// Package beam decodes the chunked container of compiled Erlang modules.
//
// A BEAM file is an IFF-style form: the tag "FOR1", a big-endian form
// length, the form type "BEAM", then chunk records. Each record is a
// 4-byte tag, a big-endian payload length, the payload, and padding up to
// the next 4-byte boundary.
//
// # Decoding
//
//	c, err := beam.DecodeFile("lists.beam")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	atoms, _ := c.Atoms()
//	exports, _ := c.Exports()
//
// The atom (Atom), export (ExpT) and import (ImpT) tables are decoded;
// every other chunk is skipped and stored with a nil value. Export and
// import entries refer to atoms by 1-based index, so the atom table must
// come first in the file.
//
// # Custom chunks
//
// Decoders are looked up by exact tag. Extra ones are registered per
// Decoder:
//
//	d := beam.NewDecoder(
//	    beam.WithAtomChunk(beam.TagAtomUTF8),
//	    beam.WithDecoder("LocT", beam.DecodeExports),
//	)
//	c, err := d.DecodeFile(path)
//
// A ChunkDecoder must consume exactly the declared payload. Reading past
// the payload, or returning early, fails the decode with a
// chunk_length_mismatch error.
//
// # Errors
//
// All failures are *errors.Error values from the errors package, carrying
// the kind, chunk tag and byte offset. Nothing is recovered: the first
// error aborts the decode.
package beam
