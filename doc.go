// Package beamfile reads the BEAM container format used for compiled
// Erlang and Elixir modules.
//
// A BEAM file is an IFF-style form: the magic "FOR1", a big-endian form
// length, the form type "BEAM", then a sequence of chunk records. Each record
// is a 4-byte tag, a big-endian payload length, the payload, and zero
// padding up to the next 4-byte boundary. The atom table ("Atom", or "AtU8"
// in newer compilers), export table ("ExpT") and import table ("ImpT") are
// decoded; every other chunk is skipped and kept as a placeholder so the
// chunk order of the file is preserved.
//
// # Architecture Overview
//
//	beamfile/
//	├── beam/            Container walker, chunk decoders, result type
//	│   └── internal/
//	│       └── binary/  Position-tracking big-endian reader
//	├── errors/          Structured error kinds with offsets and chunk tags
//	├── render/          JSON, YAML, CBOR and chunk-table output
//	├── config/          Settings file for beamview
//	├── testbed/         Builder for BEAM test fixtures
//	└── cmd/
//	    ├── beamdump/    Prints a file as JSON
//	    └── beamview/    Output formats and an interactive browser
//
// # Quick Start
//
//	c, err := beam.DecodeFile("lists.beam")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	exports, _ := c.Exports()
//	for _, key := range exports.Keys() {
//	    label, _ := exports.Get(key)
//	    fmt.Println(key, label) // "reverse/1 2"
//	}
//
//	render.JSON(os.Stdout, c)
//
// # Custom Chunks
//
// Additional chunk decoders are registered per decoder and see the chunks
// decoded before them through a read-only view:
//
//	d := beam.NewDecoder(
//	    beam.WithAtomChunk(beam.TagAtomUTF8),
//	    beam.WithDecoder("LocT", beam.DecodeExports),
//	)
//	c, err := d.DecodeFile("elixir_module.beam")
//
// # Errors
//
// Every failure is an *errors.Error carrying a kind, the chunk tag and the
// byte offset where decoding stopped. Test for a kind with errors.Is:
//
//	if errors.Is(err, beamerrors.ErrMissingDependency) { ... }
//
// Decoding stops at the first error and returns no partial result.
//
// # Thread Safety
//
// A Decoder is immutable after NewDecoder and may be shared between
// goroutines. A Container is not modified after Decode returns.
package beamfile
