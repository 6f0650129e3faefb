// Package testbed builds BEAM containers for tests.
//
// It writes the same framing the compiler emits: FOR1, form length, BEAM,
// then padded chunk records. Lengths and padding are computed, so tests
// only describe payloads:
//
//	data := testbed.New().
//		Atoms("demo", "start").
//		Raw("Code", code).
//		Exports(testbed.Export{Atom: 2, Arity: 0, Label: 2}).
//		Bytes()
package testbed

import (
	"bytes"
	"encoding/binary"

	"github.com/klauspost/compress/gzip"
)

// Chunk is one record: a 4-byte tag and its payload.
type Chunk struct {
	Tag     string
	Payload []byte
}

// Export is an export or local function table entry.
type Export struct {
	Atom, Arity, Label uint32
}

// Import is an import table entry.
type Import struct {
	Module, Function, Arity uint32
}

// Module accumulates chunks in file order.
type Module struct {
	chunks []Chunk
}

// New returns an empty module.
func New() *Module {
	return &Module{}
}

// Raw appends a chunk with an arbitrary payload.
func (m *Module) Raw(tag string, payload []byte) *Module {
	m.chunks = append(m.chunks, Chunk{Tag: tag, Payload: payload})
	return m
}

// Atoms appends an "Atom" table.
func (m *Module) Atoms(names ...string) *Module {
	return m.Raw("Atom", AtomPayload(names...))
}

// AtomsUTF8 appends an "AtU8" table.
func (m *Module) AtomsUTF8(names ...string) *Module {
	return m.Raw("AtU8", AtomPayload(names...))
}

// Exports appends an "ExpT" table.
func (m *Module) Exports(entries ...Export) *Module {
	rows := make([][3]uint32, len(entries))
	for i, e := range entries {
		rows[i] = [3]uint32{e.Atom, e.Arity, e.Label}
	}
	return m.Raw("ExpT", TablePayload(rows...))
}

// Imports appends an "ImpT" table.
func (m *Module) Imports(entries ...Import) *Module {
	rows := make([][3]uint32, len(entries))
	for i, e := range entries {
		rows[i] = [3]uint32{e.Module, e.Function, e.Arity}
	}
	return m.Raw("ImpT", TablePayload(rows...))
}

// Chunks returns the accumulated chunks.
func (m *Module) Chunks() []Chunk {
	return append([]Chunk(nil), m.chunks...)
}

// Bytes encodes the module.
func (m *Module) Bytes() []byte {
	return Build(m.chunks...)
}

// U32 encodes v big-endian.
func U32(v uint32) []byte {
	return binary.BigEndian.AppendUint32(nil, v)
}

// AtomPayload encodes an atom table payload: a count, then each name
// prefixed by its length byte.
func AtomPayload(names ...string) []byte {
	b := U32(uint32(len(names)))
	for _, n := range names {
		b = append(b, byte(len(n)))
		b = append(b, n...)
	}
	return b
}

// TablePayload encodes a count followed by rows of three big-endian
// integers, the layout of export, local and import tables.
func TablePayload(rows ...[3]uint32) []byte {
	b := U32(uint32(len(rows)))
	for _, r := range rows {
		b = binary.BigEndian.AppendUint32(b, r[0])
		b = binary.BigEndian.AppendUint32(b, r[1])
		b = binary.BigEndian.AppendUint32(b, r[2])
	}
	return b
}

// Record encodes one chunk record padded to a 4-byte boundary.
func Record(c Chunk) []byte {
	b := append([]byte(c.Tag), U32(uint32(len(c.Payload)))...)
	b = append(b, c.Payload...)
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	return b
}

// Build frames chunks with a form length covering exactly the records.
func Build(chunks ...Chunk) []byte {
	var body []byte
	for _, c := range chunks {
		body = append(body, Record(c)...)
	}
	return Frame(uint32(4+len(body)), body)
}

// Frame writes the FOR1/BEAM header with an explicit form length, followed
// by body.
func Frame(formLength uint32, body []byte) []byte {
	b := []byte("FOR1")
	b = append(b, U32(formLength)...)
	b = append(b, "BEAM"...)
	return append(b, body...)
}

// Gzip compresses data the way compressed BEAM files are stored.
func Gzip(data []byte) []byte {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write(data)
	zw.Close()
	return buf.Bytes()
}
