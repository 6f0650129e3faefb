package beam

import (
	"strconv"
	"unicode/utf8"

	"github.com/wippyai/beamfile/errors"
)

// Cursor is the reading interface a chunk decoder works with. Reads that
// would cross the end of the current chunk fail.
type Cursor interface {
	ReadByte() (byte, error)
	ReadBytes(n int) ([]byte, error)
	ReadTag() (string, error)
	ReadU32() (uint32, error)
	Skip(n int64) error
	Position() int64
}

// ChunkDecoder consumes exactly length payload bytes from r and returns the
// decoded value. view exposes chunks decoded earlier in the same file.
type ChunkDecoder func(r Cursor, length uint32, view View) (any, error)

// builtinDecoders is the closed set of structured chunk decoders. Every
// other tag is skipped by Opaque.
var builtinDecoders = map[string]ChunkDecoder{
	TagAtom:    DecodeAtoms,
	TagExports: DecodeExports,
	TagImports: DecodeImports,
}

// Opaque skips the payload and decodes to nil.
func Opaque(r Cursor, length uint32, _ View) (any, error) {
	if err := r.Skip(int64(length)); err != nil {
		return nil, err
	}
	return nil, nil
}

// DecodeAtoms decodes an atom table: a count followed by length-prefixed
// UTF-8 names.
func DecodeAtoms(r Cursor, _ uint32, _ View) (any, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}

	// The count is untrusted; the table grows as entries are read.
	atoms := make([]string, 0, min(count, 1024))
	for i := uint32(0); i < count; i++ {
		n, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		at := r.Position()
		data, err := r.ReadBytes(int(n))
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(data) {
			return nil, errors.InvalidEncoding(at, data)
		}
		atoms = append(atoms, string(data))
	}
	return atoms, nil
}

// DecodeExports decodes an export table into "name/arity" -> label.
func DecodeExports(r Cursor, _ uint32, view View) (any, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}

	table := NewExportTable()
	for i := uint32(0); i < count; i++ {
		at := r.Position()
		fun, arity, label, err := readTriple(r)
		if err != nil {
			return nil, err
		}
		name, err := resolveAtom(view, fun, at)
		if err != nil {
			return nil, err
		}
		table.Set(name+"/"+strconv.FormatUint(uint64(arity), 10), label)
	}
	return table, nil
}

// DecodeImports decodes an import table into "module:name/arity" entries.
func DecodeImports(r Cursor, _ uint32, view View) (any, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}

	imports := make([]string, 0, min(count, 1024))
	for i := uint32(0); i < count; i++ {
		at := r.Position()
		mod, fun, arity, err := readTriple(r)
		if err != nil {
			return nil, err
		}
		modName, err := resolveAtom(view, mod, at)
		if err != nil {
			return nil, err
		}
		funName, err := resolveAtom(view, fun, at+4)
		if err != nil {
			return nil, err
		}
		imports = append(imports, modName+":"+funName+"/"+strconv.FormatUint(uint64(arity), 10))
	}
	return imports, nil
}

func readTriple(r Cursor) (a, b, c uint32, err error) {
	if a, err = r.ReadU32(); err != nil {
		return
	}
	if b, err = r.ReadU32(); err != nil {
		return
	}
	c, err = r.ReadU32()
	return
}

// resolveAtom maps a 1-based atom index to its name. offset is where the
// index was read, for error reporting.
func resolveAtom(view View, index uint32, offset int64) (string, error) {
	atoms, ok := view.Atoms()
	if !ok {
		return "", errors.MissingDependency(offset, view.AtomChunk())
	}
	if index < 1 || uint64(index) > uint64(len(atoms)) {
		return "", errors.IndexOutOfRange(offset, index, len(atoms))
	}
	return atoms[index-1], nil
}
