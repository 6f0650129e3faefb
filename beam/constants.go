package beam

// Container framing.
const (
	MagicForm = "FOR1" // outer IFF form tag
	MagicBEAM = "BEAM" // form type

	// HeaderSize is the length of FOR1, the form length and BEAM.
	HeaderSize = 12

	// formPrefix is the number of bytes before the region measured by the
	// form length (the FOR1 tag and the length field itself).
	formPrefix = 8

	// recordHeaderSize is the tag plus length of each chunk record.
	recordHeaderSize = 8
)

// Chunk tags with structured decoders.
const (
	TagAtom    = "Atom"
	TagExports = "ExpT"
	TagImports = "ImpT"
)

// TagAtomUTF8 is the atom table tag written by newer compilers. Its payload
// layout matches Atom; use WithAtomChunk to decode it.
const TagAtomUTF8 = "AtU8"
