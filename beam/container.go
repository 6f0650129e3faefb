package beam

import (
	"bytes"
	"encoding/json"
)

// ChunkInfo describes one chunk record as it appeared in the file.
type ChunkInfo struct {
	Tag     string
	Offset  int64  // absolute offset of the record's tag
	Length  uint32 // declared payload length
	Padding int64  // alignment bytes after the payload
	Decoded bool   // false when the payload was skipped as opaque
}

// End returns the offset of the next record.
func (ci ChunkInfo) End() int64 {
	return ci.Offset + recordHeaderSize + int64(ci.Length) + ci.Padding
}

// ExportTable maps "name/arity" to a code label, in insertion order.
// A repeated key keeps its first position and takes the latest label.
type ExportTable struct {
	keys   []string
	labels map[string]uint32
}

// NewExportTable returns an empty table.
func NewExportTable() *ExportTable {
	return &ExportTable{labels: make(map[string]uint32)}
}

// Set records label for key.
func (t *ExportTable) Set(key string, label uint32) {
	if _, ok := t.labels[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.labels[key] = label
}

// Get returns the label stored for key.
func (t *ExportTable) Get(key string) (uint32, bool) {
	label, ok := t.labels[key]
	return label, ok
}

// Keys returns the keys in insertion order.
func (t *ExportTable) Keys() []string {
	return append([]string(nil), t.keys...)
}

// Len returns the number of distinct keys.
func (t *ExportTable) Len() int {
	return len(t.keys)
}

// MarshalJSON encodes the table as a JSON object in insertion order.
func (t *ExportTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range t.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		label, err := json.Marshal(t.labels[key])
		if err != nil {
			return nil, err
		}
		buf.Write(label)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Container is the decoded form of a BEAM file: chunk tag to decoded value,
// in the order the chunks appear. Values are []string for atom and import
// tables, *ExportTable for the export table, and nil for skipped chunks.
type Container struct {
	tags      []string
	values    map[string]any
	chunks    []ChunkInfo
	atomChunk string
}

func newContainer(atomChunk string) *Container {
	return &Container{
		values:    make(map[string]any),
		atomChunk: atomChunk,
	}
}

// put stores value under tag. A repeated tag keeps its first position.
func (c *Container) put(info ChunkInfo, value any) {
	if _, ok := c.values[info.Tag]; !ok {
		c.tags = append(c.tags, info.Tag)
	}
	c.values[info.Tag] = value
	c.chunks = append(c.chunks, info)
}

// Tags returns the distinct chunk tags in first-seen order.
func (c *Container) Tags() []string {
	return append([]string(nil), c.tags...)
}

// Len returns the number of distinct tags.
func (c *Container) Len() int {
	return len(c.tags)
}

// Lookup returns the decoded value stored under tag. A skipped chunk is
// present with a nil value.
func (c *Container) Lookup(tag string) (any, bool) {
	v, ok := c.values[tag]
	return v, ok
}

// Chunks returns every record in file order, including repeated tags.
func (c *Container) Chunks() []ChunkInfo {
	return append([]ChunkInfo(nil), c.chunks...)
}

// AtomChunk returns the tag that holds the atom table.
func (c *Container) AtomChunk() string {
	return c.atomChunk
}

// Atoms returns the decoded atom table.
func (c *Container) Atoms() ([]string, bool) {
	atoms, ok := c.values[c.atomChunk].([]string)
	return atoms, ok
}

// Exports returns the decoded export table.
func (c *Container) Exports() (*ExportTable, bool) {
	t, ok := c.values[TagExports].(*ExportTable)
	return t, ok
}

// Imports returns the decoded import table.
func (c *Container) Imports() ([]string, bool) {
	imports, ok := c.values[TagImports].([]string)
	return imports, ok
}

// MarshalJSON encodes the container as a JSON object in chunk order, with
// null for skipped chunks.
func (c *Container) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, tag := range c.tags {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, tag); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(c.values[tag]); err != nil {
			return nil, err
		}
		// Encode terminates each value with a newline.
		buf.Truncate(buf.Len() - 1)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1)
	return nil
}

// View is the read-only access a chunk decoder gets to the chunks decoded
// before it.
type View interface {
	// Lookup returns the value decoded for tag.
	Lookup(tag string) (any, bool)
	// Atoms returns the atom table, if it has been decoded.
	Atoms() ([]string, bool)
	// AtomChunk returns the tag the atom table is stored under.
	AtomChunk() string
}

// view hides the container's mutators from decoders.
type view struct {
	c *Container
}

func (v view) Lookup(tag string) (any, bool) { return v.c.Lookup(tag) }
func (v view) Atoms() ([]string, bool)       { return v.c.Atoms() }
func (v view) AtomChunk() string             { return v.c.AtomChunk() }
