package render

import (
	"bytes"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/wippyai/beamfile/beam"
)

// ChunkRows returns one row per chunk record: offset, tag, length, padding
// and a short description of the decoded value.
func ChunkRows(c *beam.Container) [][]string {
	chunks := c.Chunks()
	rows := make([][]string, 0, len(chunks))
	for _, ci := range chunks {
		content := "skipped"
		if ci.Decoded {
			v, _ := c.Lookup(ci.Tag)
			content = Summary(v)
		}
		rows = append(rows, []string{
			strconv.FormatInt(ci.Offset, 10),
			ci.Tag,
			strconv.FormatUint(uint64(ci.Length), 10),
			strconv.FormatInt(ci.Padding, 10),
			content,
		})
	}
	return rows
}

// ChunkHeaders are the column titles for ChunkRows.
var ChunkHeaders = []string{"OFFSET", "TAG", "LENGTH", "PAD", "CONTENT"}

func encodeChunks(buf *bytes.Buffer, c *beam.Container) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(ChunkHeaders...).
		Rows(ChunkRows(c)...)
	buf.WriteString(t.Render())
	buf.WriteByte('\n')
	return nil
}
