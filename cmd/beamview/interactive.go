package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/beamfile/beam"
	"github.com/wippyai/beamfile/config"
	"github.com/wippyai/beamfile/render"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	skippedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	chromeHeight  = 4 // title, blank line, blank line, help
)

type browserModel struct {
	err       error
	container *beam.Container
	cfg       *config.Config
	load      func() (*beam.Container, error)
	filename  string
	chunks    []beam.ChunkInfo
	filter    textinput.Model
	detail    viewport.Model
	selected  int
	width     int
	height    int
	state     modelState
}

type modelState int

const (
	stateList modelState = iota
	stateFilter
	stateDetail
)

func newBrowserModel(filename string, cfg *config.Config, load func() (*beam.Container, error)) *browserModel {
	filter := textinput.New()
	filter.Prompt = "/"
	filter.Placeholder = "tag"
	filter.CharLimit = 4

	return &browserModel{
		cfg:      cfg,
		load:     load,
		filename: filename,
		filter:   filter,
		detail:   viewport.New(defaultWidth, defaultHeight-chromeHeight),
		width:    defaultWidth,
		height:   defaultHeight,
		state:    stateList,
	}
}

type loadedMsg struct {
	err       error
	container *beam.Container
}

func (m *browserModel) Init() tea.Cmd {
	return m.loadContainer
}

func (m *browserModel) loadContainer() tea.Msg {
	c, err := m.load()
	return loadedMsg{container: c, err: err}
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateFilter {
			return m.updateFilter(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateList && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateList && m.selected < len(m.chunks)-1 {
				m.selected++
			}

		case "/":
			if m.state == stateList {
				m.state = stateFilter
				return m, m.filter.Focus()
			}

		case "enter":
			if m.state == stateList && len(m.chunks) > 0 {
				m.detail.SetContent(m.detailText(m.chunks[m.selected]))
				m.detail.GotoTop()
				m.state = stateDetail
			}

		case "esc":
			switch m.state {
			case stateDetail:
				m.state = stateList
			case stateList:
				if m.filter.Value() != "" {
					m.filter.SetValue("")
					m.applyFilter()
				}
			}
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.container = msg.container
		m.applyFilter()
	}

	if m.state == stateDetail {
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *browserModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter", "esc":
		m.filter.Blur()
		m.state = stateList
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

// applyFilter keeps the chunk records whose tag starts with the filter
// text, ignoring case.
func (m *browserModel) applyFilter() {
	if m.container == nil {
		return
	}
	prefix := strings.ToLower(m.filter.Value())
	m.chunks = m.chunks[:0]
	for _, ci := range m.container.Chunks() {
		if strings.HasPrefix(strings.ToLower(ci.Tag), prefix) {
			m.chunks = append(m.chunks, ci)
		}
	}
	if m.selected >= len(m.chunks) {
		m.selected = max(len(m.chunks)-1, 0)
	}
}

func (m *browserModel) resize(width, height int) {
	m.width = width
	m.height = height
	m.detail.Width = width
	m.detail.Height = max(height-chromeHeight, 1)
}

func (m *browserModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.container == nil {
		return "Decoding " + m.filename + "..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("BEAM"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateList, stateFilter:
		if m.state == stateFilter || m.filter.Value() != "" {
			b.WriteString(m.filter.View())
			b.WriteString("\n\n")
		}
		if len(m.chunks) == 0 {
			b.WriteString(skippedStyle.Render("no chunks match"))
			b.WriteString("\n")
		}
		for i, ci := range m.chunks {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + m.formatChunk(ci, false)))
			} else {
				b.WriteString("  " + m.formatChunk(ci, true))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter open • / filter • q quit"))

	case stateDetail:
		b.WriteString(m.detail.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render(fmt.Sprintf("↑/↓ scroll • esc back • q quit • %3.f%%", m.detail.ScrollPercent()*100)))
	}

	return b.String()
}

func (m *browserModel) formatChunk(ci beam.ChunkInfo, styled bool) string {
	tag, label, summary := ci.Tag, m.cfg.Label(ci.Tag), "skipped"
	if ci.Decoded {
		v, _ := m.container.Lookup(ci.Tag)
		summary = render.Summary(v)
	}
	if styled {
		tag = tagStyle.Render(tag)
		if label != "" {
			label = labelStyle.Render(label)
		}
		if !ci.Decoded {
			summary = skippedStyle.Render(summary)
		}
	}
	line := fmt.Sprintf("%s  %8d  %8d bytes  %s", tag, ci.Offset, ci.Length, summary)
	if label != "" {
		line += "  " + label
	}
	return line
}

// detailText lists the decoded entries of one chunk, one per line.
func (m *browserModel) detailText(ci beam.ChunkInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s at offset %d, %d bytes, %d padding\n\n", ci.Tag, ci.Offset, ci.Length, ci.Padding)

	if !ci.Decoded {
		b.WriteString("payload skipped")
		return b.String()
	}

	v, _ := m.container.Lookup(ci.Tag)
	switch v := v.(type) {
	case []string:
		for i, s := range v {
			fmt.Fprintf(&b, "%5d  %s\n", i+1, s)
		}
	case *beam.ExportTable:
		for _, key := range v.Keys() {
			label, _ := v.Get(key)
			fmt.Fprintf(&b, "%-40s label %d\n", key, label)
		}
	default:
		fmt.Fprintf(&b, "%v\n", v)
	}
	return b.String()
}

func runInteractive(filename string, cfg *config.Config, stderr io.Writer) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive mode needs a terminal; use --format instead")
	}

	m := newBrowserModel(filename, cfg, func() (*beam.Container, error) {
		return decode(filename, cfg, stderr)
	})
	if width, height, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		m.resize(width, height)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
