package main

import (
	goerrors "errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/beamfile/beam"
	"github.com/wippyai/beamfile/config"
	"github.com/wippyai/beamfile/testbed"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadedModel(t *testing.T) *browserModel {
	t.Helper()
	c, err := beam.DecodeBytes(testbed.New().
		Atoms("demo", "start", "io", "format").
		Raw("Code", []byte{1, 2, 3, 4}).
		Imports(testbed.Import{Module: 3, Function: 4, Arity: 2}).
		Exports(testbed.Export{Atom: 2, Arity: 0, Label: 2}).
		Bytes())
	if err != nil {
		t.Fatalf("DecodeBytes: %v", err)
	}

	m := newBrowserModel("demo.beam", config.Default(), func() (*beam.Container, error) {
		return c, nil
	})
	msg := m.Init()()
	m.Update(msg)
	return m
}

func send(m *browserModel, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(key(k))
	}
	return cmd
}

func TestBrowserLoads(t *testing.T) {
	m := loadedModel(t)
	if len(m.chunks) != 4 {
		t.Fatalf("chunks: got %d, want 4", len(m.chunks))
	}
	view := m.View()
	for _, s := range []string{"demo.beam", "Atom", "Code", "ImpT", "ExpT", "4 entries", "skipped", "bytecode"} {
		if !strings.Contains(view, s) {
			t.Errorf("view missing %q:\n%s", s, view)
		}
	}
}

func TestBrowserLoadError(t *testing.T) {
	m := newBrowserModel("bad.beam", config.Default(), func() (*beam.Container, error) {
		return nil, goerrors.New("boom")
	})
	m.Update(m.Init()())
	if !strings.Contains(m.View(), "boom") {
		t.Errorf("view does not show error: %s", m.View())
	}
}

func TestBrowserNavigation(t *testing.T) {
	m := loadedModel(t)

	send(m, "up")
	if m.selected != 0 {
		t.Errorf("up at top: got %d", m.selected)
	}
	send(m, "down", "j", "down", "down", "down")
	if m.selected != 3 {
		t.Errorf("down past end: got %d, want 3", m.selected)
	}
	send(m, "k")
	if m.selected != 2 {
		t.Errorf("k: got %d, want 2", m.selected)
	}
}

func TestBrowserDetail(t *testing.T) {
	m := loadedModel(t)

	send(m, "down", "down", "enter")
	if m.state != stateDetail {
		t.Fatalf("state: got %v, want detail", m.state)
	}
	if !strings.Contains(m.View(), "io:format/2") {
		t.Errorf("detail missing import:\n%s", m.View())
	}

	send(m, "esc")
	if m.state != stateList {
		t.Errorf("esc: got state %v", m.state)
	}

	send(m, "up", "enter")
	if !strings.Contains(m.View(), "payload skipped") {
		t.Errorf("detail of opaque chunk:\n%s", m.View())
	}
}

func TestBrowserFilter(t *testing.T) {
	m := loadedModel(t)

	send(m, "/")
	if m.state != stateFilter {
		t.Fatalf("state: got %v, want filter", m.state)
	}
	send(m, "e")
	if len(m.chunks) != 1 || m.chunks[0].Tag != "ExpT" {
		t.Errorf("filter e: got %v", m.chunks)
	}

	// q is filter text while typing, not quit.
	if cmd := send(m, "q"); cmd != nil {
		if _, ok := cmd().(tea.QuitMsg); ok {
			t.Error("q quit while filtering")
		}
	}
	if len(m.chunks) != 0 {
		t.Errorf("filter eq: got %v", m.chunks)
	}

	send(m, "enter")
	if m.state != stateList {
		t.Errorf("enter: got state %v", m.state)
	}
	if !strings.Contains(m.View(), "no chunks match") {
		t.Errorf("view:\n%s", m.View())
	}

	send(m, "esc")
	if len(m.chunks) != 4 {
		t.Errorf("esc should clear filter: got %d chunks", len(m.chunks))
	}
}

func TestBrowserQuit(t *testing.T) {
	m := loadedModel(t)
	cmd := send(m, "q")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg")
	}
}

func TestBrowserResize(t *testing.T) {
	m := loadedModel(t)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.detail.Width != 120 || m.detail.Height != 40-chromeHeight {
		t.Errorf("viewport: got %dx%d", m.detail.Width, m.detail.Height)
	}
}
