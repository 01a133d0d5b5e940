package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/gslbridge/pkg/ir"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m NodeListModel, keys ...string) NodeListModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(NodeListModel)
	}
	return m
}

func TestNodeListNavigation(t *testing.T) {
	res := &ir.Result{Material: "M"}
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		res.Nodes = append(res.Nodes, ir.Node{ID: name, Name: name})
	}
	m := NewNodeListModel(res)
	m.Height = 2

	tests := []struct {
		name       string
		keys       []string
		cursor     int
		wantOffset int
	}{
		{"up at top stays", []string{"up"}, 0, 0},
		{"down scrolls", []string{"j", "down", "j"}, 3, 2},
		{"down clamps at end", []string{"G", "j"}, 4, 3},
		{"home resets", []string{"G", "g"}, 0, 0},
		{"up scrolls back", []string{"G", "k", "k", "k"}, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := press(m, tt.keys...)
			if got.Cursor != tt.cursor || got.Offset != tt.wantOffset {
				t.Errorf("cursor/offset = %d/%d, want %d/%d", got.Cursor, got.Offset, tt.cursor, tt.wantOffset)
			}
		})
	}
}

func TestNodeListQuit(t *testing.T) {
	m := NewNodeListModel(sampleResult())
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestNodeListWindowSize(t *testing.T) {
	m := NewNodeListModel(sampleResult())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	if got := next.(NodeListModel).Height; got != 16 {
		t.Errorf("Height = %d, want 16", got)
	}
	next, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 4})
	if got := next.(NodeListModel).Height; got != 5 {
		t.Errorf("Height = %d, want minimum 5", got)
	}
}

func TestNodeListView(t *testing.T) {
	m := press(NewNodeListModel(sampleResult()), "j")
	view := m.View()

	for _, s := range []string{"Wood", "Value_000", "Math_001", "[2/2]", "operation", "ADD", "Value_000[0]"} {
		if !strings.Contains(view, s) {
			t.Errorf("view missing %q", s)
		}
	}
}

func TestNodeListViewEmpty(t *testing.T) {
	view := NewNodeListModel(&ir.Result{Material: "Empty"}).View()
	if !strings.Contains(view, "(no nodes)") {
		t.Errorf("view = %q", view)
	}
}
