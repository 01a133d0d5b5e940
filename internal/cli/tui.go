package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/gslbridge/pkg/ir"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	detailKeyStyle    = lipgloss.NewStyle().Foreground(colorGray).Width(18)
)

// =============================================================================
// NodeListModel - Interactive node browser
// =============================================================================

// NodeListModel is the bubbletea model for browsing a translation result.
// The upper pane lists nodes; the lower pane shows the selected node's
// ports, parameters and links.
type NodeListModel struct {
	Result *ir.Result
	Cursor int
	Height int
	Offset int
}

// NewNodeListModel creates a new node list model.
func NewNodeListModel(res *ir.Result) NodeListModel {
	return NodeListModel{Result: res, Height: 12}
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Result.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = max(len(m.Result.Nodes)-1, 0)
			m.Offset = max(m.Cursor-m.Height+1, 0)
		}
	case tea.WindowSizeMsg:
		// Half the screen for the list, the rest for details.
		m.Height = max(msg.Height/2-4, 5)
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

func (m NodeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Result.Material))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	if len(m.Result.Nodes) == 0 {
		b.WriteString(listDimStyle.Render("  (no nodes)"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Result.Nodes))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.Result.Nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, n.ID, n.Class, fmt.Sprintf("%d/%d", len(n.Inputs), len(n.Outputs))})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Class", "In/Out").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 3 {
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Result.Nodes))))
	b.WriteString("\n\n")
	b.WriteString(m.details(m.Result.Nodes[m.Cursor]))
	return b.String()
}

// details renders the selected node's ports, parameters and links.
func (m NodeListModel) details(n ir.Node) string {
	var b strings.Builder
	line := func(k, v string) {
		b.WriteString(detailKeyStyle.Render(k) + " " + StyleValue.Render(v) + "\n")
	}

	line("name", n.Name)
	line("inputs", strings.Join(n.Inputs, ", "))
	line("outputs", strings.Join(n.Outputs, ", "))
	if n.Mode != "" {
		line("mode", n.Mode)
	}
	for _, k := range slices.Sorted(maps.Keys(n.Params)) {
		line(k, fmt.Sprintf("%v", n.Params[k]))
	}

	for _, l := range m.Result.Links {
		switch n.ID {
		case l.To:
			b.WriteString(listDimStyle.Render(fmt.Sprintf("  %s[%d] %s in[%d]", l.From, l.OutIndex, iconArrow, l.InIndex)) + "\n")
		case l.From:
			b.WriteString(listDimStyle.Render(fmt.Sprintf("  out[%d] %s %s[%d]", l.OutIndex, iconArrow, l.To, l.InIndex)) + "\n")
		}
	}
	return b.String()
}
