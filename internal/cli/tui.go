package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/tilewright/tilewright/pkg/mapwidget"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// OpLogModel is the bubbletea model for browsing a widget payload's
// operation log. The argument list of the call under the cursor is shown
// below the table.
type OpLogModel struct {
	Widget *mapwidget.Widget
	Cursor int
	Height int
	Offset int
}

// NewOpLogModel creates a new operation log model.
func NewOpLogModel(w *mapwidget.Widget) OpLogModel {
	return OpLogModel{
		Widget: w,
		Height: 15,
	}
}

func (m OpLogModel) Init() tea.Cmd {
	return nil
}

func (m OpLogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Widget.Calls)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "g", "home":
			m.Cursor = 0
			m.Offset = 0
		case "G", "end":
			m.Cursor = len(m.Widget.Calls) - 1
			if m.Cursor >= m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m OpLogModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Widget " + m.Widget.MapID))
	b.WriteString(" ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("(%d operations, %d assets)",
		len(m.Widget.Calls), len(m.Widget.Dependencies))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if len(m.Widget.Calls) == 0 {
		b.WriteString(listDimStyle.Render("  (empty operation log)"))
		b.WriteString("\n")
		return b.String()
	}

	end := m.Offset + m.Height
	if end > len(m.Widget.Calls) {
		end = len(m.Widget.Calls)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		op := m.Widget.Calls[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			fmt.Sprintf("%d", i+1),
			op.Method,
			formatArgs(op.Args),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Method", "Arguments").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 3 {
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")

	op := m.Widget.Calls[m.Cursor]
	b.WriteString(StyleHighlight.Render("  " + op.Method))
	b.WriteString("\n")
	for i, arg := range op.Args {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("    arg[%d] ", i)))
		b.WriteString(listNormalStyle.Render(argJSON(arg)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Widget.Calls))))

	return b.String()
}

// formatArgs renders an argument list on one line, truncated to fit the
// table.
func formatArgs(args []any) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = argJSON(arg)
	}
	s := strings.Join(parts, ", ")
	if len(s) > 48 {
		s = s[:45] + "..."
	}
	return s
}

func argJSON(arg any) string {
	data, err := json.Marshal(arg)
	if err != nil {
		return fmt.Sprintf("%v", arg)
	}
	return string(data)
}
