package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bowmanhq/bowman/pkg/aim"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// AimListModel is the bubbletea model behind "search --interactive".
type AimListModel struct {
	Aims     []aim.Aim
	Cursor   int
	Selected *aim.Aim
	Height   int
	Offset   int
}

// NewAimListModel returns a picker over aims.
func NewAimListModel(aims []aim.Aim) AimListModel {
	return AimListModel{Aims: aims, Height: 15}
}

func (m AimListModel) Init() tea.Cmd {
	return nil
}

func (m AimListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Aims)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Aims) == 0 {
				return m, tea.Quit
			}
			a := m.Aims[m.Cursor]
			m.Selected = &a
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m AimListModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Select Aim"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Aims))
	var rows [][]string
	for i := m.Offset; i < end; i++ {
		a := m.Aims[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, a.Title, a.Status, joinTags(a.Tags)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Aim", "Status", "Tags").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			idx := m.Offset + row
			if idx >= len(m.Aims) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col == 2 {
				if m.Aims[idx].Status == aim.StatusReached {
					base = base.Foreground(colorGreen)
				} else {
					base = base.Foreground(colorYellow)
				}
			}
			if idx == m.Cursor {
				return base.Bold(true).Foreground(colorCyan)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.Aims)), len(m.Aims))))
	return b.String()
}
