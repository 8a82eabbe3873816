package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/steamvent/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PlanBrowserModel - Interactive plan browser
// =============================================================================

// PlanBrowserModel is the bubbletea model behind "solve --browse". It lists
// the plans of a result and shows the steps of the one under the cursor.
type PlanBrowserModel struct {
	Origin string
	Budget int
	Plans  []pipeline.Plan
	Cursor int
}

// NewPlanBrowserModel creates a browser over the plans of res.
func NewPlanBrowserModel(res *pipeline.Result) PlanBrowserModel {
	return PlanBrowserModel{
		Origin: res.Origin,
		Budget: res.Budget,
		Plans:  res.Plans,
	}
}

func (m PlanBrowserModel) Init() tea.Cmd {
	return nil
}

func (m PlanBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc", "enter":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Plans)-1 {
			m.Cursor++
		}
	case "home", "g":
		m.Cursor = 0
	case "end", "G":
		m.Cursor = max(len(m.Plans)-1, 0)
	}
	return m, nil
}

func (m PlanBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Plans from %s in %d minutes", m.Origin, m.Budget)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	for i, p := range m.Plans {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%2d. %5d  %s", cursor, i+1, p.Pressure, routeLine(m.Origin, p))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if len(m.Plans) == 0 {
		return b.String()
	}

	p := m.Plans[m.Cursor]
	b.WriteString("\n")
	if len(p.Route) == 0 {
		b.WriteString(listDimStyle.Render("  no valve opened"))
	} else {
		b.WriteString(stepsTable(p))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d minutes used", m.Cursor+1, len(m.Plans), p.Elapsed)))

	return b.String()
}

func routeLine(origin string, p pipeline.Plan) string {
	return strings.Join(append([]string{origin}, p.Valves()...), " "+iconArrow+" ")
}
