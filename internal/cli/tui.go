package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mhertel/cardgrid/pkg/allocate"
	"github.com/mhertel/cardgrid/pkg/card"
)

// Explorer styles
var (
	exploreOverStyle  = lipgloss.NewStyle().Foreground(colorRed)
	exploreFitStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	exploreTruncStyle = lipgloss.NewStyle().Foreground(colorYellow)
)

// Budget step sizes for the explorer keys.
const (
	budgetStepSmall = 20.0
	budgetStepLarge = 100.0
)

// =============================================================================
// ExplorerModel - Interactive budget exploration
// =============================================================================

// ExplorerModel is the bubbletea model for exploring how the allocation
// reacts to different height budgets. Measurements are computed once;
// every budget change replans the grid.
type ExplorerModel struct {
	Measurements  card.Measurements
	Opts          allocate.Options
	InitialBudget float64
	Grid          card.Grid
	Err           error
}

// NewExplorerModel creates an explorer for fixed measurements.
func NewExplorerModel(m card.Measurements, opts allocate.Options) ExplorerModel {
	opts.SetDefaults()
	model := ExplorerModel{
		Measurements:  m,
		Opts:          opts,
		InitialBudget: opts.HeightBudget,
	}
	model.replan()
	return model
}

func (m *ExplorerModel) replan() {
	m.Grid, m.Err = allocate.Plan(m.Measurements, m.Opts)
}

func (m ExplorerModel) Init() tea.Cmd {
	return nil
}

func (m ExplorerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.Opts.HeightBudget += budgetStepSmall
		case "down", "j":
			m.Opts.HeightBudget -= budgetStepSmall
		case "right", "l":
			m.Opts.HeightBudget += budgetStepLarge
		case "left", "h":
			m.Opts.HeightBudget -= budgetStepLarge
		case "r":
			m.Opts.HeightBudget = m.InitialBudget
		default:
			return m, nil
		}
		if m.Opts.HeightBudget < m.Opts.MinRowHeight {
			m.Opts.HeightBudget = m.Opts.MinRowHeight
		}
		m.replan()
	}
	return m, nil
}

func (m ExplorerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Budget Explorer"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ ±20  ←/→ ±100  r reset  q quit"))
	b.WriteString("\n\n")

	if m.Err != nil {
		b.WriteString(exploreOverStyle.Render("error: " + m.Err.Error()))
		return b.String()
	}

	status := exploreFitStyle.Render("fits")
	if m.Grid.OverBudget {
		status = exploreOverStyle.Render("over budget")
	}
	b.WriteString(fmt.Sprintf("budget %s   total %s   %s\n\n",
		StyleHighlight.Render(fmt.Sprintf("%.0f", m.Grid.HeightBudget)),
		StyleValue.Render(fmt.Sprintf("%.1f", m.Grid.TotalHeight)),
		status))

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := [][]string{}
	for i, row := range m.Grid.Rows {
		trunc := "-"
		for _, cell := range row.Cells {
			if cell.Truncated() {
				trunc = "yes"
				break
			}
		}
		fill := "-"
		if row.Aggregate.MaxNaturalLines > 0 {
			fill = fmt.Sprintf("%.0f%%", 100*float64(row.Lines)/float64(row.Aggregate.MaxNaturalLines))
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%d", row.Lines),
			fmt.Sprintf("%.1f", row.Height),
			fmt.Sprintf("%d", row.Aggregate.MinLines),
			fmt.Sprintf("%d", row.Aggregate.MaxNaturalLines),
			fill,
			trunc,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Row", "Lines", "Height", "Floor", "Natural", "Fill", "Truncated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < len(m.Grid.Rows) {
				for _, cell := range m.Grid.Rows[row].Cells {
					if cell.Truncated() {
						return exploreTruncStyle
					}
				}
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  fill %.0f%% mean · %.0f%% min · %d truncated row(s)",
		m.Grid.Stats.MeanFill*100, m.Grid.Stats.MinFill*100, m.Grid.Stats.TruncatedRows)))

	return b.String()
}
