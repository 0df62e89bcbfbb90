package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/violin/pkg/source"
	"github.com/matzehuels/violin/pkg/viewmodel"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	panelStyle        = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

const (
	defaultListHeight = 15
	sparklineWidth    = 48
)

// inspectCommand creates the inspect command, an interactive browser over the
// categories of a dataset.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts runFlags

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Browse categories, statistics and density curves",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			ds, err := source.Load(ctx, args[0], res.Source)
			if err != nil {
				return err
			}
			runner := c.newRunner(res.Config.Cache, opts.noCache)
			defer runner.Close()
			r, err := runner.Execute(ctx, ds, res.Options)
			if err != nil {
				return err
			}
			if !r.ViewModel.Render {
				printWarning("%s has no valid values", args[0])
				return nil
			}

			_, err = tea.NewProgram(newInspectModel(r.ViewModel), tea.WithContext(ctx), tea.WithAltScreen()).Run()
			return err
		},
	}

	opts.register(cmd)
	return cmd
}

// =============================================================================
// inspectModel - Interactive category browser
// =============================================================================

// inspectModel is the bubbletea model of the inspect command: a scrolling
// category list next to the details of the selected category.
type inspectModel struct {
	vm     viewmodel.ViewModel
	cursor int
	offset int
	height int
}

func newInspectModel(vm viewmodel.ViewModel) inspectModel {
	return inspectModel{vm: vm, height: defaultListHeight}
}

func (m inspectModel) Init() tea.Cmd {
	return nil
}

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	n := len(m.vm.Categories)
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < n-1 {
				m.cursor++
			}
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			m.cursor = max(n-1, 0)
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
	}

	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	return m, nil
}

func (m inspectModel) View() string {
	var b strings.Builder

	title := m.vm.ValueAxis.Title
	if m.vm.CategoryAxis.Title != "" {
		title += " by " + m.vm.CategoryAxis.Title
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.listView(), "  ", m.detailView()))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.vm.Categories))))
	if m.vm.Reduced {
		b.WriteString(StyleWarning.Render(fmt.Sprintf("  %d categories not shown", m.vm.Dropped)))
	}
	return b.String()
}

func (m inspectModel) listView() string {
	var b strings.Builder
	end := min(m.offset+m.height, len(m.vm.Categories))
	for i := m.offset; i < end; i++ {
		cat := m.vm.Categories[i]
		line := fmt.Sprintf("%-20s %8s", truncate(cat.Name, 20), humanize.Comma(int64(cat.Stats.Count)))
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(listNormalStyle.Render("  " + line))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return panelStyle.Render(b.String())
}

func (m inspectModel) detailView() string {
	if len(m.vm.Categories) == 0 {
		return ""
	}
	cat := m.vm.Categories[m.cursor]
	s := cat.Stats

	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(cat.Color.Fill)).Render("██")
	var b strings.Builder
	b.WriteString(swatch + " " + StyleTitle.Render(cat.Name))
	b.WriteString("\n\n")

	if !s.Defined() {
		b.WriteString(listDimStyle.Render("no valid values"))
		return panelStyle.Render(b.String())
	}

	rows := [][]string{
		{"count", humanize.Comma(int64(s.Count)), "mean", formatStat(s.Mean)},
		{"min", formatStat(s.Min), "max", formatStat(s.Max)},
		{"q1", formatStat(s.Quartile1), "q3", formatStat(s.Quartile3)},
		{"median", formatStat(s.Median), "iqr", formatStat(s.IQR)},
		{"sd", formatStat(s.Deviation), "95% ci", formatStat(s.ConfidenceLower) + " to " + formatStat(s.ConfidenceUpper)},
		{"bandwidth", formatStat(s.BandwidthActual), "silverman", formatStat(s.BandwidthSilverman)},
		{"whiskers", formatStat(cat.Whiskers.Low) + " to " + formatStat(cat.Whiskers.High), "distinct", humanize.Comma(int64(len(cat.Barcode)))},
	}
	keyStyle := lipgloss.NewStyle().Foreground(colorGray)
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col%2 == 0 {
				return keyStyle.PaddingRight(1)
			}
			return StyleNumber.PaddingRight(2)
		})
	b.WriteString(t.Render())
	b.WriteString("\n")

	b.WriteString(StyleNumber.Render(sparkline(cat.Density, sparklineWidth)))
	b.WriteString("\n")
	if len(cat.Density) > 0 {
		lo, hi := cat.Density[0].X, cat.Density[len(cat.Density)-1].X
		b.WriteString(listDimStyle.Render(fmt.Sprintf("%-*s%s", sparklineWidth-len(formatStat(hi)), formatStat(lo), formatStat(hi))))
		b.WriteString("\n")
	}
	if cat.Converged {
		b.WriteString(StyleSuccess.Render("tails converged to zero"))
	} else {
		b.WriteString(listDimStyle.Render("tails bounded by the sample extent"))
	}
	return panelStyle.Render(b.String())
}

// =============================================================================
// Helpers
// =============================================================================

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// sparkline draws points as width columns of block characters, each column
// showing the highest density in its slice of the x range. Zero density is a
// blank.
func sparkline(points []viewmodel.DensityPoint, width int) string {
	if len(points) == 0 || width <= 0 {
		return ""
	}
	lo, hi := points[0].X, points[len(points)-1].X
	cols := make([]float64, width)
	var peak float64
	for _, p := range points {
		i := 0
		if hi > lo {
			i = int((p.X - lo) / (hi - lo) * float64(width-1))
		}
		i = min(max(i, 0), width-1)
		cols[i] = math.Max(cols[i], p.Y)
		peak = math.Max(peak, p.Y)
	}

	out := make([]rune, width)
	for i, y := range cols {
		if y <= 0 || peak <= 0 {
			out[i] = ' '
			continue
		}
		level := int(math.Ceil(y/peak*float64(len(sparkLevels)))) - 1
		out[i] = sparkLevels[min(max(level, 0), len(sparkLevels)-1)]
	}
	return string(out)
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
