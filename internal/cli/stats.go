package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/violin/pkg/source"
	"github.com/matzehuels/violin/pkg/stats"
	"github.com/matzehuels/violin/pkg/viewmodel"
)

type statsOpts struct {
	runFlags
	json bool
}

// statsCommand creates the stats command, which prints the per-category
// statistics of a dataset.
func (c *CLI) statsCommand() *cobra.Command {
	var opts statsOpts

	cmd := &cobra.Command{
		Use:   "stats FILE",
		Short: "Print per-category statistics",
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
			if opts.json {
				return writeStatsJSON(c.Out, r.ViewModel)
			}
			_, err = io.WriteString(c.Out, statsTable(r.ViewModel)+"\n")
			return err
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.json, "json", false, "print statistics as JSON")

	return cmd
}

// categoryStats is the JSON shape of one row of the stats command.
type categoryStats struct {
	Name  string           `json:"name"`
	Stats stats.Statistics `json:"stats"`
}

func writeStatsJSON(w io.Writer, vm viewmodel.ViewModel) error {
	rows := make([]categoryStats, 0, len(vm.Categories)+1)
	for _, cat := range vm.Categories {
		rows = append(rows, categoryStats{Name: cat.Name, Stats: cat.Stats})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Categories []categoryStats  `json:"categories"`
		Global     stats.Statistics `json:"global"`
		Dropped    int              `json:"categories_dropped,omitempty"`
	}{rows, vm.Global, vm.Dropped})
}

var statsHeaders = []string{"Category", "N", "Min", "Q1", "Median", "Mean", "Q3", "Max", "SD", "Bandwidth"}

// statsTable renders the statistics of vm as a bordered table followed by a
// summary line.
func statsTable(vm viewmodel.ViewModel) string {
	if !vm.Render {
		return StyleWarning.Render("No valid values.")
	}

	rows := make([][]string, 0, len(vm.Categories))
	for _, cat := range vm.Categories {
		rows = append(rows, statsRow(cat.Name, cat.Stats))
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(statsHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return cellStyle.Foreground(colorCyan)
			default:
				return cellStyle.Align(lipgloss.Right)
			}
		})

	var b strings.Builder
	b.WriteString(StyleTitle.Render(vm.ValueAxis.Title))
	if vm.CategoryAxis.Title != "" {
		b.WriteString(StyleDim.Render(" by " + vm.CategoryAxis.Title))
	}
	b.WriteString("\n")
	b.WriteString(t.Render())
	b.WriteString("\n")

	g := vm.Global
	summary := fmt.Sprintf("%s values · range %s to %s · %s kernel, bandwidth %s",
		humanize.Comma(int64(g.Count)), formatStat(g.Min), formatStat(g.Max),
		vm.Settings.Kernel, formatStat(vm.Settings.Bandwidth))
	b.WriteString(StyleDim.Render(summary))
	if vm.Reduced {
		b.WriteString("\n")
		b.WriteString(StyleWarning.Render(fmt.Sprintf("%d categories not shown (limit reached)", vm.Dropped)))
	}
	return b.String()
}

func statsRow(name string, s stats.Statistics) []string {
	if !s.Defined() {
		return []string{name, "0", "-", "-", "-", "-", "-", "-", "-", "-"}
	}
	return []string{
		name,
		humanize.Comma(int64(s.Count)),
		formatStat(s.Min),
		formatStat(s.Quartile1),
		formatStat(s.Median),
		formatStat(s.Mean),
		formatStat(s.Quartile3),
		formatStat(s.Max),
		formatStat(s.Deviation),
		formatStat(s.BandwidthActual),
	}
}

// formatStat prints v with thousands separators for large magnitudes and up
// to three decimals otherwise.
func formatStat(v float64) string {
	if math.Abs(v) >= 1000 {
		return humanize.CommafWithDigits(v, 1)
	}
	return humanize.FtoaWithDigits(v, 3)
}
