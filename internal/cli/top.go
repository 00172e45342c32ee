package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/citylink/pkg/dashboard"
	"github.com/matzehuels/citylink/pkg/record"
	"github.com/matzehuels/citylink/pkg/view"
)

// topCommand creates the top command that prints a ranked table.
func (c *CLI) topCommand() *cobra.Command {
	var (
		field   string
		n       int
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "top <source>",
		Short: "Print the top cities by a numeric field",
		Example: `  citylink top cities.csv
  citylink top cities.csv --field pop2024 -n 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := record.ParseField(field)
			if err != nil {
				return err
			}
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runTop(ctx, args[0], f, n, noCache)
		},
	}

	cmd.Flags().StringVar(&field, "field", record.GrowthPercent.String(), "ranking field (pop2024, pop2023, growth, growthPct, lat, lon)")
	cmd.Flags().IntVarP(&n, "count", "n", dashboard.DefaultTopN, "number of cities")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runTop(ctx context.Context, source string, f record.Field, n int, noCache bool) error {
	store, _, err := c.loadDataset(ctx, source, noCache)
	if err != nil {
		return err
	}

	top := view.TopN(store.All(), f, n)
	fmt.Println(StyleTitle.Render(fmt.Sprintf("Top %d cities by %s", len(top), f.Column())))
	fmt.Println(rankTable(top, f))
	printDetail("%d of %d cities", len(top), store.Len())
	return nil
}

// rankTable renders ranked records as a rounded lipgloss table whose last
// column is the ranking field.
func rankTable(records []record.Record, f record.Field) string {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{strconv.Itoa(i + 1), r.City, r.Country, r.Continent, formatField(f, r.Value(f))}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rankStyle := lipgloss.NewStyle().Foreground(colorDim).Align(lipgloss.Right)
	valueStyle := lipgloss.NewStyle().Foreground(colorCyan).Align(lipgloss.Right)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "City", "Country", "Continent", f.Column()).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return rankStyle
			case col == 4:
				if row < len(records) && records[row].Value(f) < 0 {
					return valueStyle.Foreground(colorRed)
				}
				return valueStyle
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// formatField formats v the way the table and tooltips do for f.
func formatField(f record.Field, v float64) string {
	switch f {
	case record.Population2024, record.Population2023, record.GrowthAbsolute:
		return view.FormatPopulation(v)
	case record.GrowthPercent:
		return fmt.Sprintf("%.2f%%", v)
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}
