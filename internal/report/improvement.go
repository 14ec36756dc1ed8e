package report

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/podiumhq/podium/internal/domain/stats"
)

var improvementCmd = &cobra.Command{
	Use:   "improvement",
	Short: "Greatest year-over-year medal gain per country",
	Long: `improvement sums medals per (country, year), takes the difference
between consecutive Olympic appearances and keeps each country's best
gain. Countries appearing in a single year are excluded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "Country\tYear\tTotal\tDelta")
		for _, row := range stats.Improvement(t) {
			fmt.Fprintf(w, "%s\t%d\t%d\t%+d\n", row.Country, row.Year, row.TotalMedals, row.Delta)
		}
		return w.Flush()
	},
}

var trendCmd = &cobra.Command{
	Use:   "trend [country...]",
	Short: "Medal totals per country and year",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "Country\tYear\tTotal")
		for _, p := range stats.Trend(t, args) {
			fmt.Fprintf(w, "%s\t%d\t%d\n", p.Country, p.Year, p.TotalMedals)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(improvementCmd)
	rootCmd.AddCommand(trendCmd)
}
