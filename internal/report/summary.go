package report

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/podiumhq/podium/internal/domain/stats"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print overall medal totals and distinct counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}
		s := stats.Summarize(t)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Total medals\t%d\n", s.TotalMedals)
		fmt.Fprintf(w, "Gold\t%d\n", s.TotalGold)
		fmt.Fprintf(w, "Silver\t%d\n", s.TotalSilver)
		fmt.Fprintf(w, "Bronze\t%d\n", s.TotalBronze)
		fmt.Fprintf(w, "Athletes\t%d\n", s.TotalAthletes)
		fmt.Fprintf(w, "Countries\t%d\n", s.TotalCountries)
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}
