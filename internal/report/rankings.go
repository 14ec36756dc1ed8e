package report

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/podiumhq/podium/internal/domain/model"
	"github.com/podiumhq/podium/internal/domain/stats"
)

var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "Top countries by total medals",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}
		return printRanking("Country", stats.TopCountries(t, flagTop))
	},
}

var athletesCmd = &cobra.Command{
	Use:   "athletes",
	Short: "Top athletes by total medals, with per-type sums",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}
		entries := stats.TopAthletes(t, flagTop)
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "Athlete\tCountry\tSport\tGold\tSilver\tBronze\tTotal")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
				e.Athlete, e.Country, e.Sport, e.Gold, e.Silver, e.Bronze, e.TotalMedals)
		}
		return w.Flush()
	},
}

var sportsCmd = &cobra.Command{
	Use:   "sports",
	Short: "Medal totals by sport",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}
		return printRanking("Sport", stats.MedalsBySport(t))
	},
}

var goldShareCmd = &cobra.Command{
	Use:   "gold-share",
	Short: "Gold medal share per country",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "Country\tGold share")
		for _, e := range stats.GoldProportion(t) {
			fmt.Fprintf(w, "%s\t%.3f\n", e.Label, e.Value)
		}
		return w.Flush()
	},
}

var athletesPerCountryCmd = &cobra.Command{
	Use:   "athletes-per-country",
	Short: "Distinct athlete counts per country",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}
		return printRanking("Country", stats.AthletesPerCountry(t))
	},
}

var yearCmd = &cobra.Command{
	Use:   "year <year>",
	Short: "Country medal totals for one year",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		year, err := strconv.Atoi(args[0])
		if err != nil {
			return errors.New("year must be an integer")
		}
		t, err := loadTable()
		if err != nil {
			return err
		}
		return printRanking("Country", stats.MedalsInYear(t, year))
	},
}

func printRanking(label string, r model.Ranking) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tMedals\n", label)
	for _, e := range r {
		fmt.Fprintf(w, "%s\t%d\n", e.Label, e.Value)
	}
	return w.Flush()
}

func init() {
	rootCmd.AddCommand(countriesCmd)
	rootCmd.AddCommand(athletesCmd)
	rootCmd.AddCommand(sportsCmd)
	rootCmd.AddCommand(goldShareCmd)
	rootCmd.AddCommand(athletesPerCountryCmd)
	rootCmd.AddCommand(yearCmd)
}
