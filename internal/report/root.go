// Package report implements the one-shot command line reporting tool:
// it loads a delimited medal dataset, applies the requested filters and
// prints aggregation results as text tables.
package report

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/podiumhq/podium/internal/adapters/codec"
	"github.com/podiumhq/podium/internal/domain/filter"
	"github.com/podiumhq/podium/internal/domain/model"
	"github.com/podiumhq/podium/internal/domain/schema"
)

var (
	// Global flags shared by all subcommands.
	flagInput     string
	flagDelimiter string
	flagYears     []string
	flagCountries []string
	flagSports    []string
	flagTop       int
)

var rootCmd = &cobra.Command{
	Use:   "report",
	Short: "Compute medal statistics from a delimited Olympic dataset",
	Long: `report loads a comma- or tab-separated medal dataset, normalizes it
and prints summaries, rankings and year-over-year improvement tables.

The input must carry a header row with at least the Athlete, Country,
Year, Sport, Gold, Silver and Bronze columns (case-insensitive).`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagInput, "input", "i", "", "path to the delimited dataset (required)")
	rootCmd.PersistentFlags().StringVar(&flagDelimiter, "delimiter", "", "field delimiter (single character; sniffed when empty)")
	rootCmd.PersistentFlags().StringSliceVar(&flagYears, "years", nil, "restrict to these years")
	rootCmd.PersistentFlags().StringSliceVar(&flagCountries, "countries", nil, "restrict to these countries")
	rootCmd.PersistentFlags().StringSliceVar(&flagSports, "sports", nil, "restrict to these sports")
	rootCmd.PersistentFlags().IntVarP(&flagTop, "top", "n", 10, "number of entries for top-N rankings")
	_ = rootCmd.MarkPersistentFlagRequired("input")
}

// loadTable decodes, normalizes and filters the input per global flags.
func loadTable() (model.Table, error) {
	f, err := os.Open(flagInput)
	if err != nil {
		return model.Table{}, fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	var opts []codec.Option
	if flagDelimiter != "" {
		r, _ := utf8.DecodeRuneInString(flagDelimiter)
		if r == utf8.RuneError {
			return model.Table{}, errors.New("invalid delimiter")
		}
		opts = append(opts, codec.WithDelimiter(r))
	}
	raw, err := codec.Decode(f, opts...)
	if err != nil {
		return model.Table{}, err
	}
	table, err := schema.Normalize(raw)
	if err != nil {
		return model.Table{}, err
	}

	sel, err := selection()
	if err != nil {
		return model.Table{}, err
	}
	return filter.Apply(table, sel), nil
}

func selection() (filter.Selection, error) {
	var sel filter.Selection
	for _, raw := range flagYears {
		y, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return filter.Selection{}, fmt.Errorf("invalid year %q", raw)
		}
		sel.Years = append(sel.Years, y)
	}
	sel.Countries = flagCountries
	sel.Sports = flagSports
	return sel, nil
}
