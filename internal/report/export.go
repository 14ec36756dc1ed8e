package report

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/podiumhq/podium/internal/adapters/codec"
	"github.com/podiumhq/podium/internal/domain/stats"
)

var flagScope string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the normalized, filtered dataset (or its summary) as CSV to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}
		switch flagScope {
		case "table":
			return codec.EncodeTable(os.Stdout, t)
		case "summary":
			return codec.EncodeSummary(os.Stdout, stats.Summarize(t))
		default:
			return errors.New("unknown scope: " + flagScope)
		}
	},
}

func init() {
	exportCmd.Flags().StringVar(&flagScope, "scope", "table", "what to export: table or summary")
	rootCmd.AddCommand(exportCmd)
}
