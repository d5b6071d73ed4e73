package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tradebook/journal"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the trade history as CSV",
	Long: `Write the full trade history as CSV, newest first.

Example:
  tradebook export -o trades.csv`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var exportOutput string

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	trades, err := store.ListTrades(cmd.Context(), cfg.Account.ID)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	out := os.Stdout
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := journal.ExportCSV(out, trades); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
