package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tradebook/journal"
)

var closeCmd = &cobra.Command{
	Use:   "close <trade-id>",
	Short: "Finalize a trade and record its outcome and profit",
	Long: `Resolve the trade's outcome and derive its profit, then persist both.

With a pricing feed configured the outcome is judged against the live
market price; otherwise it is judged against the trade's own structure.
A trade already finalized is left untouched.

Example:
  tradebook close 01HXYZABCDEF`,
	Args: cobra.ExactArgs(1),
	RunE: runClose,
}

func init() {
	rootCmd.AddCommand(closeCmd)
}

func runClose(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	svc, store, err := openService(cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	t, err := svc.CloseTrade(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("close trade: %w", err)
	}

	fmt.Println(journal.FormatTradeOrg(t))
	return nil
}
