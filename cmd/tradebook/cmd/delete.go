package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <trade-id>",
	Short: "Delete a trade and its habit record",
	Long: `Remove a trade from the journal. The linked habit record goes with it
and the streak record is recomputed from the remaining history.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
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

	if err := svc.DeleteTrade(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("delete trade: %w", err)
	}

	fmt.Printf("deleted %s\n", args[0])
	return nil
}
