package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Inspect or reset the discipline streak",
	Long: `Track runs of trades taken without breaking your rules.

Subcommands:
  show      - Current and best streaks by trade and by day
  reset     - Zero the recorded high-water marks
  violation - Log a rule break, resetting the running streak

Examples:
  tradebook streak show
  tradebook streak violation`,
}

var streakShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current and best streaks",
	Args:  cobra.NoArgs,
	RunE:  runStreakShow,
}

var streakResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Zero the recorded high-water marks",
	Args:  cobra.NoArgs,
	RunE:  runStreakReset,
}

var streakViolationCmd = &cobra.Command{
	Use:   "violation",
	Short: "Log a rule break",
	Args:  cobra.NoArgs,
	RunE:  runStreakViolation,
}

func init() {
	rootCmd.AddCommand(streakCmd)
	streakCmd.AddCommand(streakShowCmd)
	streakCmd.AddCommand(streakResetCmd)
	streakCmd.AddCommand(streakViolationCmd)
}

func runStreakShow(cmd *cobra.Command, args []string) error {
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

	totals, err := svc.RefreshStreak(cmd.Context(), cfg.Account.ID)
	if err != nil {
		return fmt.Errorf("compute streak: %w", err)
	}

	fmt.Printf("Current streak: %d trades over %d days\n", totals.CurrentTrades, totals.CurrentDays)
	fmt.Printf("Best streak:    %d trades, %d days\n", totals.MaxTrades, totals.MaxDays)
	return nil
}

func runStreakReset(cmd *cobra.Command, args []string) error {
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

	if err := svc.ResetStreak(cmd.Context(), cfg.Account.ID); err != nil {
		return fmt.Errorf("reset streak: %w", err)
	}

	fmt.Println("streak record zeroed")
	return nil
}

func runStreakViolation(cmd *cobra.Command, args []string) error {
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

	if err := svc.RecordViolation(cmd.Context(), cfg.Account.ID); err != nil {
		return fmt.Errorf("record violation: %w", err)
	}

	fmt.Println("violation recorded, streak reset")
	return nil
}
