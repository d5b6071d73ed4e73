package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tradebook/journal"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Query journal records",
	Long: `Query and display trade records from the SQLite journal.

Subcommands:
  trade   - Get details of a specific trade by ID
  today   - List trades taken today
  day     - List trades taken on a specific day
  all     - List the full history, newest first
  summary - Aggregate wins, losses and profit

Examples:
  tradebook list trade <trade-id>
  tradebook list today
  tradebook list day 2026-01-15
  tradebook list summary`,
}

var listTradeCmd = &cobra.Command{
	Use:   "trade <trade-id>",
	Short: "Get details of a specific trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runListTrade,
}

var listTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List trades taken today",
	Args:  cobra.NoArgs,
	RunE:  runListToday,
}

var listDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List trades taken on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runListDay,
}

var listAllCmd = &cobra.Command{
	Use:   "all",
	Short: "List the full history, newest first",
	Args:  cobra.NoArgs,
	RunE:  runListAll,
}

var listSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Aggregate wins, losses and profit across the history",
	Args:  cobra.NoArgs,
	RunE:  runListSummary,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.AddCommand(listTradeCmd)
	listCmd.AddCommand(listTodayCmd)
	listCmd.AddCommand(listDayCmd)
	listCmd.AddCommand(listAllCmd)
	listCmd.AddCommand(listSummaryCmd)
}

func runListTrade(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	t, err := store.GetTrade(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}

	fmt.Println(journal.FormatTradeOrg(t))
	return nil
}

func runListToday(cmd *cobra.Command, args []string) error {
	return listDay(cmd, time.Now().In(time.Local).Format("2006-01-02"))
}

func runListDay(cmd *cobra.Command, args []string) error {
	return listDay(cmd, args[0])
}

func listDay(cmd *cobra.Command, day string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	start, end, err := dayBounds(time.Local, day)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	trades, err := store.ListTradesBetween(cmd.Context(), cfg.Account.ID, start, end)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	fmt.Println(journal.FormatTradesOrg(trades))
	return nil
}

func runListAll(cmd *cobra.Command, args []string) error {
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

	fmt.Println(journal.FormatTradesOrg(trades))
	return nil
}

func runListSummary(cmd *cobra.Command, args []string) error {
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

	s := journal.Summarize(trades)
	fmt.Printf("Trades:        %d\n", s.Trades)
	fmt.Printf("Wins:          %d\n", s.Wins)
	fmt.Printf("Losses:        %d\n", s.Losses)
	fmt.Printf("Breakevens:    %d\n", s.Breakevens)
	fmt.Printf("Open:          %d\n", s.Open)
	fmt.Printf("Win rate:      %.1f%%\n", 100*s.WinRate)
	fmt.Printf("Gross profit:  %.2f\n", s.GrossProfit)
	fmt.Printf("Gross loss:    %.2f\n", s.GrossLoss)
	fmt.Printf("Net profit:    %.2f\n", s.NetProfit)
	fmt.Printf("Profit factor: %.2f\n", s.ProfitFactor)
	return nil
}
