package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tradebook/signals"
)

var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "Follow the broadcast signal feed",
	Long: `Subscribe to the configured websocket signal feed and print each
advisory as it arrives. Reconnects automatically; Ctrl-C stops.

Example:
  tradebook signals`,
	Args: cobra.NoArgs,
	RunE: runSignals,
}

func init() {
	rootCmd.AddCommand(signalsCmd)
}

func runSignals(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Signals.URL == "" {
		return fmt.Errorf("signals requires signals.url in config")
	}
	log := newLogger(cfg)

	sub := signals.NewSubscriber(cfg.Signals.URL, log)
	for sig := range sub.Subscribe(cmd.Context()) {
		fmt.Printf("[%s] %s", sig.SentAt.Local().Format("15:04:05"), sig.Pair)
		if sig.Market != "" {
			fmt.Printf(" (%s)", sig.Market)
		}
		fmt.Printf(" entry %g-%g tp %g sl %g", sig.EntryLow, sig.EntryHigh, sig.TakeProfit, sig.StopLoss)
		if sig.Message != "" {
			fmt.Printf("  %s", sig.Message)
		}
		fmt.Println()
	}
	return nil
}
