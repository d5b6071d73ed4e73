package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tradebook/journal"
	"tradebook/outcome"
	"tradebook/pricing"
)

var watchCmd = &cobra.Command{
	Use:   "watch <trade-id>",
	Short: "Poll the live price until the trade resolves, then close it",
	Long: `Poll the configured pricing feed and close the trade as soon as the
live price reaches a take-profit or breaches the stop-loss. Requires a
pricing base URL in the config. Ctrl-C stops the watch without touching
the trade.

Example:
  tradebook watch 01HXYZABCDEF --interval 5s`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

var watchInterval time.Duration

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "poll interval (default from config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Pricing.BaseURL == "" {
		return fmt.Errorf("watch requires pricing.base_url in config")
	}
	log := newLogger(cfg)

	svc, store, err := openService(cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	t, err := store.GetTrade(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}
	if t.IsEdited {
		return fmt.Errorf("trade %s is already finalized", t.ID)
	}

	interval := watchInterval
	if interval == 0 {
		interval, err = cfg.Pricing.ParsePollInterval()
		if err != nil {
			return err
		}
	}

	client := pricing.NewClient(pricing.Options{
		BaseURL:     cfg.Pricing.BaseURL,
		Token:       cfg.Pricing.Token,
		MaxAttempts: cfg.Pricing.MaxAttempts,
	}, log)
	poller := pricing.NewPoller(client, interval, log)

	fmt.Printf("watching %s (%s %s), entry %g stop %g\n",
		t.ID, t.Pair, t.Direction, t.Entry, t.StopLoss)

	err = poller.Watch(cmd.Context(), t.Pair, func(price float64) bool {
		o := outcome.Resolve(outcome.Inputs{
			Entry:       t.Entry,
			StopLoss:    t.StopLoss,
			TakeProfits: t.TakeProfits,
			Direction:   t.Direction,
			Status:      outcome.InProgress,
			LivePrice:   &price,
		})
		if o == outcome.Running {
			log.Debug().Float64("price", price).Msg("still running")
			return true
		}
		return false
	})
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	closed, err := svc.CloseTrade(cmd.Context(), t.ID)
	if err != nil {
		return fmt.Errorf("close trade: %w", err)
	}

	fmt.Println(journal.FormatTradeOrg(closed))
	return nil
}
