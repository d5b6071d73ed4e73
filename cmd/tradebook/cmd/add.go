package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tradebook/config"
	"tradebook/journal"
	"tradebook/outcome"
	"tradebook/profit"
	"tradebook/risk"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new trade",
	Long: `Record a trade with its risk plan and habit context.

The trade is checked against the configured risk policy first; violations
are printed but never block the save - the journal records what you
actually did.

Examples:
  tradebook add --pair EUR/USD --direction long --entry 1.1000 --stop 1.0950 \
    --tp 1.1100 --size 1000 --leverage 10 --had-plan --plan-followed
  tradebook add --pair BTC/USD --direction short --entry 64000 --stop 65000 \
    --tp 62000 --size 500 --leverage 5 --crypto --notes "range rejection"`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

var (
	addPair       string
	addDirection  string
	addEntry      float64
	addStop       float64
	addTPs        []float64
	addSize       float64
	addUnit       string
	addLeverage   float64
	addCrypto     bool
	addEmotions   string
	addNotes      string
	addTags       []string
	addScreenshot string

	addHadPlan      bool
	addPlanFollowed bool
	addWasGamble    bool
)

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVar(&addPair, "pair", "", "instrument pair, e.g. EUR/USD (required)")
	addCmd.Flags().StringVar(&addDirection, "direction", "long", "long or short")
	addCmd.Flags().Float64Var(&addEntry, "entry", 0, "entry price (required)")
	addCmd.Flags().Float64Var(&addStop, "stop", 0, "stop-loss price (required)")
	addCmd.Flags().Float64SliceVar(&addTPs, "tp", nil, "take-profit price, repeatable up to 5 (required)")
	addCmd.Flags().Float64Var(&addSize, "size", 0, "position size (required)")
	addCmd.Flags().StringVar(&addUnit, "unit", "USD", "position unit: USD, Lots or CoinValue")
	addCmd.Flags().Float64Var(&addLeverage, "leverage", 1, "leverage multiplier")
	addCmd.Flags().BoolVar(&addCrypto, "crypto", false, "crypto instrument (disables the lot model)")
	addCmd.Flags().StringVar(&addEmotions, "emotions", "", "how you felt taking the trade")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "free-form notes")
	addCmd.Flags().StringSliceVar(&addTags, "tag", nil, "tag, repeatable")
	addCmd.Flags().StringVar(&addScreenshot, "screenshot", "", "path to a chart screenshot to upload")

	addCmd.Flags().BoolVar(&addHadPlan, "had-plan", false, "you had a written plan for this trade")
	addCmd.Flags().BoolVar(&addPlanFollowed, "plan-followed", false, "you followed the plan")
	addCmd.Flags().BoolVar(&addWasGamble, "gamble", false, "this trade was a gamble (breaks the streak)")

	addCmd.MarkFlagRequired("pair")
	addCmd.MarkFlagRequired("entry")
	addCmd.MarkFlagRequired("stop")
	addCmd.MarkFlagRequired("tp")
	addCmd.MarkFlagRequired("size")
}

func runAdd(cmd *cobra.Command, args []string) error {
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

	nt := journal.NewTrade{
		UserID:       cfg.Account.ID,
		Pair:         addPair,
		Direction:    outcome.Direction(addDirection),
		Entry:        addEntry,
		StopLoss:     addStop,
		TakeProfits:  addTPs,
		PositionSize: addSize,
		PositionUnit: profit.Unit(addUnit),
		Leverage:     addLeverage,
		Crypto:       addCrypto,
		Emotions:     addEmotions,
		Notes:        addNotes,
		Tags:         addTags,
		HadPlan:      addHadPlan,
		PlanFollowed: addPlanFollowed,
		WasGamble:    addWasGamble,
	}

	if addScreenshot != "" {
		f, err := os.Open(addScreenshot)
		if err != nil {
			return fmt.Errorf("open screenshot: %w", err)
		}
		defer f.Close()
		nt.Screenshot = f
		nt.ScreenshotName = addScreenshot
	}

	printRiskCheck(cfg, nt)

	t, err := svc.SaveTrade(cmd.Context(), nt)
	if err != nil {
		return err
	}

	fmt.Println(journal.FormatTradeOrg(t))
	return nil
}

// printRiskCheck runs the discipline check and prints any violations. The
// check is advisory only.
func printRiskCheck(cfg *config.Config, nt journal.NewTrade) {
	policy := risk.Policy{
		MaxRiskPct:  cfg.Risk.MaxRiskPct,
		MinRR:       cfg.Risk.MinRR,
		MaxLeverage: cfg.Risk.MaxLeverage,
	}

	d := risk.Evaluate(policy, risk.Inputs{
		Entry:      nt.Entry,
		Stop:       nt.StopLoss,
		TakeProfit: nt.TakeProfits[0],
		Size:       nt.PositionSize,
		Leverage:   nt.Leverage,
		Lots:       !nt.Crypto && nt.PositionUnit == profit.Lots,
	}, cfg.Account.Balance)

	if d.Clean {
		fmt.Printf("Risk check: OK (risk %.2f, RR %.2f)\n", d.PlannedRisk, d.RR)
		return
	}
	for _, v := range d.Violations {
		fmt.Printf("Risk check [%s]: %s\n", v.Code, v.Msg)
	}
}
