package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tradebook/config"
	"tradebook/journal"
	"tradebook/pkg/logger"
	"tradebook/pricing"
	"tradebook/upload"
)

var rootCmd = &cobra.Command{
	Use:   "tradebook",
	Short: "A disciplined trading journal with habit and streak tracking",
	Long: `Tradebook keeps a local journal of your trades in SQLite.

It provides tools for:
  - Recording trades with risk, habit and emotion context
  - Resolving outcomes against live prices or trade structure
  - Deriving profit for margined and lot-based positions
  - Tracking unbroken-discipline streaks by trade and by day
  - Exporting history as CSV or Org-mode text`,
}

var (
	cfgFile  string
	dbPath   string
	userID   string
	logLevel string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "path to SQLite journal DB (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", "", "journal owner id (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

// loadConfig resolves the effective configuration: file if given, defaults
// otherwise, with the persistent flags layered on top.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		loaded, err := config.LoadFromFile(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if dbPath != "" {
		cfg.Journal.DBPath = dbPath
	}
	if userID != "" {
		cfg.Account.ID = userID
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	return logger.New(os.Stderr, cfg.Logging.Level)
}

// openStore opens the SQLite journal named by the config. The caller owns
// the Close.
func openStore(cfg *config.Config) (*journal.SQLite, error) {
	s, err := journal.NewSQLite(cfg.Journal.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return s, nil
}

// openService wires the journal service with whatever optional backends the
// config names. No pricing base URL means outcomes resolve structurally; no
// upload endpoint means screenshots are rejected.
func openService(cfg *config.Config, log zerolog.Logger) (*journal.Service, *journal.SQLite, error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	var prices journal.PriceSource
	if cfg.Pricing.BaseURL != "" {
		var stream *pricing.Stream
		if cfg.Pricing.StreamURL != "" {
			stream = pricing.NewStream(cfg.Pricing.StreamURL, log)
		}
		prices = pricing.NewClient(pricing.Options{
			BaseURL:     cfg.Pricing.BaseURL,
			Token:       cfg.Pricing.Token,
			MaxAttempts: cfg.Pricing.MaxAttempts,
			Stream:      stream,
		}, log)
	}

	var uploads journal.Uploader
	if cfg.Upload.Endpoint != "" {
		uploads = upload.NewClient(cfg.Upload.Endpoint, cfg.Upload.Preset, log)
	}

	return journal.NewService(store, prices, uploads, log), store, nil
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.Add(24 * time.Hour)
	return start, end, nil
}
