// screener - watchlist technical screening bot
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"StockScreener/internal/alerts"
	"StockScreener/internal/collector"
	"StockScreener/internal/config"
	"StockScreener/internal/notifier"
	"StockScreener/internal/recorder"
	"StockScreener/internal/scheduler"
	"StockScreener/internal/watchlist"
)

var _ alerts.FlagStore = (*recorder.SQLiteRecorder)(nil)

var cfgPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "screener",
		Short: "Technical screener for a stock watchlist",
		Long: `screener scans daily stock history for consolidations, tight ranges,
trendline touches and stocks near their configured supports, and posts
a digest to Telegram on a schedule.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Config file (defaults to CONFIG_PATH or "+config.DefaultPath+")")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(watchlistCmd())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(config.Path(cfgPath))
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, cfg.NewLogger(), nil
}

// openStore opens the scan log. The SQLite recorder doubles as the first-seen
// flag store; without it nothing survives a restart.
func openStore(cfg *config.Config, logger *logrus.Logger) (recorder.Recorder, alerts.FlagStore) {
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
		if err == nil {
			return sr, sr
		}
		logger.WithError(err).Warn("init sqlite recorder failed, using noop")
	}
	return recorder.NewNoopRecorder(), alerts.NewMemoryStore()
}

func newCollector(cfg *config.Config, logger *logrus.Logger) *collector.Collector {
	history := collector.NewHistoryLoader(cfg.DataSource.HistoryPath, cfg.DataSource.APIKey, cfg.Proxy)
	var prices collector.PriceProvider
	if cfg.DataSource.PricesURL != "" {
		prices = collector.NewPriceFetcher(cfg.DataSource.PricesURL, cfg.DataSource.APIKey, cfg.Proxy)
	}
	logger.WithFields(logrus.Fields{
		"history": cfg.DataSource.HistoryPath,
		"prices":  cfg.DataSource.PricesURL,
	}).Info("data source configured")
	return collector.NewCollector(history, prices, logger)
}

// newScheduler wires every component. The returned func releases the store.
func newScheduler(ctx context.Context, cfg *config.Config, logger *logrus.Logger, n notifier.Notifier) (*scheduler.Scheduler, func(), error) {
	wl, err := watchlist.NewManager(cfg.Watchlist.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init watchlist: %w", err)
	}
	rec, flags := openStore(cfg, logger)
	sched := scheduler.NewScheduler(ctx, scheduler.Deps{
		Collector: newCollector(cfg, logger),
		Watchlist: wl,
		Tracker:   alerts.NewTracker(flags),
		Notifier:  n,
		Recorder:  rec,
		Screeners: cfg.Screeners,
		Logger:    logger,
	})
	closeFn := func() {
		if err := rec.Close(); err != nil {
			logger.WithError(err).Warn("close recorder")
		}
	}
	return sched, closeFn, nil
}

func runCmd() *cobra.Command {
	var runOnStart bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scheduled scans and the Telegram bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.ValidateTelegram(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}
			logger.Info("screener starting")

			ctx := cmd.Context()
			tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger)
			sched, closeStore, err := newScheduler(ctx, cfg, logger, tn)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := sched.RegisterAll(cfg.Schedule.ScanCron, cfg.Schedule.HeatmapCron); err != nil {
				return fmt.Errorf("register cron tasks: %w", err)
			}
			sched.Start()
			defer sched.Stop()

			go tn.StartPolling(ctx, sched.HandleCommand)
			logger.Info("telegram polling started")

			if runOnStart || os.Getenv("RUN_ON_START") == "true" {
				logger.Info("run on start enabled, executing scan now")
				go sched.RunScanNow()
			}

			logger.Info("screener is running, press Ctrl+C to stop")
			<-ctx.Done()
			logger.Info("shutdown signal received, stopping")
			return nil
		},
	}
	cmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "Run a full scan immediately")
	return cmd
}

func scanCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "scan [screener...]",
		Short: "Run screeners once and print the digest",
		Long: `Run the named screeners (consolidation, range, trendline, rsi_support,
support, heatmap) once, or every enabled one when none is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			sched, closeStore, err := newScheduler(cmd.Context(), cfg, logger, nil)
			if err != nil {
				return err
			}
			defer closeStore()

			report, err := sched.Scan(cmd.Context(), args...)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			fmt.Fprintln(cmd.OutOrStdout(), notifier.FormatScanReport(report))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}
