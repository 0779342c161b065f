package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"StockScreener/internal/model"
	"StockScreener/internal/notifier"
	"StockScreener/internal/watchlist"
)

func openWatchlist() (*watchlist.Manager, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return watchlist.NewManager(cfg.Watchlist.Path)
}

func watchlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "watchlist",
		Aliases: []string{"wl"},
		Short:   "Manage stocks and their support levels",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Show stocks with their distance to each level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			wl, err := watchlist.NewManager(cfg.Watchlist.Path)
			if err != nil {
				return err
			}
			var prices map[string]float64
			if snap, err := newCollector(cfg, logger).Collect(cmd.Context()); err != nil {
				logger.WithError(err).Warn("no prices, showing levels only")
			} else {
				prices = snap.Prices
			}
			fmt.Fprintln(cmd.OutOrStdout(), notifier.FormatWatchlist(wl.Dashboard(prices)))
			return nil
		},
	}

	var levels model.StockLevels
	addCmd := &cobra.Command{
		Use:   "add <symbol>",
		Short: "Add a stock or replace its levels",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wl, err := openWatchlist()
			if err != nil {
				return err
			}
			levels.Symbol = args[0]
			if err := wl.Upsert(levels); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", args[0])
			return nil
		},
	}
	addCmd.Flags().Float64Var(&levels.SupportPrice1, "s1", 0, "First support price")
	addCmd.Flags().Float64Var(&levels.SupportPrice2, "s2", 0, "Second support price")
	addCmd.Flags().Float64Var(&levels.SupportPrice3, "s3", 0, "Third support price")
	addCmd.Flags().Float64Var(&levels.UpperLimit, "upper", 0, "Upper limit price")
	addCmd.Flags().StringVar(&levels.Sector, "sector", "", "Sector name")
	addCmd.Flags().StringVar(&levels.Folder, "folder", "", "Folder, used as sector when none is set")
	addCmd.Flags().BoolVar(&levels.Watchlist, "watch", false, "Star the stock")
	addCmd.Flags().BoolVar(&levels.Bought, "bought", false, "Mark the stock as held")

	removeCmd := &cobra.Command{
		Use:   "remove <symbol>",
		Short: "Remove a stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wl, err := openWatchlist()
			if err != nil {
				return err
			}
			if err := wl.Remove(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		},
	}

	starCmd := &cobra.Command{
		Use:   "star <symbol>",
		Short: "Toggle the watchlist star",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wl, err := openWatchlist()
			if err != nil {
				return err
			}
			on, err := wl.ToggleWatchlist(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s starred: %t\n", args[0], on)
			return nil
		},
	}

	boughtCmd := &cobra.Command{
		Use:   "bought <symbol> [true|false]",
		Short: "Mark a stock as held (default true)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bought := true
			if len(args) == 2 {
				v, err := strconv.ParseBool(args[1])
				if err != nil {
					return fmt.Errorf("invalid value %q: %w", args[1], err)
				}
				bought = v
			}
			wl, err := openWatchlist()
			if err != nil {
				return err
			}
			if err := wl.SetBought(args[0], bought); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s bought: %t\n", args[0], bought)
			return nil
		},
	}

	buyCmd := &cobra.Command{
		Use:   "buy <symbol> <price>",
		Short: "Record a buy price; the stop-loss follows unless set by hand",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid price %q: %w", args[1], err)
			}
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			wl, err := watchlist.NewManager(cfg.Watchlist.Path)
			if err != nil {
				return err
			}
			if err := wl.SetBuyPrice(args[0], price, cfg.Screeners.Stoploss.DefaultPercent); err != nil {
				return err
			}
			s, err := wl.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s bought at %.2f, stop-loss %.2f\n", s.Symbol, s.BuyPrice, s.StoplossPrice)
			return nil
		},
	}

	stoplossCmd := &cobra.Command{
		Use:   "stoploss <symbol> <price>",
		Short: "Pin the stop-loss price (0 returns it to automatic)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid price %q: %w", args[1], err)
			}
			wl, err := openWatchlist()
			if err != nil {
				return err
			}
			if err := wl.SetStoploss(args[0], price); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s stop-loss: %.2f\n", args[0], price)
			return nil
		},
	}

	cmd.AddCommand(listCmd, addCmd, removeCmd, starCmd, boughtCmd, buyCmd, stoplossCmd)
	return cmd
}
