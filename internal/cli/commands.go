package cli

import (
	"fmt"
	"time"

	"alpacatrade/pkg/alpaca"

	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

func (a *app) accountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "account",
		Short: "Show the trading account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			account, err := a.client.Account(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, account)
		},
	}
}

func (a *app) assetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "asset SYMBOL",
		Short: "Show one asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asset, err := a.client.Asset(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, asset)
		},
	}
}

func (a *app) assetsCmd() *cobra.Command {
	var status, class string

	cmd := &cobra.Command{
		Use:   "assets",
		Short: "List assets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// only flags given on the command line become filters
			var statusFilter, classFilter *string
			if cmd.Flags().Changed("status") {
				statusFilter = &status
			}
			if cmd.Flags().Changed("class") {
				classFilter = &class
			}

			assets, err := a.client.Assets(cmd.Context(), statusFilter, classFilter)
			if err != nil {
				return err
			}
			return printJSON(cmd, assets)
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by status ("+alpaca.AssetStatusActive+", "+alpaca.AssetStatusInactive+")")
	cmd.Flags().StringVar(&class, "class", "", "filter by asset class ("+alpaca.AssetClassUSEquity+", "+alpaca.AssetClassCrypto+")")
	return cmd
}

func (a *app) barsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bars TIMEFRAME SYMBOL...",
		Short: "Fetch bars for one or more symbols",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tf, err := alpaca.ParseTimeFrame(args[0])
			if err != nil {
				return err
			}

			bars, err := a.client.Bars(cmd.Context(), tf, args[1:])
			if err != nil {
				return err
			}
			return printJSON(cmd, bars)
		},
	}
}

func (a *app) calendarCmd() *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "List trading days (default: today through 30 days out)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, err := parseDate("start", start)
			if err != nil {
				return err
			}
			to, err := parseDate("end", end)
			if err != nil {
				return err
			}

			days, err := a.client.Calendar(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			return printJSON(cmd, days)
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "last day, YYYY-MM-DD")
	return cmd
}

func (a *app) clockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clock",
		Short: "Show the market clock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clock, err := a.client.Clock(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, clock)
		},
	}
}

// parseDate returns nil for an empty flag so the client applies its default.
func parseDate(flag, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s %q: %w", flag, value, err)
	}
	return &t, nil
}
