package main

import (
	"fmt"
	"net/url"

	"github.com/aristath/quantdash/internal/modules/dashboard"
	"github.com/spf13/cobra"
)

var outputFormat string

var rootCmd = newRootCmd()

// queryFlags maps CLI flags to dashboard query keys
var queryFlags = map[string]string{
	"start":       "start",
	"end":         "end",
	"strategy":    "strategy",
	"lookback":    "lookback",
	"confidence":  "confidence",
	"simulations": "simulations",
	"var-window":  "var_window",
	"seed":        "seed",
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quantdash-report",
		Short: "Print index strategy performance and risk analytics",
		Long: `quantdash-report loads the configured index and reference-rate series,
applies the selected strategy overlay and prints performance, regression
and risk tables. Flags left unset use the configured dashboard defaults.`,
		SilenceUsage: true,
		RunE:         runReport,
	}

	defaults := dashboard.DefaultParams()
	flags := cmd.Flags()

	flags.String("start", "", "First calendar date, YYYY-MM-DD")
	flags.String("end", "", "Last calendar date, YYYY-MM-DD")
	flags.String("strategy", "", "Strategy overlay: momentum or buy_and_hold")
	flags.Int("lookback", defaults.Lookback, "Momentum lookback in trading days (60-504)")
	flags.Float64("confidence", defaults.Confidence, "VaR confidence level (0.90-0.99)")
	flags.Int("simulations", defaults.Simulations, "Monte Carlo paths (1000-10000)")
	flags.Int("var-window", defaults.VaRWindow, "Rolling VaR window in trading days")
	flags.Uint64("seed", defaults.Seed, "Monte Carlo seed")
	flags.StringVarP(&outputFormat, "output", "o", "table", "Output format: table or json")

	return cmd
}

// paramsFromFlags overlays the flags the user set on defaults
func paramsFromFlags(cmd *cobra.Command, defaults dashboard.Params) (dashboard.Params, error) {
	q := url.Values{}
	for flag, key := range queryFlags {
		if cmd.Flags().Changed(flag) {
			q.Set(key, cmd.Flags().Lookup(flag).Value.String())
		}
	}

	p, err := dashboard.ParseQuery(q, defaults)
	if err != nil {
		return p, err
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

func checkOutputFormat() error {
	switch outputFormat {
	case "table", "json":
		return nil
	default:
		return fmt.Errorf("unknown output format %q", outputFormat)
	}
}
