package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aristath/quantdash/internal/config"
	"github.com/aristath/quantdash/internal/di"
	"github.com/aristath/quantdash/internal/domain"
	"github.com/aristath/quantdash/internal/modules/dashboard"
	"github.com/aristath/quantdash/pkg/logger"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func runReport(cmd *cobra.Command, args []string) error {
	if err := checkOutputFormat(); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Logs go to stderr so stdout stays parseable
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
		Output: os.Stderr,
	})

	container, _, err := di.Wire(cfg, log)
	if err != nil {
		return err
	}
	defer container.Close()

	p, err := paramsFromFlags(cmd, container.DashboardService.Defaults())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	d, err := container.DashboardService.Render(ctx, p)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}
	writeReport(out, d)
	return nil
}

// writeReport prints the dashboard as tables
func writeReport(out io.Writer, d *dashboard.Dashboard) {
	p := d.Params
	fmt.Fprintf(out, "\nquantdash report %s  |  %s to %s  |  %s (lookback %d)\n\n",
		d.ID,
		p.Start.Format(domain.DateLayout),
		p.End.Format(domain.DateLayout),
		p.Strategy,
		p.Lookback,
	)

	writeOverview(out, d.Overview)
	writePerformance(out, d)
	writeRegression(out, d.Regression)
	writeRisk(out, d.Risk)

	if len(d.Warnings) > 0 {
		fmt.Fprintln(out, "\nWarnings:")
		for _, w := range d.Warnings {
			fmt.Fprintf(out, "  - %s\n", w)
		}
	}
}

func writeOverview(out io.Writer, o domain.MarketOverview) {
	fmt.Fprintln(out, "Market overview")
	table := tablewriter.NewWriter(out)
	table.Header("Metric", "Value")
	table.Append("As of", o.AsOf.Format(domain.DateLayout))
	table.Append("Price", num(o.Price))
	table.Append("Rate", num(o.Rate))
	table.Append("Volatility 21D", pct(o.Vol21D))
	table.Append("Drawdown", pct(o.CurrentDrawdown))
	table.Append("RSI 14", optNum(o.RSI14))
	table.Append("Days analyzed", fmt.Sprintf("%d", o.DaysAnalyzed))
	table.Render()
}

func writePerformance(out io.Writer, d *dashboard.Dashboard) {
	fmt.Fprintln(out, "\nPerformance")
	table := tablewriter.NewWriter(out)
	table.Header("Metric", "Strategy", "Benchmark")

	rows := []struct {
		name   string
		format func(*domain.PerformanceSummary) string
	}{
		{"CAGR", func(s *domain.PerformanceSummary) string { return pct(s.CAGR) }},
		{"Volatility", func(s *domain.PerformanceSummary) string { return pct(s.Volatility) }},
		{"Sharpe", func(s *domain.PerformanceSummary) string { return ratio(s.Sharpe, s.SharpeDegenerate) }},
		{"Sortino", func(s *domain.PerformanceSummary) string { return ratio(s.Sortino, s.SortinoDegenerate) }},
		{"Max drawdown", func(s *domain.PerformanceSummary) string { return pct(s.MaxDrawdown) }},
		{"Win rate", func(s *domain.PerformanceSummary) string { return pct(s.WinRate) }},
		{"Observations", func(s *domain.PerformanceSummary) string { return fmt.Sprintf("%d", s.Observations) }},
	}
	for _, row := range rows {
		table.Append(row.name, summaryCell(d.Strategy, row.format), summaryCell(d.Benchmark, row.format))
	}
	table.Render()

	fmt.Fprintf(out, "  CAGR delta (strategy - benchmark): %s\n", optPct(d.CAGRDelta))
}

func writeRegression(out io.Writer, r *domain.RegressionSummary) {
	fmt.Fprintln(out, "\nRegression (strategy on benchmark)")
	if r == nil {
		fmt.Fprintln(out, "  n/a")
		return
	}
	table := tablewriter.NewWriter(out)
	table.Header("Alpha (ann.)", "Beta", "R²", "Observations")
	table.Append(pct(r.Alpha), num(r.Beta), num(r.RSquared), fmt.Sprintf("%d", r.Observations))
	table.Render()
}

func writeRisk(out io.Writer, r domain.RiskSurface) {
	fmt.Fprintf(out, "\nRisk (benchmark, %d-day VaR at %.0f%%)\n", r.Window, r.Confidence*100)
	table := tablewriter.NewWriter(out)
	table.Header("Metric", "Value")

	if n := len(r.VaR); n > 0 {
		worst := r.VaR[0]
		for _, v := range r.VaR[1:] {
			if v.VaR < worst.VaR {
				worst = v
			}
		}
		table.Append("Latest VaR", pct(r.VaR[n-1].VaR))
		table.Append("Worst VaR", fmt.Sprintf("%s on %s", pct(worst.VaR), worst.Date.Format(domain.DateLayout)))
	} else {
		table.Append("VaR", "n/a")
	}

	if mc := r.MonteCarlo; mc != nil {
		table.Append("Monte Carlo paths", fmt.Sprintf("%d x %d days (seed %d)", mc.PathCount, mc.Steps, mc.Seed))
		table.Append("Daily sigma (stressed)", pct(mc.Sigma))
		table.Append("Final value P05", num(mc.FinalP05))
		table.Append("Final value P50", num(mc.FinalP50))
		table.Append("Final value P95", num(mc.FinalP95))
	} else {
		table.Append("Monte Carlo", "n/a")
	}
	table.Render()
}

func summaryCell(s *domain.PerformanceSummary, format func(*domain.PerformanceSummary) string) string {
	if s == nil {
		return "n/a"
	}
	return format(s)
}

func num(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func pct(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

func ratio(v float64, degenerate bool) string {
	if degenerate {
		return num(v) + "*"
	}
	return num(v)
}

func optNum(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return num(*v)
}

func optPct(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return pct(*v)
}
