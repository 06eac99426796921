package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"beta_backend/internal/app/di"
	"beta_backend/internal/feature/beta/domain"
	"beta_backend/internal/feature/beta/domain/entity"
	"beta_backend/internal/feature/beta/usecase"
	infraredis "beta_backend/internal/platform/redis"
)

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute Beta and Jensen's Alpha for a stock",
	Long: `Compute Beta and Jensen's Alpha of a stock against a market index
from daily adjusted closing prices. Omitted flags fall back to AAPL,
S&P 500, the last five years and a 6% annual risk-free rate.`,
	Args: cobra.NoArgs,
	RunE: runCompute,
}

var (
	computeSymbol  string
	computeIndex   string
	computeStart   string
	computeEnd     string
	computeRF      float64
	computeFormat  string
	computeOut     string
	computePDF     string
	computeRefresh bool
)

func init() {
	f := computeCmd.Flags()
	f.StringVarP(&computeSymbol, "symbol", "s", usecase.DefaultSymbol, "Stock symbol")
	f.StringVarP(&computeIndex, "index", "i", usecase.DefaultIndex, "Market index name or ticker")
	f.StringVar(&computeStart, "start", "", "Start date YYYY-MM-DD (default: five years before end)")
	f.StringVar(&computeEnd, "end", "", "End date YYYY-MM-DD, inclusive (default: today)")
	f.Float64Var(&computeRF, "rf", usecase.DefaultRiskFreeRate, "Annual risk-free rate in percent (0-20)")
	f.StringVarP(&computeFormat, "format", "f", formatText, "Output format: text, json or csv")
	f.StringVarP(&computeOut, "out", "o", "", "Write output to FILE instead of stdout")
	f.StringVar(&computePDF, "pdf", "", "Also write a one-page PDF report to FILE")
	f.BoolVar(&computeRefresh, "refresh", false, "Drop cached prices for the symbol and index before computing")
}

func parseDate(name, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s must be YYYY-MM-DD: %w", name, err)
	}
	return t, nil
}

func runCompute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	start, err := parseDate("start", computeStart)
	if err != nil {
		return err
	}
	end, err := parseDate("end", computeEnd)
	if err != nil {
		return err
	}
	render, err := rendererFor(computeFormat)
	if err != nil {
		return err
	}

	var rdb *goredis.Client
	if cfg.Redis.Enabled() {
		if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis, lg); err != nil {
			lg.Warnw("Redis unavailable. Running without cache.", "error", err)
		} else {
			rdb = tmp
			defer func() { _ = rdb.Close() }()
		}
	}

	app, err := di.NewApp(cfg, rdb, nil, lg)
	if err != nil {
		return err
	}
	if computeRefresh {
		if err := app.Refresh(ctx, computeSymbol, computeIndex); err != nil {
			lg.Warnw("cache refresh failed", "error", err)
		}
	}

	rf := computeRF
	report, err := app.Calculator.Compute(ctx, usecase.Query{
		Symbol:       computeSymbol,
		Index:        computeIndex,
		Start:        start,
		End:          end,
		RiskFreeRate: &rf,
	})
	if err != nil {
		return fmt.Errorf("%s\n%s", domain.UserMessage(err), domain.ErrorHint)
	}

	if computeOut != "" {
		if err := writeOutputFile(computeOut, render, report); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	} else if err := render(cmd.OutOrStdout(), report); err != nil {
		return err
	}

	if computePDF != "" {
		if err := writePDFFile(computePDF, report); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		lg.Infow("pdf report written", "path", computePDF)
	}
	return nil
}

// writeOutputFile はレポートを path に書き込みます。Close の失敗もエラーとして返します。
func writeOutputFile(path string, render renderFunc, r *entity.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func rendererFor(format string) (renderFunc, error) {
	switch strings.ToLower(format) {
	case formatText:
		return renderText, nil
	case formatJSON:
		return renderJSON, nil
	case formatCSV:
		return renderCSV, nil
	}
	return nil, fmt.Errorf("unknown format %q (want text, json or csv)", format)
}
