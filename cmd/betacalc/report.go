package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/gocarina/gocsv"

	"beta_backend/internal/feature/beta/domain/entity"
	"beta_backend/internal/feature/beta/transport/http/dto"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatCSV  = "csv"
)

type renderFunc func(w io.Writer, r *entity.Report) error

// renderText は人が読むためのレポートを出力します。
func renderText(w io.Writer, r *entity.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "%s vs %s (%s)\n", r.Symbol, r.Index, r.Ticker)
	fmt.Fprintf(tw, "Period:\t%s to %s\n", r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly))
	fmt.Fprintf(tw, "Risk-free rate:\t%.2f%% annual (%.4f%% per period)\n", r.RiskFreeRate, r.PeriodicRate*100)
	fmt.Fprintf(tw, "Observations:\t%d\n", r.Regression.Observations)
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "Beta:\t%.4f\t%s\n", r.Metrics.Beta, r.Interpretation.BetaLabel)
	fmt.Fprintf(tw, "Jensen's Alpha:\t%.4f\t%s\n", r.Metrics.Alpha, r.Interpretation.AlphaLabel)
	fmt.Fprintf(tw, "R²:\t%.4f\n", r.Metrics.RSquared)
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, r.Interpretation.BetaSentence)
	fmt.Fprintln(tw, r.Interpretation.AlphaSentence)
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Returns (%)\tMean\tStd Dev\tMin\tMax")
	for _, row := range []struct {
		name string
		s    entity.ReturnSummary
	}{
		{r.Symbol, r.Summary.Stock},
		{r.Index, r.Summary.Market},
	} {
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\t%.4f\n", row.name, row.s.Mean, row.s.StdDev, row.s.Min, row.s.Max)
	}
	fmt.Fprintf(tw, "Correlation:\t%.4f\n", r.Summary.Correlation)

	return tw.Flush()
}

// renderJSON はHTTP APIと同じ形式のJSONを出力します。
func renderJSON(w io.Writer, r *entity.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(dto.FromReport(r))
}

// renderCSV は整列済みリターン系列を /beta/returns.csv と同じ列で出力します。
func renderCSV(w io.Writer, r *entity.Report) error {
	rows := dto.ReturnRows(r)
	return gocsv.Marshal(&rows, w)
}
