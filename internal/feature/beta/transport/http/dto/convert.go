package dto

import (
	"time"

	"beta_backend/internal/feature/beta/domain/entity"
)

// FromReport はドメインのReportをレスポンスDTOに変換します。
func FromReport(r *entity.Report) BetaResponse {
	return BetaResponse{
		Symbol:         r.Symbol,
		Index:          r.Index,
		Ticker:         r.Ticker,
		Start:          r.Start.Format(time.DateOnly),
		End:            r.End.Format(time.DateOnly),
		RiskFreeRate:   r.RiskFreeRate,
		PeriodicRate:   r.PeriodicRate,
		Observations:   r.Regression.Observations,
		Metrics:        r.Metrics,
		Interpretation: r.Interpretation,
		Summary:        r.Summary,
		Chart:          r.Chart,
	}
}

// ReturnRows は整列済みリターンと超過リターンをCSV行に変換します。
func ReturnRows(r *entity.Report) []ReturnRow {
	shift := r.PeriodicRate * 100
	rows := make([]ReturnRow, 0, len(r.Pairs))
	for _, p := range r.Pairs {
		rows = append(rows, ReturnRow{
			Date:         p.Date.UTC().Format(time.DateOnly),
			StockReturn:  p.Stock,
			MarketReturn: p.Market,
			StockExcess:  p.Stock - shift,
			MarketExcess: p.Market - shift,
		})
	}
	return rows
}
