package dto

import "beta_backend/internal/feature/beta/domain/entity"

// BetaResponse はBeta算出APIのレスポンスDTOです。
type BetaResponse struct {
	Symbol         string                `json:"symbol"`
	Index          string                `json:"index"`
	Ticker         string                `json:"ticker"`
	Start          string                `json:"start"`
	End            string                `json:"end"`
	RiskFreeRate   float64               `json:"risk_free_rate"`
	PeriodicRate   float64               `json:"periodic_rate"`
	Observations   int                   `json:"observations"`
	Metrics        entity.Metrics        `json:"metrics"`
	Interpretation entity.Interpretation `json:"interpretation"`
	Summary        entity.Summary        `json:"summary"`
	Chart          entity.Chart          `json:"chart"`
}

// ReturnRow はCSV出力の1行です。
type ReturnRow struct {
	Date         string  `csv:"date"`
	StockReturn  float64 `csv:"stock_return"`
	MarketReturn float64 `csv:"market_return"`
	StockExcess  float64 `csv:"stock_excess"`
	MarketExcess float64 `csv:"market_excess"`
}
