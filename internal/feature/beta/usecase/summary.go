package usecase

import (
	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"

	"beta_backend/internal/feature/beta/domain/entity"
)

// round4 は表示用に小数第4位で丸めます。
func round4(v float64) float64 {
	return decimal.NewFromFloat(v).Round(4).InexactFloat64()
}

func describe(data stats.Float64Data) (entity.ReturnSummary, error) {
	mean, err := stats.Mean(data)
	if err != nil {
		return entity.ReturnSummary{}, err
	}
	sd, err := stats.StandardDeviationSample(data)
	if err != nil {
		return entity.ReturnSummary{}, err
	}
	lo, err := stats.Min(data)
	if err != nil {
		return entity.ReturnSummary{}, err
	}
	hi, err := stats.Max(data)
	if err != nil {
		return entity.ReturnSummary{}, err
	}
	return entity.ReturnSummary{
		Mean:   round4(mean),
		StdDev: round4(sd),
		Min:    round4(lo),
		Max:    round4(hi),
	}, nil
}

// summarize は生リターンの記述統計と相関係数を計算します。
func summarize(pairs []entity.ReturnPair) (entity.Summary, error) {
	stock := make(stats.Float64Data, len(pairs))
	market := make(stats.Float64Data, len(pairs))
	for i, p := range pairs {
		stock[i] = p.Stock
		market[i] = p.Market
	}

	s, err := describe(stock)
	if err != nil {
		return entity.Summary{}, err
	}
	m, err := describe(market)
	if err != nil {
		return entity.Summary{}, err
	}

	// いずれかの標準偏差が 0 の場合は 0 が返る
	corr, err := stats.Correlation(stock, market)
	if err != nil {
		return entity.Summary{}, err
	}
	return entity.Summary{Stock: s, Market: m, Correlation: round4(corr)}, nil
}
