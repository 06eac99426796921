package usecase

import (
	"fmt"
	"time"

	"beta_backend/internal/feature/beta/domain/capm"
	"beta_backend/internal/feature/beta/domain/entity"
)

// BarChartTitle is the title of the grouped raw-return chart.
const BarChartTitle = "Monthly Returns Comparison"

// buildChart は散布図（超過リターン＋回帰直線）と棒グラフ（生リターン）のデータを組み立てます。
func buildChart(symbol, indexName string, pairs []entity.ReturnPair, periodic float64, reg entity.Regression) entity.Chart {
	x, y := capm.ExcessReturns(pairs, periodic)

	scatter := make([]entity.ScatterPoint, len(x))
	lo, hi := x[0], x[0]
	for i := range x {
		scatter[i] = entity.ScatterPoint{X: x[i], Y: y[i]}
		lo = min(lo, x[i])
		hi = max(hi, x[i])
	}

	bars := make([]entity.BarGroup, len(pairs))
	for i, p := range pairs {
		bars[i] = entity.BarGroup{
			Date:   p.Date.UTC().Format(time.DateOnly),
			Stock:  p.Stock,
			Market: p.Market,
		}
	}

	return entity.Chart{
		ScatterTitle: fmt.Sprintf("%s Returns vs %s Returns", symbol, indexName),
		XAxisTitle:   fmt.Sprintf("%s Returns (%%)", indexName),
		YAxisTitle:   fmt.Sprintf("%s Returns (%%)", symbol),
		Scatter:      scatter,
		Trendline: [2]entity.ScatterPoint{
			{X: lo, Y: reg.Alpha + reg.Beta*lo},
			{X: hi, Y: reg.Alpha + reg.Beta*hi},
		},
		BarTitle: BarChartTitle,
		Bars:     bars,
	}
}
