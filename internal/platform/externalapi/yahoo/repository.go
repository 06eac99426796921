// Package yahoo provides a price fetcher backed by the Yahoo Finance chart API.
package yahoo

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"go.uber.org/zap"

	"beta_backend/internal/feature/beta/domain"
	"beta_backend/internal/feature/beta/domain/entity"
	"beta_backend/internal/feature/beta/usecase"
	"beta_backend/internal/shared/ratelimiter"
)

// barsFunc は chart API から日足を取得する関数です。テストで差し替えます。
type barsFunc func(p *chart.Params) ([]finance.ChartBar, error)

// YahooPrices はYahoo Financeから調整後終値を取得するPriceFetcher実装です。
type YahooPrices struct {
	bars    barsFunc
	limiter ratelimiter.RateLimiterInterface
	log     *zap.SugaredLogger
}

// YahooPricesがPriceFetcherを実装していることをコンパイル時に検証します。
var _ usecase.PriceFetcher = (*YahooPrices)(nil)

// NewYahooPrices はYahooPricesの新しいインスタンスを生成します。
// limiter が nil の場合はレート制限を行いません。
func NewYahooPrices(limiter ratelimiter.RateLimiterInterface, log *zap.SugaredLogger) *YahooPrices {
	if limiter == nil {
		limiter = ratelimiter.NewRateLimiter(0, 0)
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &YahooPrices{bars: chartBars, limiter: limiter, log: log}
}

func chartBars(p *chart.Params) ([]finance.ChartBar, error) {
	iter := chart.Get(p)
	var out []finance.ChartBar
	for iter.Next() {
		out = append(out, *iter.Bar())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchAdjustedClose は [start, end] の日足を取得し、調整後終値を日付昇順で返します。
func (y *YahooPrices) FetchAdjustedClose(ctx context.Context, symbol string, start, end time.Time) ([]entity.PricePoint, error) {
	if err := y.limiter.WaitIfNeeded(ctx); err != nil {
		return nil, err
	}

	// period2 は排他的なため翌日0時を指定する
	until := end.AddDate(0, 0, 1)
	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&until),
		Interval: datetime.OneDay,
	}
	params.Context = &ctx

	y.log.Debugw("yahoo chart request", "symbol", symbol, "start", start.Format(time.DateOnly), "end", end.Format(time.DateOnly))

	bars, err := y.bars(params)
	if err != nil {
		return nil, fmt.Errorf("yahoo: %w", err)
	}

	prices := make([]entity.PricePoint, 0, len(bars))
	for _, b := range bars {
		if b.AdjClose.IsZero() {
			continue
		}
		ts := time.Unix(int64(b.Timestamp), 0).UTC()
		prices = append(prices, entity.PricePoint{
			Date:     time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC),
			AdjClose: b.AdjClose.InexactFloat64(),
		})
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, domain.ErrNoData)
	}
	return prices, nil
}
