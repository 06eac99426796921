// Package usecase はBeta/Jensen's Alpha算出のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"beta_backend/internal/feature/beta/domain"
	"beta_backend/internal/feature/beta/domain/capm"
	"beta_backend/internal/feature/beta/domain/entity"
	marketentity "beta_backend/internal/feature/markets/domain/entity"
	marketsusecase "beta_backend/internal/feature/markets/usecase"
)

const (
	// DefaultSymbol は銘柄未指定時のデフォルトです。
	DefaultSymbol = "AAPL"
	// DefaultIndex は指数未指定時のデフォルトです。
	DefaultIndex = "S&P 500"
	// DefaultRiskFreeRate は年率リスクフリーレート（%）のデフォルトです。
	DefaultRiskFreeRate = 6.0
	// MaxRiskFreeRate は年率リスクフリーレート（%）の上限です。
	MaxRiskFreeRate = 20.0
	// DefaultLookback は開始日未指定時に終了日から遡る期間です。
	DefaultLookback = 5 * 365 * 24 * time.Hour
)

// PriceFetcher は調整後終値の時系列を取得するレイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type PriceFetcher interface {
	// FetchAdjustedClose は [start, end] の日次調整後終値を日付昇順で返します。
	FetchAdjustedClose(ctx context.Context, symbol string, start, end time.Time) ([]entity.PricePoint, error)
}

// IndexResolver は指数の表示名をプロバイダ固有のティッカーに解決します。
// 未対応の指数には marketsusecase.ErrUnknownIndex をラップしたエラーを返します。
type IndexResolver interface {
	Resolve(ctx context.Context, name string) (marketentity.MarketIndex, error)
}

// IsInputError は err が入力値の誤り（期間、リスクフリーレート、未対応の指数）によるものかを判定します。
// それ以外のエラーは価格取得や算出の失敗です。
func IsInputError(err error) bool {
	return errors.Is(err, domain.ErrInvalidDateRange) ||
		errors.Is(err, domain.ErrInvalidRiskFreeRate) ||
		errors.Is(err, marketsusecase.ErrUnknownIndex)
}

// Query は1回の算出に必要な入力です。ゼロ値のフィールドにはデフォルトが適用されます。
type Query struct {
	Symbol       string
	Index        string
	Start        time.Time
	End          time.Time
	RiskFreeRate *float64
}

// Calculator は価格取得から回帰、解釈までを1回の呼び出しで行います。
type Calculator struct {
	prices  PriceFetcher
	indices IndexResolver
	log     *zap.SugaredLogger
	now     func() time.Time
}

// NewCalculator はCalculatorの新しいインスタンスを生成します。
func NewCalculator(prices PriceFetcher, indices IndexResolver, log *zap.SugaredLogger) *Calculator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Calculator{prices: prices, indices: indices, log: log, now: time.Now}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// normalize はデフォルト値を適用し、入力を検証します。
func (c *Calculator) normalize(q Query) (Query, float64, error) {
	q.Symbol = strings.ToUpper(strings.TrimSpace(q.Symbol))
	if q.Symbol == "" {
		q.Symbol = DefaultSymbol
	}
	if strings.TrimSpace(q.Index) == "" {
		q.Index = DefaultIndex
	}
	if q.End.IsZero() {
		q.End = c.now()
	}
	q.End = truncateDay(q.End)
	if q.Start.IsZero() {
		q.Start = q.End.Add(-DefaultLookback)
	}
	q.Start = truncateDay(q.Start)
	if !q.Start.Before(q.End) {
		return q, 0, fmt.Errorf("%w: %s >= %s", domain.ErrInvalidDateRange,
			q.Start.Format(time.DateOnly), q.End.Format(time.DateOnly))
	}

	rf := DefaultRiskFreeRate
	if q.RiskFreeRate != nil {
		rf = *q.RiskFreeRate
	}
	if rf < 0 || rf > MaxRiskFreeRate || math.IsNaN(rf) {
		return q, 0, fmt.Errorf("%w: %v", domain.ErrInvalidRiskFreeRate, rf)
	}
	return q, rf, nil
}

// Compute は銘柄と指数の価格を取得し、超過リターンの回帰から Beta と Jensen's Alpha を算出します。
// 取得・変換・回帰のいずれかが失敗した場合、部分的な結果は返しません。
func (c *Calculator) Compute(ctx context.Context, q Query) (*entity.Report, error) {
	q, rf, err := c.normalize(q)
	if err != nil {
		return nil, err
	}

	idx, err := c.indices.Resolve(ctx, q.Index)
	if err != nil {
		return nil, fmt.Errorf("resolve index: %w", err)
	}

	// 銘柄と指数を並行取得し、どちらかが失敗したらもう一方もキャンセルする
	var stockPrices, marketPrices []entity.PricePoint
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := c.prices.FetchAdjustedClose(gctx, q.Symbol, q.Start, q.End)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", q.Symbol, err)
		}
		stockPrices = p
		return nil
	})
	g.Go(func() error {
		p, err := c.prices.FetchAdjustedClose(gctx, idx.Ticker, q.Start, q.End)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", idx.Ticker, err)
		}
		marketPrices = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stockReturns, err := capm.PercentReturns(stockPrices)
	if err != nil {
		return nil, fmt.Errorf("%s returns: %w", q.Symbol, err)
	}
	marketReturns, err := capm.PercentReturns(marketPrices)
	if err != nil {
		return nil, fmt.Errorf("%s returns: %w", idx.Ticker, err)
	}
	pairs, err := capm.Align(stockReturns, marketReturns)
	if err != nil {
		return nil, err
	}
	reg, err := capm.Regress(pairs, rf)
	if err != nil {
		return nil, err
	}

	periodic := capm.PeriodicRiskFreeRate(rf)
	summary, err := summarize(pairs)
	if err != nil {
		return nil, fmt.Errorf("summarize returns: %w", err)
	}

	c.log.Debugw("beta computed",
		"symbol", q.Symbol,
		"index", idx.Ticker,
		"observations", reg.Observations,
		"beta", reg.Beta,
		"alpha", reg.Alpha,
	)

	return &entity.Report{
		Symbol:       q.Symbol,
		Index:        idx.Name,
		Ticker:       idx.Ticker,
		Start:        q.Start,
		End:          q.End,
		RiskFreeRate: rf,
		PeriodicRate: periodic,
		Regression:   reg,
		Metrics: entity.Metrics{
			Beta:     round4(reg.Beta),
			Alpha:    round4(reg.Alpha),
			RSquared: round4(reg.RSquared),
		},
		Interpretation: entity.Interpretation{
			BetaLabel:     capm.InterpretBeta(reg.Beta),
			AlphaLabel:    capm.InterpretAlpha(reg.Alpha),
			BetaSentence:  capm.BetaSentence(reg.Beta, idx.Name),
			AlphaSentence: capm.AlphaSentence(reg.Alpha),
		},
		Summary: summary,
		Chart:   buildChart(q.Symbol, idx.Name, pairs, periodic, reg),
		Pairs:   pairs,
	}, nil
}
