// Package capm implements the single-factor market model used to estimate
// Beta and Jensen's Alpha from two price series.
//
// Every function here is pure: no I/O, no clock, no shared state.
package capm

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"beta_backend/internal/feature/beta/domain"
	"beta_backend/internal/feature/beta/domain/entity"
)

// dateKey は日付をタイムゾーンに依存しない暦日に正規化します。
func dateKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// PercentReturns は価格系列を日次の変化率（%）に変換します。
// N 件の有効な価格から N-1 件のリターンを返し、先頭日はリターンを持ちません。
func PercentReturns(prices []entity.PricePoint) ([]entity.ReturnPoint, error) {
	sorted := make([]entity.PricePoint, 0, len(prices))
	// NaN/Inf の価格は日付ごと除外する。次のリターンは直前の有効な終値から計算され、除外した日のリターンは出力されない
	for _, p := range prices {
		if finite(p.AdjClose) {
			sorted = append(sorted, p)
		}
	}
	if len(sorted) < 2 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInsufficientPrices, len(sorted))
	}
	slices.SortStableFunc(sorted, func(a, b entity.PricePoint) int {
		return a.Date.Compare(b.Date)
	})

	out := make([]entity.ReturnPoint, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		prev := sorted[i-1].AdjClose
		if prev <= 0 {
			return nil, fmt.Errorf("%w: %v on %s", domain.ErrInvalidPrice, prev, dateKey(sorted[i-1].Date))
		}
		out = append(out, entity.ReturnPoint{
			Date: sorted[i].Date,
			Pct:  (sorted[i].AdjClose - prev) / prev * 100,
		})
	}
	return out, nil
}

// Align は株式と市場のリターンを日付で内部結合します。
// 両方に存在し、かつ有限値である日付だけが残ります。
func Align(stock, market []entity.ReturnPoint) ([]entity.ReturnPair, error) {
	byDate := make(map[string]float64, len(market))
	for _, m := range market {
		if finite(m.Pct) {
			byDate[dateKey(m.Date)] = m.Pct
		}
	}

	seen := make(map[string]struct{}, len(stock))
	pairs := make([]entity.ReturnPair, 0, min(len(stock), len(market)))
	for _, s := range stock {
		if !finite(s.Pct) {
			continue
		}
		k := dateKey(s.Date)
		m, ok := byDate[k]
		if !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		pairs = append(pairs, entity.ReturnPair{Date: s.Date, Stock: s.Pct, Market: m})
	}
	if len(pairs) == 0 {
		return nil, domain.ErrNoOverlap
	}
	slices.SortFunc(pairs, func(a, b entity.ReturnPair) int {
		return cmp.Compare(dateKey(a.Date), dateKey(b.Date))
	})
	return pairs, nil
}
