package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"beta_backend/internal/feature/beta/domain/entity"
	"beta_backend/internal/feature/beta/usecase"
)

// MemoPriceFetcher is an in-process memoization table in front of a PriceFetcher.
// Keys are (symbol, start date, end date). Entries are never evicted and failures are not stored.
type MemoPriceFetcher struct {
	inner usecase.PriceFetcher
	group singleflight.Group

	mu      sync.RWMutex
	entries map[string][]entity.PricePoint
}

var _ usecase.PriceFetcher = (*MemoPriceFetcher)(nil)

// NewMemoPriceFetcher wraps inner with an unbounded in-memory memo.
func NewMemoPriceFetcher(inner usecase.PriceFetcher) *MemoPriceFetcher {
	return &MemoPriceFetcher{inner: inner, entries: make(map[string][]entity.PricePoint)}
}

func memoKey(symbol string, start, end time.Time) string {
	return safe(symbol) + ":" + start.Format(time.DateOnly) + ":" + end.Format(time.DateOnly)
}

// FetchAdjustedClose returns memoized prices or fetches them once for concurrent callers.
func (m *MemoPriceFetcher) FetchAdjustedClose(ctx context.Context, symbol string, start, end time.Time) ([]entity.PricePoint, error) {
	key := memoKey(symbol, start, end)

	m.mu.RLock()
	cached, ok := m.entries[key]
	m.mu.RUnlock()
	if ok {
		return clonePrices(cached), nil
	}

	// 共有の取得は先頭の呼び出し元のキャンセルに影響されない。各呼び出し元は自身のctxでのみ待機を打ち切る
	shared := context.WithoutCancel(ctx)
	ch := m.group.DoChan(key, func() (any, error) {
		out, err := m.inner.FetchAdjustedClose(shared, symbol, start, end)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.entries[key] = out
		m.mu.Unlock()
		return out, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return clonePrices(res.Val.([]entity.PricePoint)), nil
	}
}

// Len reports the number of memoized ranges.
func (m *MemoPriceFetcher) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Forget drops every memoized range for symbol.
func (m *MemoPriceFetcher) Forget(symbol string) {
	prefix := safe(symbol) + ":"
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
		}
	}
}

// clonePrices は呼び出し側がメモ内のスライスを共有しないようにコピーを返します。
func clonePrices(p []entity.PricePoint) []entity.PricePoint {
	out := make([]entity.PricePoint, len(p))
	copy(out, p)
	return out
}
