// Package adapters provides the static index catalogs for each price provider.
package adapters

import (
	"fmt"

	"beta_backend/internal/feature/markets/domain/entity"
	"beta_backend/internal/feature/markets/usecase"
)

// Supported price providers.
const (
	ProviderYahoo      = "yahoo"
	ProviderTwelveData = "twelvedata"
)

// Index display names.
const (
	SP500       = "S&P 500"
	Nasdaq100   = "NASDAQ 100"
	DowJones    = "Dow Jones"
	Russell2000 = "Russell 2000"
)

var tickers = map[string][4]string{
	ProviderYahoo:      {"^GSPC", "^NDX", "^DJI", "^RUT"},
	ProviderTwelveData: {"SPX", "NDX", "DJI", "RUT"},
}

// StaticCatalog is a fixed, ordered list of indices.
type StaticCatalog struct {
	indices []entity.MarketIndex
}

var _ usecase.IndexCatalog = (*StaticCatalog)(nil)

// NewStaticCatalog returns the catalog with tickers for the given provider.
func NewStaticCatalog(provider string) (*StaticCatalog, error) {
	t, ok := tickers[provider]
	if !ok {
		return nil, fmt.Errorf("no index catalog for provider %q", provider)
	}
	names := [4]string{SP500, Nasdaq100, DowJones, Russell2000}
	out := make([]entity.MarketIndex, 0, len(names))
	for i, n := range names {
		out = append(out, entity.MarketIndex{Name: n, Ticker: t[i]})
	}
	return &StaticCatalog{indices: out}, nil
}

// Indices returns the catalog in display order.
func (c *StaticCatalog) Indices() []entity.MarketIndex {
	return c.indices
}
