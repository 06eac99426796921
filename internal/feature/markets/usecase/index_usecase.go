// Package usecase implements the business logic for market index lookups.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"beta_backend/internal/feature/markets/domain/entity"
)

// ErrUnknownIndex is returned when a name matches no supported index.
var ErrUnknownIndex = errors.New("unknown market index")

// IndexCatalog abstracts the source of supported indices for one price provider.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type IndexCatalog interface {
	Indices() []entity.MarketIndex
}

// IndexUsecase provides listing and resolution of market indices.
type IndexUsecase struct {
	catalog IndexCatalog
}

// NewIndexUsecase creates a new IndexUsecase with the given catalog.
func NewIndexUsecase(c IndexCatalog) *IndexUsecase {
	return &IndexUsecase{catalog: c}
}

// List returns every supported index in display order.
func (u *IndexUsecase) List(_ context.Context) ([]entity.MarketIndex, error) {
	src := u.catalog.Indices()
	out := make([]entity.MarketIndex, len(src))
	copy(out, src)
	return out, nil
}

// Resolve finds an index by display name or ticker, ignoring case and surrounding spaces.
func (u *IndexUsecase) Resolve(_ context.Context, name string) (entity.MarketIndex, error) {
	n := strings.TrimSpace(name)
	for _, idx := range u.catalog.Indices() {
		if strings.EqualFold(idx.Name, n) || strings.EqualFold(idx.Ticker, n) {
			return idx, nil
		}
	}
	return entity.MarketIndex{}, fmt.Errorf("%w: %q", ErrUnknownIndex, name)
}
