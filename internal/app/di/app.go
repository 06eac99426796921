package di

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"beta_backend/internal/feature/beta/usecase"
	marketsadapters "beta_backend/internal/feature/markets/adapters"
	marketsusecase "beta_backend/internal/feature/markets/usecase"
	"beta_backend/internal/platform/cache"
	"beta_backend/internal/platform/config"
)

// App holds the wired use cases and the cache layers in front of the provider.
//
// Fetch chain: memo (in-process) -> Redis (optional) -> provider.
type App struct {
	Calculator *usecase.Calculator
	Indices    *marketsusecase.IndexUsecase

	memo  *cache.MemoPriceFetcher
	redis *cache.CachingPriceFetcher
}

// NewApp wires the application. rdb may be nil, in which case Redis caching is skipped.
// market overrides the configured provider when non-nil.
func NewApp(cfg *config.Config, rdb *goredis.Client, market usecase.PriceFetcher, log *zap.SugaredLogger) (*App, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	catalog, err := marketsadapters.NewStaticCatalog(cfg.Market.Provider)
	if err != nil {
		return nil, err
	}
	indices := marketsusecase.NewIndexUsecase(catalog)

	if market == nil {
		market, err = NewMarket(cfg.Market, log)
		if err != nil {
			return nil, err
		}
	}

	app := &App{Indices: indices}

	fetcher := market
	if rdb != nil {
		loc, err := cfg.Cache.Location()
		if err != nil {
			return nil, fmt.Errorf("cache timezone: %w", err)
		}
		app.redis = cache.NewCachingPriceFetcher(rdb, cache.UntilNextRefresh(cfg.Cache.RefreshHour, loc), market, "prices")
		fetcher = app.redis
	}
	app.memo = cache.NewMemoPriceFetcher(fetcher)
	app.Calculator = usecase.NewCalculator(app.memo, indices, log.Named("beta"))

	return app, nil
}

// Refresh drops cached prices for the given symbols or index names from every cache layer.
func (a *App) Refresh(ctx context.Context, symbols ...string) error {
	var errs []error
	for _, s := range symbols {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if idx, err := a.Indices.Resolve(ctx, s); err == nil {
			s = idx.Ticker
		}
		a.memo.Forget(s)
		if a.redis != nil {
			if err := a.redis.Invalidate(ctx, s); err != nil {
				errs = append(errs, fmt.Errorf("invalidate %s: %w", s, err))
			}
		}
	}
	return errors.Join(errs...)
}
