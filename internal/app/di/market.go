// Package di provides dependency injection factories for creating application components.
package di

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"beta_backend/internal/feature/beta/usecase"
	marketsadapters "beta_backend/internal/feature/markets/adapters"
	"beta_backend/internal/platform/config"
	"beta_backend/internal/platform/externalapi/twelvedata"
	"beta_backend/internal/platform/externalapi/yahoo"
	infrahttp "beta_backend/internal/platform/http"
	"beta_backend/internal/shared/ratelimiter"
)

// NewMarket creates the price fetcher for the configured provider, throttled to
// cfg.RequestsPerMinute. Zero disables throttling.
func NewMarket(cfg config.MarketConfig, log *zap.SugaredLogger) (usecase.PriceFetcher, error) {
	limiter := ratelimiter.NewRateLimiter(cfg.RequestsPerMinute, time.Minute)

	switch cfg.Provider {
	case marketsadapters.ProviderYahoo:
		return yahoo.NewYahooPrices(limiter, log.Named("yahoo")), nil
	case marketsadapters.ProviderTwelveData:
		tdCfg := twelvedata.Config{
			APIKey:  cfg.TwelveDataAPIKey,
			BaseURL: cfg.TwelveDataBaseURL,
			Timeout: cfg.Timeout.Std(),
		}
		httpClient := infrahttp.NewHTTPClient(tdCfg.Timeout, "")
		return twelvedata.NewTwelveDataPrices(tdCfg, httpClient, limiter, log.Named("twelvedata")), nil
	default:
		return nil, fmt.Errorf("unknown market provider %q", cfg.Provider)
	}
}
