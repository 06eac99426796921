package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"beta_backend/internal/feature/beta/domain"
	"beta_backend/internal/feature/beta/domain/entity"
	"beta_backend/internal/feature/beta/usecase"
	"beta_backend/internal/platform/externalapi/twelvedata/dto"
	"beta_backend/internal/shared/ratelimiter"
)

// TwelveDataPrices はTwelve Data外部APIから調整後終値を取得するPriceFetcher実装です。
type TwelveDataPrices struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.RateLimiterInterface
	log     *zap.SugaredLogger
}

// TwelveDataPricesがPriceFetcherを実装していることをコンパイル時に検証します。
var _ usecase.PriceFetcher = (*TwelveDataPrices)(nil)

// NewTwelveDataPrices は指定された設定とHTTPクライアントでTwelveDataPricesの新しいインスタンスを生成します。
// limiter が nil の場合はレート制限を行いません。
func NewTwelveDataPrices(cfg Config, client *http.Client, limiter ratelimiter.RateLimiterInterface, log *zap.SugaredLogger) *TwelveDataPrices {
	if limiter == nil {
		limiter = ratelimiter.NewRateLimiter(0, 0)
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &TwelveDataPrices{cfg: cfg, client: client, limiter: limiter, log: log}
}

// FetchAdjustedClose はTwelve Data APIから [start, end] の日足を取得し、
// 調整後終値を日付昇順で返します。
func (t *TwelveDataPrices) FetchAdjustedClose(ctx context.Context, symbol string, start, end time.Time) ([]entity.PricePoint, error) {
	if err := t.limiter.WaitIfNeeded(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	// クエリパラメータを追加
	q.Set("symbol", symbol)
	q.Set("interval", "1day")
	q.Set("start_date", start.Format(time.DateOnly))
	// end_date は排他的なため翌日を指定する
	q.Set("end_date", end.AddDate(0, 0, 1).Format(time.DateOnly))
	q.Set("order", "ASC")
	q.Set("adjust", "all")
	q.Set("outputsize", "5000")
	q.Set("apikey", t.cfg.APIKey)

	// URLを生成
	u := fmt.Sprintf("%s/time_series?%s", t.cfg.baseURL(), q.Encode())

	// リクエストオブジェクトを作成
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	t.log.Debugw("twelvedata request", "symbol", symbol, "start", start.Format(time.DateOnly), "end", end.Format(time.DateOnly))

	// リクエストを実行
	res, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			t.log.Warnw("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("twelvedata http %d", res.StatusCode)
	}

	// JSONレスポンスをDTOにデコード
	var body dto.TimeSeriesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Status == "error" {
		return nil, fmt.Errorf("twelvedata: %s", body.Message)
	}
	if len(body.Values) == 0 {
		return nil, fmt.Errorf("twelvedata %s: %w", symbol, domain.ErrNoData)
	}

	prices := make([]entity.PricePoint, 0, len(body.Values))
	for _, v := range body.Values {
		// タイムスタンプをパース
		tm, err := time.Parse(time.DateTime, v.Datetime)
		if err != nil {
			tm, err = time.Parse(time.DateOnly, v.Datetime)
			if err != nil {
				return nil, fmt.Errorf("parse time %q: %w", v.Datetime, err)
			}
		}
		// adjust=all 指定時の終値は調整後終値
		c, err := strconv.ParseFloat(v.Close, 64)
		if err != nil {
			return nil, fmt.Errorf("parse close %q: %w", v.Close, err)
		}
		prices = append(prices, entity.PricePoint{
			Date:     time.Date(tm.Year(), tm.Month(), tm.Day(), 0, 0, 0, 0, time.UTC),
			AdjClose: c,
		})
	}
	return prices, nil
}
