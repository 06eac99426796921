package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"

	"beta_backend/internal/feature/beta/domain/entity"
)

// mockPriceFetcher はテスト用のPriceFetcherモック実装です。
type mockPriceFetcher struct {
	fetchFn func(ctx context.Context, symbol string, start, end time.Time) ([]entity.PricePoint, error)
}

// FetchAdjustedClose はモックのfetchFn関数を呼び出します。
func (m *mockPriceFetcher) FetchAdjustedClose(ctx context.Context, symbol string, start, end time.Time) ([]entity.PricePoint, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, symbol, start, end)
	}
	return nil, nil
}

var (
	testStart  = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	testEnd    = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	testKey    = "prices:AAPL:2020-01-01:2025-01-01"
	testPrices = []entity.PricePoint{
		{Date: time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), AdjClose: 252.2},
		{Date: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), AdjClose: 250.42},
	}
)

// TestNewCachingPriceFetcher_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewCachingPriceFetcher_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               TTLFunc
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{
			name:              "default values when nil/empty",
			expectedTTL:       5 * time.Minute,
			expectedNamespace: "prices",
		},
		{
			name:              "custom values preserved",
			ttl:               FixedTTL(10 * time.Minute),
			namespace:         "custom",
			expectedTTL:       10 * time.Minute,
			expectedNamespace: "custom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := NewCachingPriceFetcher(nil, tt.ttl, &mockPriceFetcher{}, tt.namespace)

			if got := f.ttl(); got != tt.expectedTTL {
				t.Errorf("expected TTL %v, got %v", tt.expectedTTL, got)
			}
			if f.namespace != tt.expectedNamespace {
				t.Errorf("expected namespace %q, got %q", tt.expectedNamespace, f.namespace)
			}
		})
	}
}

// TestCachingPriceFetcher_NilRedis はRedisがnilの場合にキャッシュをバイパスすることを検証します。
func TestCachingPriceFetcher_NilRedis(t *testing.T) {
	t.Parallel()

	calls := 0
	inner := &mockPriceFetcher{
		fetchFn: func(ctx context.Context, symbol string, start, end time.Time) ([]entity.PricePoint, error) {
			calls++
			return testPrices, nil
		},
	}

	f := NewCachingPriceFetcher(nil, nil, inner, "")
	for i := 0; i < 2; i++ {
		prices, err := f.FetchAdjustedClose(context.Background(), "AAPL", testStart, testEnd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(prices) != len(testPrices) {
			t.Errorf("expected %d prices, got %d", len(testPrices), len(prices))
		}
	}
	if calls != 2 {
		t.Errorf("expected inner to be called twice, got %d", calls)
	}
	if err := f.Invalidate(context.Background(), "AAPL"); err != nil {
		t.Errorf("expected nil error on invalidate without redis, got %v", err)
	}
}

// TestCachingPriceFetcher_CacheHit はキャッシュヒット時に内部フェッチャーを呼ばないことを検証します。
func TestCachingPriceFetcher_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cachedJSON, _ := json.Marshal(testPrices)
	mock.ExpectGet(testKey).SetVal(string(cachedJSON))

	innerCalled := false
	inner := &mockPriceFetcher{
		fetchFn: func(ctx context.Context, symbol string, start, end time.Time) ([]entity.PricePoint, error) {
			innerCalled = true
			return nil, nil
		},
	}

	f := NewCachingPriceFetcher(rdb, FixedTTL(time.Hour), inner, "prices")
	prices, err := f.FetchAdjustedClose(context.Background(), "aapl", testStart, testEnd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if innerCalled {
		t.Error("inner fetcher should not be called on cache hit")
	}
	if len(prices) != 2 || prices[1].AdjClose != 250.42 {
		t.Errorf("unexpected prices: %+v", prices)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingPriceFetcher_CacheMiss はキャッシュミス時にプロバイダから取得し保存することを検証します。
func TestCachingPriceFetcher_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedJSON, _ := json.Marshal(testPrices)
	mock.ExpectGet(testKey).RedisNil()
	mock.ExpectSet(testKey, expectedJSON, time.Hour).SetVal("OK")

	inner := &mockPriceFetcher{
		fetchFn: func(ctx context.Context, symbol string, start, end time.Time) ([]entity.PricePoint, error) {
			if !start.Equal(testStart) || !end.Equal(testEnd) {
				t.Errorf("unexpected range %v - %v", start, end)
			}
			return testPrices, nil
		},
	}

	f := NewCachingPriceFetcher(rdb, FixedTTL(time.Hour), inner, "prices")
	prices, err := f.FetchAdjustedClose(context.Background(), "AAPL", testStart, testEnd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prices) != 2 {
		t.Errorf("expected 2 prices, got %d", len(prices))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingPriceFetcher_InnerError はプロバイダのエラーが伝播され、キャッシュされないことを検証します。
func TestCachingPriceFetcher_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("provider error")
	mock.ExpectGet(testKey).RedisNil()

	inner := &mockPriceFetcher{
		fetchFn: func(ctx context.Context, symbol string, start, end time.Time) ([]entity.PricePoint, error) {
			return nil, expectedErr
		},
	}

	f := NewCachingPriceFetcher(rdb, FixedTTL(time.Hour), inner, "prices")
	_, err := f.FetchAdjustedClose(context.Background(), "AAPL", testStart, testEnd)
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingPriceFetcher_CorruptedCache は破損したキャッシュを削除しプロバイダにフォールバックすることを検証します。
func TestCachingPriceFetcher_CorruptedCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedJSON, _ := json.Marshal(testPrices)
	mock.ExpectGet(testKey).SetVal("invalid json")
	mock.ExpectDel(testKey).SetVal(1)
	mock.ExpectSet(testKey, expectedJSON, time.Hour).SetVal("OK")

	inner := &mockPriceFetcher{
		fetchFn: func(ctx context.Context, symbol string, start, end time.Time) ([]entity.PricePoint, error) {
			return testPrices, nil
		},
	}

	f := NewCachingPriceFetcher(rdb, FixedTTL(time.Hour), inner, "prices")
	prices, err := f.FetchAdjustedClose(context.Background(), "AAPL", testStart, testEnd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prices) != 2 {
		t.Errorf("expected 2 prices, got %d", len(prices))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingPriceFetcher_Invalidate は銘柄単位でキャッシュが無効化されることを検証します。
func TestCachingPriceFetcher_Invalidate(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectScan(0, "prices:^GSPC:*", 200).SetVal([]string{"prices:^GSPC:2020-01-01:2025-01-01", "prices:^GSPC:2024-01-01:2025-01-01"}, 0)
	mock.ExpectDel("prices:^GSPC:2020-01-01:2025-01-01", "prices:^GSPC:2024-01-01:2025-01-01").SetVal(2)

	f := NewCachingPriceFetcher(rdb, nil, &mockPriceFetcher{}, "prices")
	if err := f.Invalidate(context.Background(), "^GSPC"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestSafe はsafe関数がRedisキーで問題となる文字を正しくエスケープすることを検証します。
func TestSafe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"AAPL", "AAPL"},
		{"brk b", "BRK_B"},
		{"key:value", "KEY_VALUE"},
		{"^GSPC", "^GSPC"},
		{"a*", "A_"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if result := safe(tt.input); result != tt.expected {
				t.Errorf("safe(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}
