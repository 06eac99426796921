package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beta_backend/internal/feature/beta/domain/entity"
)

func TestMemoPriceFetcher_MemoizesByKey(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	inner := &mockPriceFetcher{
		fetchFn: func(ctx context.Context, symbol string, start, end time.Time) ([]entity.PricePoint, error) {
			calls.Add(1)
			return testPrices, nil
		},
	}
	m := NewMemoPriceFetcher(inner)
	ctx := context.Background()

	first, err := m.FetchAdjustedClose(ctx, "AAPL", testStart, testEnd)
	require.NoError(t, err)
	second, err := m.FetchAdjustedClose(ctx, "AAPL", testStart, testEnd)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())

	// 異なる期間は別キー
	_, err = m.FetchAdjustedClose(ctx, "AAPL", testStart.AddDate(1, 0, 0), testEnd)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 2, m.Len())

	// 返却値を変更してもメモは変わらない
	first[0].AdjClose = -1
	third, _ := m.FetchAdjustedClose(ctx, "AAPL", testStart, testEnd)
	assert.Equal(t, 252.2, third[0].AdjClose)
}

func TestMemoPriceFetcher_ErrorsAreNotMemoized(t *testing.T) {
	t.Parallel()

	fail := true
	inner := &mockPriceFetcher{
		fetchFn: func(ctx context.Context, symbol string, start, end time.Time) ([]entity.PricePoint, error) {
			if fail {
				return nil, errors.New("temporary")
			}
			return testPrices, nil
		},
	}
	m := NewMemoPriceFetcher(inner)

	_, err := m.FetchAdjustedClose(context.Background(), "AAPL", testStart, testEnd)
	require.Error(t, err)
	assert.Equal(t, 0, m.Len())

	fail = false
	got, err := m.FetchAdjustedClose(context.Background(), "AAPL", testStart, testEnd)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestMemoPriceFetcher_ConcurrentMissesShareOneFetch(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	release := make(chan struct{})
	inner := &mockPriceFetcher{
		fetchFn: func(ctx context.Context, symbol string, start, end time.Time) ([]entity.PricePoint, error) {
			calls.Add(1)
			<-release
			return testPrices, nil
		},
	}
	m := NewMemoPriceFetcher(inner)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.FetchAdjustedClose(context.Background(), "AAPL", testStart, testEnd)
			assert.NoError(t, err)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestMemoPriceFetcher_Forget(t *testing.T) {
	t.Parallel()

	m := NewMemoPriceFetcher(&mockPriceFetcher{
		fetchFn: func(ctx context.Context, symbol string, start, end time.Time) ([]entity.PricePoint, error) {
			return testPrices, nil
		},
	})
	ctx := context.Background()
	_, _ = m.FetchAdjustedClose(ctx, "AAPL", testStart, testEnd)
	_, _ = m.FetchAdjustedClose(ctx, "AAP", testStart, testEnd)
	require.Equal(t, 2, m.Len())

	m.Forget("aapl")
	assert.Equal(t, 1, m.Len())
}

func TestMemoPriceFetcher_LeaderCancelDoesNotFailOtherCallers(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	inner := &mockPriceFetcher{
		fetchFn: func(ctx context.Context, symbol string, start, end time.Time) ([]entity.PricePoint, error) {
			if calls.Add(1) == 1 {
				close(started)
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-release:
				return testPrices, nil
			}
		},
	}
	m := NewMemoPriceFetcher(inner)

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := m.FetchAdjustedClose(leaderCtx, "^GSPC", testStart, testEnd)
		leaderErr <- err
	}()
	<-started

	followerDone := make(chan struct{})
	var (
		followerPrices []entity.PricePoint
		followerErr    error
	)
	go func() {
		defer close(followerDone)
		followerPrices, followerErr = m.FetchAdjustedClose(context.Background(), "^GSPC", testStart, testEnd)
	}()
	// 後続の呼び出しが同じ取得に合流するのを待つ
	time.Sleep(20 * time.Millisecond)

	// 先頭の呼び出し元だけが待機を打ち切る
	cancelLeader()
	assert.ErrorIs(t, <-leaderErr, context.Canceled)

	close(release)
	<-followerDone
	require.NoError(t, followerErr)
	assert.Equal(t, testPrices, followerPrices)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, m.Len())
}

func TestMemoPriceFetcher_CallerCancelWhileWaiting(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	defer close(release)
	m := NewMemoPriceFetcher(&mockPriceFetcher{
		fetchFn: func(ctx context.Context, symbol string, start, end time.Time) ([]entity.PricePoint, error) {
			<-release
			return testPrices, nil
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := m.FetchAdjustedClose(ctx, "AAPL", testStart, testEnd)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
