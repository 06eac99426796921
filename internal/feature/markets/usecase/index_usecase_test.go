package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beta_backend/internal/feature/markets/domain/entity"
	"beta_backend/internal/feature/markets/usecase"
)

// mockIndexCatalog はIndexCatalogインターフェースのモック実装です。
type mockIndexCatalog struct {
	IndicesFunc func() []entity.MarketIndex
}

func (m *mockIndexCatalog) Indices() []entity.MarketIndex {
	if m.IndicesFunc != nil {
		return m.IndicesFunc()
	}
	return nil
}

var testIndices = []entity.MarketIndex{
	{Name: "S&P 500", Ticker: "^GSPC"},
	{Name: "NASDAQ 100", Ticker: "^NDX"},
}

func newUsecase() *usecase.IndexUsecase {
	return usecase.NewIndexUsecase(&mockIndexCatalog{
		IndicesFunc: func() []entity.MarketIndex { return testIndices },
	})
}

func TestIndexUsecase_List(t *testing.T) {
	t.Parallel()

	got, err := newUsecase().List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testIndices, got)

	// 返却値を変更してもカタログには影響しない
	got[0].Name = "changed"
	again, _ := newUsecase().List(context.Background())
	assert.Equal(t, "S&P 500", again[0].Name)
}

// TestIndexUsecase_Resolve は名前またはティッカーで指数を解決できることを検証します。
func TestIndexUsecase_Resolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    entity.MarketIndex
		wantErr bool
	}{
		{name: "exact display name", input: "S&P 500", want: testIndices[0]},
		{name: "case insensitive with spaces", input: "  nasdaq 100 ", want: testIndices[1]},
		{name: "ticker", input: "^gspc", want: testIndices[0]},
		{name: "unknown", input: "FTSE 100", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	uc := newUsecase()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := uc.Resolve(context.Background(), tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, usecase.ErrUnknownIndex)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
