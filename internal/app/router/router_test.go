package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"beta_backend/internal/feature/beta/domain/entity"
	betahandler "beta_backend/internal/feature/beta/transport/handler"
	"beta_backend/internal/feature/beta/usecase"
	marketsentity "beta_backend/internal/feature/markets/domain/entity"
	marketshandler "beta_backend/internal/feature/markets/transport/handler"
	"beta_backend/internal/platform/http/handler"
	"beta_backend/internal/platform/http/middleware"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubBeta struct{}

func (stubBeta) Compute(_ context.Context, q usecase.Query) (*entity.Report, error) {
	d := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	return &entity.Report{
		Symbol: "AAPL",
		Index:  "S&P 500",
		Ticker: "^GSPC",
		Start:  d,
		End:    d.AddDate(0, 1, 0),
		Pairs:  []entity.ReturnPair{{Date: d, Stock: 1, Market: 0.5}},
	}, nil
}

type stubIndices struct{}

func (stubIndices) List(context.Context) ([]marketsentity.MarketIndex, error) {
	return []marketsentity.MarketIndex{{Name: "S&P 500", Ticker: "^GSPC"}}, nil
}

func newTestRouter(opts Options) *gin.Engine {
	return NewRouter(zap.NewNop().Sugar(), opts,
		betahandler.NewBetaHandler(stubBeta{}),
		marketshandler.NewIndexHandler(stubIndices{}))
}

func TestNewRouter_Routes(t *testing.T) {
	t.Parallel()

	r := newTestRouter(Options{})

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodHead, "/healthz", http.StatusOK},
		{http.MethodGet, "/readyz", http.StatusOK},
		{http.MethodGet, "/indices", http.StatusOK},
		{http.MethodGet, "/beta?symbol=AAPL", http.StatusOK},
		{http.MethodGet, "/beta/returns.csv", http.StatusOK},
		{http.MethodGet, "/candles/AAPL", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestNewRouter_ReadinessFailure(t *testing.T) {
	t.Parallel()

	r := newTestRouter(Options{ReadinessChecks: map[string]handler.Checker{
		"redis": func(context.Context) error { return errors.New("down") },
	}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestNewRouter_CORS(t *testing.T) {
	t.Parallel()

	r := newTestRouter(Options{AllowedOrigins: []string{"http://localhost:3000"}})

	t.Run("allowed origin", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/indices", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("disallowed origin", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/indices", nil)
		req.Header.Set("Origin", "http://evil.example")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
