package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupRouter(log *zap.SugaredLogger) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(log), RequestLogger(), Recovery())
	r.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": c.GetString(RequestIDKey)})
	})
	r.GET("/bad", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream"})
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return r
}

func TestRequestID_Generated(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	setupRouter(zap.NewNop().Sugar()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	id := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.JSONEq(t, `{"request_id":"`+id+`"}`, w.Body.String())
}

func TestRequestID_Propagated(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	setupRouter(zap.NewNop().Sugar()).ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestRequestLogger_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path      string
		wantLevel zapcore.Level
		wantMsg   string
		wantCode  int
	}{
		{path: "/ok", wantLevel: zapcore.InfoLevel, wantMsg: "request completed", wantCode: http.StatusOK},
		{path: "/bad", wantLevel: zapcore.ErrorLevel, wantMsg: "request failed", wantCode: http.StatusBadGateway},
		{path: "/panic", wantLevel: zapcore.ErrorLevel, wantMsg: "request failed", wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			core, logs := observer.New(zapcore.DebugLevel)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set(RequestIDHeader, "rid")
			setupRouter(zap.New(core).Sugar()).ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			entries := logs.FilterMessage(tt.wantMsg).All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantLevel, entries[0].Level)

			ctx := entries[0].ContextMap()
			assert.Equal(t, "rid", ctx[RequestIDKey])
			assert.Equal(t, tt.path, ctx["path"])
			assert.EqualValues(t, tt.wantCode, ctx["status"])
		})
	}
}
