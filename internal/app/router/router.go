// Package router はHTTPルーティングとミドルウェアの構成を行います。
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	betahandler "beta_backend/internal/feature/beta/transport/handler"
	marketshandler "beta_backend/internal/feature/markets/transport/handler"
	"beta_backend/internal/platform/http/handler"
	"beta_backend/internal/platform/http/middleware"
)

// Options はルーター生成時の設定です。
type Options struct {
	// AllowedOrigins が空の場合はすべてのオリジンを許可します。
	AllowedOrigins []string
	// ReadinessChecks は /readyz で実行する依存先チェックです。
	ReadinessChecks map[string]handler.Checker
}

// NewRouter はすべてのエンドポイントを登録したginエンジンを生成します。
func NewRouter(log *zap.SugaredLogger, opts Options, beta *betahandler.BetaHandler, indices *marketshandler.IndexHandler) *gin.Engine {
	r := gin.New()

	r.Use(
		middleware.RequestID(log),
		middleware.RequestLogger(),
		middleware.Recovery(),
		cors.New(corsConfig(opts.AllowedOrigins)),
	)

	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	// 依存先（Redis等）の疎通確認
	r.GET("/readyz", handler.Readiness(opts.ReadinessChecks))

	// 選択可能な市場指数の一覧
	r.GET("/indices", indices.List)
	// Beta / Jensen's Alpha の算出
	r.GET("/beta", beta.GetBeta)
	// 整列済みリターン系列のCSVダウンロード
	r.GET("/beta/returns.csv", beta.GetReturnsCSV)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "HEAD", "OPTIONS"}
	cfg.AllowHeaders = append(cfg.AllowHeaders, middleware.RequestIDHeader)
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader, "Content-Disposition"}
	cfg.MaxAge = 12 * time.Hour
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
