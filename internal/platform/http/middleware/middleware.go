// Package middleware はHTTPサーバー共通のginミドルウェアを提供します。
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"beta_backend/internal/platform/logger"
)

const (
	// RequestIDHeader はリクエストIDを受け渡すHTTPヘッダーです。
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey はgin.ContextにリクエストIDを格納するキーです。
	RequestIDKey = "request_id"
)

// RequestID はリクエストごとにIDを割り当てます。
// クライアントがX-Request-IDを送ってきた場合はそれを引き継ぎます。
// リクエストIDを付与したロガーをリクエストのcontextに格納します。
func RequestID(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)

		ctx := logger.WithContext(c.Request.Context(), log.With(RequestIDKey, id))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequestLogger はリクエストの完了時にステータスと処理時間をログ出力します。
// ハンドラーが c.Error で記録したエラーも併せて出力します。
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		log := logger.FromContext(c.Request.Context())
		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"remote_addr", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Errorw("request failed", fields...)
		case status >= 400:
			log.Warnw("request rejected", fields...)
		default:
			log.Infow("request completed", fields...)
		}
	}
}

// Recovery はpanicをログに記録し500を返します。
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.FromContext(c.Request.Context()).Errorw("panic recovered",
			"path", c.Request.URL.Path,
			"panic", recovered,
		)
		c.AbortWithStatusJSON(500, gin.H{"error": "internal server error"})
	})
}
