// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"beta_backend/internal/platform/http/api"
)

// Health はサービスヘルスチェック用の /healthz エンドポイントを処理します。
// HTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
func Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	// すべてのGET/HEAD/OPTIONSリクエストに対して200または204を返す
	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Checker は依存先（Redis等）の疎通を確認する関数です。
type Checker func(ctx context.Context) error

// Readiness は /readyz エンドポイントのハンドラーを返します。
// 登録されたすべてのチェックが成功した場合のみ200を返し、失敗時は503を返します。
// チェックが1つも無い場合は常に200です。
func Readiness(checks map[string]Checker) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")

		status := gin.H{}
		for name, check := range checks {
			if err := check(c.Request.Context()); err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: name + ": " + err.Error()})
				return
			}
			status[name] = "ok"
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "checks": status})
	}
}
