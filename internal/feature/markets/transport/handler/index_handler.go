// Package handler はmarketsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"beta_backend/internal/feature/markets/domain/entity"
	"beta_backend/internal/feature/markets/transport/http/dto"
	"beta_backend/internal/platform/http/api"
)

// IndexUsecase は指数一覧に関するユースケースのインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type IndexUsecase interface {
	List(ctx context.Context) ([]entity.MarketIndex, error)
}

// IndexHandler は市場指数に関するHTTPリクエストを処理します。
type IndexHandler struct {
	uc IndexUsecase
}

// NewIndexHandler は新しい IndexHandler を作成します。
func NewIndexHandler(uc IndexUsecase) *IndexHandler {
	return &IndexHandler{uc: uc}
}

// List は選択可能な市場指数の一覧を返します。
//
// エンドポイント例:
// GET /indices
func (h *IndexHandler) List(c *gin.Context) {
	indices, err := h.uc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}
	out := make([]dto.IndexItem, 0, len(indices))
	for _, idx := range indices {
		out = append(out, dto.IndexItem{Name: idx.Name, Ticker: idx.Ticker})
	}
	c.JSON(http.StatusOK, out)
}
