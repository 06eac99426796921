// Package handler はbetaフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocarina/gocsv"

	"beta_backend/internal/feature/beta/domain"
	"beta_backend/internal/feature/beta/domain/entity"
	"beta_backend/internal/feature/beta/transport/http/dto"
	"beta_backend/internal/feature/beta/usecase"
	"beta_backend/internal/platform/http/api"
)

// BetaUsecase はBeta算出のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type BetaUsecase interface {
	Compute(ctx context.Context, q usecase.Query) (*entity.Report, error)
}

// BetaHandler はBeta/Jensen's AlphaのHTTPリクエストを処理します。
type BetaHandler struct {
	uc BetaUsecase
}

// NewBetaHandler は指定されたusecaseでBetaHandlerの新しいインスタンスを生成します。
func NewBetaHandler(uc BetaUsecase) *BetaHandler {
	return &BetaHandler{uc: uc}
}

// compute はクエリを検証して算出を実行します。失敗時はレスポンスを書き込み nil を返します。
func (h *BetaHandler) compute(c *gin.Context) *entity.Report {
	var req dto.BetaRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: domain.UserMessage(err), Hint: domain.ErrorHint})
		return nil
	}

	q, err := toQuery(req)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: domain.UserMessage(err), Hint: domain.ErrorHint})
		return nil
	}

	report, err := h.uc.Compute(c.Request.Context(), q)
	if err != nil {
		// 本文は単一のメッセージとヒント。入力値の誤りのみ400、それ以外は502
		status := http.StatusBadGateway
		if usecase.IsInputError(err) {
			status = http.StatusBadRequest
		}
		_ = c.Error(err)
		c.JSON(status, api.ErrorResponse{Error: domain.UserMessage(err), Hint: domain.ErrorHint})
		return nil
	}
	return report
}

// GetBeta は銘柄と指数を受け取り、Beta・Jensen's Alpha・R²と解釈、チャートデータをJSONで返します。
//
// エンドポイント例:
// GET /beta?symbol=AAPL&index=S%26P%20500&start=2020-01-01&end=2025-01-01&risk_free_rate=6
func (h *BetaHandler) GetBeta(c *gin.Context) {
	report := h.compute(c)
	if report == nil {
		return
	}
	c.JSON(http.StatusOK, dto.FromReport(report))
}

// GetReturnsCSV は整列済みの日次リターンをCSVで返します。クエリはGetBetaと同じです。
//
// エンドポイント例:
// GET /beta/returns.csv?symbol=AAPL&index=NASDAQ%20100
func (h *BetaHandler) GetReturnsCSV(c *gin.Context) {
	report := h.compute(c)
	if report == nil {
		return
	}
	rows := dto.ReturnRows(report)
	b, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: domain.UserMessage(err)})
		return
	}
	filename := fmt.Sprintf("%s_%s_returns.csv", report.Symbol, report.Ticker)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", b)
}

func toQuery(req dto.BetaRequest) (usecase.Query, error) {
	q := usecase.Query{
		Symbol:       req.Symbol,
		Index:        req.Index,
		RiskFreeRate: req.RiskFreeRate,
	}
	var err error
	if req.Start != "" {
		if q.Start, err = time.Parse(time.DateOnly, req.Start); err != nil {
			return q, fmt.Errorf("parse start %q: %w", req.Start, err)
		}
	}
	if req.End != "" {
		if q.End, err = time.Parse(time.DateOnly, req.End); err != nil {
			return q, fmt.Errorf("parse end %q: %w", req.End, err)
		}
	}
	return q, nil
}
