// Package dto defines data transfer objects for the beta HTTP API.
package dto

// BetaRequest はBeta算出APIのクエリパラメータです。未指定の項目はusecase側でデフォルトが適用されます。
type BetaRequest struct {
	Symbol       string   `form:"symbol" binding:"omitempty,max=20"`
	Index        string   `form:"index" binding:"omitempty,max=40"`
	Start        string   `form:"start" binding:"omitempty,datetime=2006-01-02"`
	End          string   `form:"end" binding:"omitempty,datetime=2006-01-02"`
	RiskFreeRate *float64 `form:"risk_free_rate" binding:"omitempty,gte=0,lte=20"`
}
