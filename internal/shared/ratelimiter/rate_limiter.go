// Package ratelimiter は外部API呼び出しの頻度を制限します。
package ratelimiter

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	WaitIfNeeded(ctx context.Context) error
}

// RateLimiterは、interval あたり limit 回までに操作の頻度を制限します。
type RateLimiter struct {
	limiter *rate.Limiter
	limit   int
}

var _ RateLimiterInterface = (*RateLimiter)(nil)

// NewRateLimiterは新しいRateLimiterのインスタンスを生成します。
// limit が 0 以下の場合は制限しません。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	if limit <= 0 || interval <= 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	every := rate.Every(interval / time.Duration(limit))
	return &RateLimiter{limiter: rate.NewLimiter(every, limit), limit: limit}
}

// WaitIfNeededはレートリミットの上限に達しているかを確認し、必要であれば待機します。
// ctx がキャンセルされた場合は待機を中断してエラーを返します。
func (rl *RateLimiter) WaitIfNeeded(ctx context.Context) error {
	if rl.limiter.Tokens() < 1 && rl.limiter.Limit() != rate.Inf {
		zap.S().Debugw("rate limit reached, waiting", "limit", rl.limit)
	}
	return rl.limiter.Wait(ctx)
}
