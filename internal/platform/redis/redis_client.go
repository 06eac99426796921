// Package redis はRedisクライアントの生成と接続確認を行います。
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"beta_backend/internal/platform/config"
)

const pingTimeout = 3 * time.Second

// NewRedisClient は設定からRedisクライアントを生成し、接続を確認します。
// 接続に失敗した場合はクライアントを閉じてエラーを返します。
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, log *zap.SugaredLogger) (*redis.Client, error) {
	addr := cfg.Addr()
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 接続確認
	if err := Ping(ctx, rdb); err != nil {
		log.Errorw("Redis connection failed", "address", addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	log.Infow("Redis connection successful", "address", addr)
	return rdb, nil
}

// Ping はタイムアウト付きでRedisへの疎通を確認します。/readyz からも利用します。
func Ping(ctx context.Context, rdb redis.Cmdable) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}
