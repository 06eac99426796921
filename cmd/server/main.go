package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"beta_backend/internal/app/di"
	"beta_backend/internal/app/router"
	betahandler "beta_backend/internal/feature/beta/transport/handler"
	marketshandler "beta_backend/internal/feature/markets/transport/handler"
	"beta_backend/internal/platform/config"
	"beta_backend/internal/platform/http/handler"
	"beta_backend/internal/platform/logger"
	infraredis "beta_backend/internal/platform/redis"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// 設定（デフォルト < CONFIG_FILE < .env < 環境変数）
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	lg, err := logger.Setup(cfg.Log.Level, cfg.Log.Env)
	if err != nil {
		return err
	}
	defer func() { _ = lg.Sync() }()

	if cfg.Log.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis（未設定・接続失敗時はキャッシュなしで起動）
	var rdb *goredis.Client
	checks := map[string]handler.Checker{}
	if cfg.Redis.Enabled() {
		if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis, lg); err != nil {
			lg.Warnw("Redis unavailable. Running without cache.", "error", err)
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					lg.Errorw("Failed to close Redis client", "error", err)
				}
			}()
			checks["redis"] = func(ctx context.Context) error { return infraredis.Ping(ctx, rdb) }
		}
	}

	// Usecase
	app, err := di.NewApp(cfg, rdb, nil, lg)
	if err != nil {
		return err
	}

	// Handler
	betaH := betahandler.NewBetaHandler(app.Calculator)
	indexH := marketshandler.NewIndexHandler(app.Indices)

	// ルータ生成
	r := router.NewRouter(lg, router.Options{
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		ReadinessChecks: checks,
	}, betaH, indexH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Infow("server starting", "addr", srv.Addr, "provider", cfg.Market.Provider, "redis", rdb != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lg.Infow("shutting down", "timeout", cfg.Server.ShutdownTimeout.Std())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Std())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
