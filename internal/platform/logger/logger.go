// Package logger はアプリケーション共通のzapロガーを構築します。
package logger

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// contextKey はcontextにロガーを格納する際のキーです。
type contextKey struct{}

// New はenv（dev/prod）とレベルに応じたSugaredLoggerを生成します。
// dev はコンソール形式、それ以外はJSON形式で出力します。
func New(level, env string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	if strings.ToLower(env) == "dev" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.InitialFields = map[string]any{"APP_ENV": env}
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build(zap.AddStacktrace(zap.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return l.Sugar(), nil
}

// Setup はNewで生成したロガーをグローバルにも登録します。
// zap.S() を使うパッケージ（rate limiter等）も同じ設定で出力されます。
func Setup(level, env string) (*zap.SugaredLogger, error) {
	l, err := New(level, env)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(l.Desugar())
	return l, nil
}

// WithContext はロガーを格納したcontextを返します。
func WithContext(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext はcontextに格納されたロガーを返します。無ければグローバルロガーを返します。
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if l, ok := ctx.Value(contextKey{}).(*zap.SugaredLogger); ok {
		return l
	}
	return zap.S()
}
