package xlog

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

type loggerKey struct{}

// fallback 是 context 中没有 Logger 时使用的共享 Logger：stderr、INFO、默认格式
// 它不持有 closer，Close 不会卸载共享的 Sink
var fallback = sync.OnceValue(func() *Logger {
	root := NewRoot()
	root.Replace([]*Sink{NewSink("stderr", os.Stderr, LevelInfo, nil)})
	return &Logger{Logger: slog.New(root)}
})

// FromContext 返回 context 中的 Logger，没有时返回写入 stderr 的共享 Logger
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerKey{}).(*Logger); ok && l != nil {
		return l
	}
	return fallback()
}

// WithContext 将 Logger 存入 context
func WithContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// WithAttrs 为 context 中的 Logger 追加属性并返回新的 context
// 派生的 Logger 不持有 Root，Close 不做任何事
func WithAttrs(ctx context.Context, args ...any) context.Context {
	logger := FromContext(ctx)
	return WithContext(ctx, &Logger{Logger: logger.With(args...)})
}
