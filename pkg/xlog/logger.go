package xlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/DerCoop/logkit/pkg/xlog/filesink"
)

// Logger 封装了 slog.Logger 和资源清理逻辑
// 通过嵌入 *slog.Logger，可以直接调用所有 slog 的方法
type Logger struct {
	*slog.Logger
	closer io.Closer
}

// New 创建一个写入 root 的 Logger，Close 会卸载并关闭 root 上的所有 Sink
func New(root *Root) *Logger {
	return &Logger{
		Logger: slog.New(root),
		closer: root,
	}
}

func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// Trace 以 TRACE 级别记录日志
func (l *Logger) Trace(msg string, args ...any) {
	l.log(context.Background(), LevelTrace, msg, args...)
}

// TraceContext 以 TRACE 级别记录日志
func (l *Logger) TraceContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, LevelTrace, msg, args...)
}

// Critical 以 CRITICAL 级别记录日志
func (l *Logger) Critical(msg string, args ...any) {
	l.log(context.Background(), LevelCritical, msg, args...)
}

// CriticalContext 以 CRITICAL 级别记录日志
func (l *Logger) CriticalContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, LevelCritical, msg, args...)
}

// LogLevel 以任意已知级别记录日志
func (l *Logger) LogLevel(ctx context.Context, level Level, msg string, args ...any) {
	l.log(ctx, level, msg, args...)
}

// log 跳过包装层记录调用位置
func (l *Logger) log(ctx context.Context, level Level, msg string, args ...any) {
	if ctx == nil {
		ctx = context.Background()
	}
	sl := level.SlogLevel()
	if !l.Enabled(ctx, sl) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), sl, msg, pcs[0])
	r.Add(args...)
	_ = l.Handler().Handle(ctx, r)
}

// Open 根据单目标配置创建 Logger
// 返回的 Logger 使用完毕后应调用 Close() 关闭资源
func Open(cfg Config) (*Logger, error) {
	cfg = normalize(cfg)

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	f, err := NewFormatter(cfg.Format)
	if err != nil {
		return nil, err
	}

	var sink *Sink
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		sink = NewSink("stdout", os.Stdout, level, f)
	case "stderr":
		sink = NewSink("stderr", os.Stderr, level, f)
	default:
		sink, err = NewFileSink("file", filesink.Config{Filename: cfg.Output, MkdirAll: true}, level, f)
		if err != nil {
			return nil, err
		}
	}

	root := NewRoot()
	root.Replace([]*Sink{sink})
	return New(root), nil
}

// MustOpen 根据单目标配置创建 Logger（失败时 panic）
func MustOpen(cfg Config) *Logger {
	logger, err := Open(cfg)
	if err != nil {
		panic(fmt.Sprintf("failed to create logger: %v", err))
	}
	return logger
}

func normalize(cfg Config) Config {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
	return cfg
}
