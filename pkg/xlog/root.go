package xlog

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
)

// Root 将日志记录分发给所有已挂载的 Sink
// Root 自身不做级别过滤，每个 Sink 的级别是唯一生效的过滤条件
// Sink 集合整体原子替换，并发的 Handle 只会看到完整的旧集合或完整的新集合
type Root struct {
	mu    sync.Mutex
	sinks atomic.Pointer[[]*Sink]
}

// NewRoot 创建一个没有任何 Sink 的 Root
func NewRoot() *Root {
	r := &Root{}
	r.sinks.Store(&[]*Sink{})
	return r
}

func (r *Root) load() []*Sink {
	return *r.sinks.Load()
}

// Sinks 返回当前 Sink 集合的副本
func (r *Root) Sinks() []*Sink {
	return slices.Clone(r.load())
}

// Len 返回当前挂载的 Sink 数量
func (r *Root) Len() int {
	return len(r.load())
}

// Replace 用 sinks 整体替换当前集合，返回被替换下来的旧集合
// 旧集合不会被关闭，由调用方决定何时关闭
func (r *Root) Replace(sinks []*Sink) []*Sink {
	next := slices.Clone(sinks)

	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.sinks.Swap(&next)
}

// Clear 卸载所有 Sink 并返回它们
func (r *Root) Clear() []*Sink {
	return r.Replace(nil)
}

// Close 卸载并关闭所有 Sink
func (r *Root) Close() error {
	return CloseSinks(r.Clear())
}

// CloseSinks 依次关闭 sinks，返回合并后的错误
func CloseSinks(sinks []*Sink) error {
	var errs []error
	for _, s := range sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Enabled 实现 slog.Handler，任一 Sink 接受该级别即返回 true
func (r *Root) Enabled(_ context.Context, level slog.Level) bool {
	for _, s := range r.load() {
		if s.Enabled(level) {
			return true
		}
	}
	return false
}

// Handle 实现 slog.Handler
func (r *Root) Handle(ctx context.Context, rec slog.Record) error {
	return r.dispatch(ctx, rec, nil, "")
}

// WithAttrs 实现 slog.Handler
func (r *Root) WithAttrs(attrs []slog.Attr) slog.Handler {
	return (&view{root: r}).WithAttrs(attrs)
}

// WithGroup 实现 slog.Handler
func (r *Root) WithGroup(name string) slog.Handler {
	return (&view{root: r}).WithGroup(name)
}

func (r *Root) dispatch(_ context.Context, rec slog.Record, bound []slog.Attr, prefix string) error {
	sinks := r.load()

	var attrs []slog.Attr
	collected := false
	var errs []error
	for _, s := range sinks {
		if !s.Enabled(rec.Level) {
			continue
		}
		if !collected {
			attrs = slices.Clone(bound)
			rec.Attrs(func(a slog.Attr) bool {
				attrs = appendAttr(attrs, prefix, a)
				return true
			})
			collected = true
		}
		if err := s.write(rec, attrs); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// view 是 WithAttrs/WithGroup 派生出的 handler
// 每次 Handle 时都从 Root 读取最新的 Sink 集合，重新配置后旧的派生 logger 同样生效
type view struct {
	root   *Root
	attrs  []slog.Attr
	prefix string
}

func (v *view) Enabled(ctx context.Context, level slog.Level) bool {
	return v.root.Enabled(ctx, level)
}

func (v *view) Handle(ctx context.Context, rec slog.Record) error {
	return v.root.dispatch(ctx, rec, v.attrs, v.prefix)
}

func (v *view) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return v
	}
	next := &view{root: v.root, prefix: v.prefix, attrs: slices.Clone(v.attrs)}
	for _, a := range attrs {
		next.attrs = appendAttr(next.attrs, v.prefix, a)
	}
	return next
}

func (v *view) WithGroup(name string) slog.Handler {
	if name == "" {
		return v
	}
	return &view{root: v.root, attrs: v.attrs, prefix: qualify(v.prefix, name)}
}
