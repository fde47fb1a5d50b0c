// Package logconf 将一组配置项和每个目标的最低级别物化为挂载在 Root 上的三个 Sink：
// 控制台、调试日志文件和用户日志文件。
package logconf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/DerCoop/logkit/pkg/config"
	"github.com/DerCoop/logkit/pkg/xlog"
	"github.com/DerCoop/logkit/pkg/xlog/filesink"
)

var (
	// ErrConfigurationMissing 必需的路径或格式未设置
	ErrConfigurationMissing = errors.New("configuration missing")
	// ErrSinkCreationFailed 创建 Sink 失败（路径缺失、权限不足、目录不存在等）
	ErrSinkCreationFailed = errors.New("sink creation failed")
)

// Configurator 保存配置项和各目标的级别，Configure 时构建 Sink 并整体替换到 Root 上
type Configurator struct {
	options *config.Config

	mu     sync.RWMutex
	levels map[Destination]xlog.Level

	// 串行化 Configure，保证替换顺序与调用顺序一致
	configureMu sync.Mutex

	root    *xlog.Root
	console io.Writer
	perm    os.FileMode
}

// New 创建 Configurator，format_string 预置为 xlog.DefaultFormat
func New(opts ...Option) *Configurator {
	c := &Configurator{
		options: config.New(),
		levels:  defaultLevels(),
		root:    xlog.NewRoot(),
		console: os.Stderr,
		perm:    filesink.DefaultPerm,
	}
	c.options.SetRaw(KeyFormatString, xlog.DefaultFormat)

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Set 保存任意配置项，不做校验；键按字面保存，互不影响
func (c *Configurator) Set(key string, value any) {
	c.options.SetRaw(key, value)
}

// Get 返回配置项的值，不存在时返回 def
func (c *Configurator) Get(key string, def any) any {
	if v, ok := c.options.GetRaw(key); ok {
		return v
	}
	return def
}

// SetLevel 设置目标的最低级别，未知目标或级别返回错误且不修改已有设置
func (c *Configurator) SetLevel(dest Destination, level xlog.Level) error {
	if !dest.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownDestination, string(dest))
	}
	if !level.Valid() {
		return fmt.Errorf("%w: %v", xlog.ErrInvalidLevel, level)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.levels[dest] = level
	return nil
}

// GetLevel 返回目标的最低级别
func (c *Configurator) GetLevel(dest Destination) (xlog.Level, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	level, ok := c.levels[dest]
	return level, ok
}

// Levels 返回所有目标级别的副本
func (c *Configurator) Levels() map[Destination]xlog.Level {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return maps.Clone(c.levels)
}

// Root 返回 Configurator 使用的 Root
func (c *Configurator) Root() *xlog.Root {
	return c.root
}

// Logger 返回写入 Root 的 Logger，重新 Configure 后无需重新获取
func (c *Configurator) Logger() *xlog.Logger {
	return xlog.New(c.root)
}

// Close 卸载并关闭所有 Sink
func (c *Configurator) Close() error {
	c.configureMu.Lock()
	defer c.configureMu.Unlock()

	return c.root.Close()
}

// Configure 等价于 ConfigureContext(context.Background())
func (c *Configurator) Configure() error {
	return c.ConfigureContext(context.Background())
}

// ConfigureContext 构建控制台、调试文件、日志文件三个 Sink 并替换 Root 上的现有 Sink
//
// 所有 Sink 构建成功后才会挂载；任何一步失败时本次打开的文件全部关闭，
// Root 保留原有 Sink 不变。ctx 结束时立即返回，之后才打开成功的文件在后台关闭。
func (c *Configurator) ConfigureContext(ctx context.Context) error {
	c.configureMu.Lock()
	defer c.configureMu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("configure: %w", err)
	}

	p, err := c.plan()
	if err != nil {
		return err
	}

	console := xlog.NewSink(string(Console), c.console, p.levels[Console], p.formatter)
	files, err := c.openFiles(ctx, p)
	if err != nil {
		return err
	}

	prev := c.root.Replace(append([]*xlog.Sink{console}, files...))
	if err := xlog.CloseSinks(prev); err != nil {
		slog.New(c.root).Warn("failed to close previous sinks", "error", err)
	}
	return nil
}

type fileTarget struct {
	dest  Destination
	path  string
	level xlog.Level
}

// plan 是一次 Configure 使用的配置快照
type plan struct {
	formatter *xlog.Formatter
	levels    map[Destination]xlog.Level
	files     []fileTarget
}

func (c *Configurator) plan() (*plan, error) {
	format := xlog.DefaultFormat
	if v, ok := c.options.GetRaw(KeyFormatString); ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a string, got %T", xlog.ErrInvalidFormat, KeyFormatString, v)
		}
		format = s
	}
	formatter, err := xlog.NewFormatter(format)
	if err != nil {
		return nil, err
	}

	levels := c.Levels()
	debugPath, err := c.requirePath(KeyDebugFilePath)
	if err != nil {
		return nil, err
	}
	logPath, err := c.requirePath(KeyLogFilePath)
	if err != nil {
		return nil, err
	}

	return &plan{
		formatter: formatter,
		levels:    levels,
		files: []fileTarget{
			{dest: Debug, path: debugPath, level: levels[Debug]},
			{dest: Log, path: logPath, level: levels[Log]},
		},
	}, nil
}

// requirePath 读取文件路径配置项，缺失时的错误同时匹配 ErrConfigurationMissing 和 ErrSinkCreationFailed
func (c *Configurator) requirePath(key string) (string, error) {
	v, ok := c.options.GetRaw(key)
	if !ok || v == nil {
		return "", fmt.Errorf("%w: %w: %s is not set", ErrSinkCreationFailed, ErrConfigurationMissing, key)
	}
	path, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %w: %s must be a string, got %T", ErrSinkCreationFailed, ErrConfigurationMissing, key, v)
	}
	if path == "" {
		return "", fmt.Errorf("%w: %w: %s is empty", ErrSinkCreationFailed, ErrConfigurationMissing, key)
	}
	return path, nil
}

type openResult struct {
	sinks []*xlog.Sink
	err   error
}

// openFiles 并发打开所有文件 Sink，要么全部成功，要么全部关闭
func (c *Configurator) openFiles(ctx context.Context, p *plan) ([]*xlog.Sink, error) {
	done := make(chan openResult, 1)

	go func() {
		sinks := make([]*xlog.Sink, len(p.files))
		var g errgroup.Group
		for i, target := range p.files {
			g.Go(func() error {
				s, err := xlog.NewFileSink(string(target.dest), filesink.Config{
					Filename: target.path,
					Perm:     c.perm,
				}, target.level, p.formatter)
				if err != nil {
					return fmt.Errorf("%w: %s sink at %s: %w", ErrSinkCreationFailed, target.dest, target.path, err)
				}
				sinks[i] = s
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			_ = xlog.CloseSinks(sinks)
			done <- openResult{err: err}
			return
		}
		done <- openResult{sinks: sinks}
	}()

	select {
	case r := <-done:
		return r.sinks, r.err
	case <-ctx.Done():
		go func() {
			r := <-done
			_ = xlog.CloseSinks(r.sinks)
		}()
		return nil, fmt.Errorf("configure: %w", ctx.Err())
	}
}
