package filesink

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrFilenameRequired 表示未提供文件路径
var ErrFilenameRequired = errors.New("filename is required")

// Writer 实现了 io.WriteCloser 接口，以追加模式写入单个文件
// 多个 goroutine 并发 Write 时按调用顺序串行写入
type Writer struct {
	name string
	file *os.File
	mu   sync.Mutex
}

// New 打开（或创建）日志文件，文件以追加模式写入
func New(config Config) (*Writer, error) {
	if config.Filename == "" {
		return nil, ErrFilenameRequired
	}
	if config.Perm == 0 {
		config.Perm = DefaultPerm
	}

	if config.MkdirAll {
		if err := os.MkdirAll(filepath.Dir(config.Filename), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	file, err := os.OpenFile(config.Filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, config.Perm)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &Writer{name: config.Filename, file: file}, nil
}

// MustNew 打开日志文件（失败时 panic）
func MustNew(config Config) *Writer {
	w, err := New(config)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize file writer: %v", err))
	}
	return w
}

// Name 返回文件路径
func (w *Writer) Name() string {
	return w.name
}

// Write 实现 io.Writer 接口
func (w *Writer) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return 0, os.ErrClosed
	}
	return w.file.Write(p)
}

// Sync 将缓冲数据刷到磁盘
func (w *Writer) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	return w.file.Sync()
}

// Close 实现 io.Closer 接口，重复调用返回 nil
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}

	err := w.file.Close()
	w.file = nil
	return err
}
