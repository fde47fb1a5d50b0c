package xlog

import (
	"io"
	"log/slog"
	"sync"

	"github.com/DerCoop/logkit/pkg/xlog/filesink"
)

// Sink 是一个输出目标：一个 writer、一个格式和一个最低级别
// 创建后不再修改，每条记录以一次 Write 写出
type Sink struct {
	name      string
	w         io.Writer
	closer    io.Closer
	threshold Level
	formatter *Formatter

	mu sync.Mutex
}

// NewSink 创建写入 w 的输出目标，Sink 不负责关闭 w
func NewSink(name string, w io.Writer, threshold Level, f *Formatter) *Sink {
	if f == nil {
		f = MustNewFormatter(DefaultFormat)
	}
	return &Sink{
		name:      name,
		w:         w,
		threshold: threshold,
		formatter: f,
	}
}

// NewFileSink 以追加模式打开文件并创建输出目标，Close 时关闭文件
func NewFileSink(name string, cfg filesink.Config, threshold Level, f *Formatter) (*Sink, error) {
	w, err := filesink.New(cfg)
	if err != nil {
		return nil, err
	}
	s := NewSink(name, w, threshold, f)
	s.closer = w
	return s, nil
}

// Name 返回目标名称
func (s *Sink) Name() string {
	return s.name
}

// Threshold 返回最低输出级别
func (s *Sink) Threshold() Level {
	return s.threshold
}

// Enabled 判断该级别的记录是否会被输出，TRACE 阈值接受任何级别
func (s *Sink) Enabled(level slog.Level) bool {
	if s.threshold == LevelTrace {
		return true
	}
	return level >= s.threshold.SlogLevel()
}

func (s *Sink) write(r slog.Record, attrs []slog.Attr) error {
	line, err := s.formatter.Format(r, attrs)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.w.Write(line)
	return err
}

// Close 关闭 Sink 持有的文件，控制台目标不做任何事
func (s *Sink) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
