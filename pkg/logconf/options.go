package logconf

import (
	"io"
	"os"

	"github.com/DerCoop/logkit/pkg/xlog"
)

// 已知的配置项
const (
	KeyDebugFilePath = "debug_file_path"
	KeyLogFilePath   = "log_file_path"
	KeyFormatString  = "format_string"
)

// Option 配置 Configurator
type Option func(*Configurator)

// WithRoot 使用外部提供的 Root，默认每个 Configurator 持有自己的 Root
func WithRoot(root *xlog.Root) Option {
	return func(c *Configurator) {
		if root != nil {
			c.root = root
		}
	}
}

// WithConsole 设置控制台目标的 writer，默认 os.Stderr
func WithConsole(w io.Writer) Option {
	return func(c *Configurator) {
		if w != nil {
			c.console = w
		}
	}
}

// WithFilePerm 设置新建日志文件的权限
func WithFilePerm(perm os.FileMode) Option {
	return func(c *Configurator) {
		c.perm = perm
	}
}

// defaultLevels 默认级别：控制台输出全部，调试文件比用户日志文件更详细
func defaultLevels() map[Destination]xlog.Level {
	return map[Destination]xlog.Level{
		Console: xlog.LevelTrace,
		Debug:   xlog.LevelDebug,
		Log:     xlog.LevelWarning,
	}
}
