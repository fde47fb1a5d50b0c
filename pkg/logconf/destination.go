package logconf

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDestination 表示不属于 console/debug/log 的目标名称
var ErrUnknownDestination = errors.New("unknown destination")

// Destination 输出目标
type Destination string

const (
	// Console 控制台输出
	Console Destination = "console"
	// Debug 调试日志文件，写入 debug_file_path
	Debug Destination = "debug"
	// Log 用户日志文件，写入 log_file_path
	Log Destination = "log"
)

// Destinations 返回所有目标，顺序即 Sink 挂载顺序
func Destinations() []Destination {
	return []Destination{Console, Debug, Log}
}

// Valid 判断目标是否已知
func (d Destination) Valid() bool {
	switch d {
	case Console, Debug, Log:
		return true
	default:
		return false
	}
}

// ParseDestination 解析目标名称（大小写不敏感）
func ParseDestination(s string) (Destination, error) {
	d := Destination(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDestination, s)
	}
	return d, nil
}
