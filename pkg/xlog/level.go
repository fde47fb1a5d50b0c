package xlog

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrInvalidLevel 表示无法识别的日志级别
var ErrInvalidLevel = errors.New("invalid log level")

// Level 日志级别，从低到高：TRACE < DEBUG < INFO < WARNING < ERROR < CRITICAL
type Level int8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarning
	LevelError
	LevelCritical
)

var levelNames = [...]string{
	LevelTrace:    "TRACE",
	LevelDebug:    "DEBUG",
	LevelInfo:     "INFO",
	LevelWarning:  "WARNING",
	LevelError:    "ERROR",
	LevelCritical: "CRITICAL",
}

// 与 slog 级别的对应关系，相邻级别间隔 4
var slogLevels = [...]slog.Level{
	LevelTrace:    slog.LevelDebug - 4,
	LevelDebug:    slog.LevelDebug,
	LevelInfo:     slog.LevelInfo,
	LevelWarning:  slog.LevelWarn,
	LevelError:    slog.LevelError,
	LevelCritical: slog.LevelError + 4,
}

// Valid 判断级别是否属于已知枚举
func (l Level) Valid() bool {
	return l >= LevelTrace && l <= LevelCritical
}

func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Level(%d)", int8(l))
	}
	return levelNames[l]
}

// SlogLevel 返回对应的 slog.Level
func (l Level) SlogLevel() slog.Level {
	if !l.Valid() {
		return slog.LevelInfo
	}
	return slogLevels[l]
}

// LevelOf 将 slog.Level 向下取整映射到最近的已知级别
func LevelOf(sl slog.Level) Level {
	for l := LevelCritical; l > LevelTrace; l-- {
		if sl >= slogLevels[l] {
			return l
		}
	}
	return LevelTrace
}

// ParseLevel 解析级别名称（大小写不敏感）
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace", "notset", "all":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	case "critical", "fatal":
		return LevelCritical, nil
	default:
		return LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
}

// MarshalText 实现 encoding.TextMarshaler
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, int8(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler，配置文件中的级别名称经此解析
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
