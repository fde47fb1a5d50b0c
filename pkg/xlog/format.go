package xlog

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
	"text/template"
	"time"
)

// ErrInvalidFormat 表示格式模板无法解析或执行
var ErrInvalidFormat = errors.New("invalid log format")

// DefaultFormat 默认格式：[LEVEL]: message，有附加属性时追加在末尾
const DefaultFormat = "[{{.Level}}]: {{.Message}}{{with .Attrs}} {{.}}{{end}}"

// Entry 是格式模板可以引用的字段
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	// Source 调用位置 file:line，记录中没有 PC 时为空
	Source string
	// Attrs 以 key=value 形式拼接的属性，分组以点号连接
	Attrs string
}

// Formatter 将日志记录渲染为一行文本
type Formatter struct {
	text string
	tmpl *template.Template
}

// NewFormatter 编译格式模板，空字符串使用 DefaultFormat
func NewFormatter(text string) (*Formatter, error) {
	if text == "" {
		text = DefaultFormat
	}
	tmpl, err := template.New("xlog").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}

	f := &Formatter{text: text, tmpl: tmpl}
	// 用一条样例记录试执行，字段名写错时尽早失败
	var sample bytes.Buffer
	if err := tmpl.Execute(&sample, Entry{}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	return f, nil
}

// MustNewFormatter 编译格式模板（失败时 panic）
func MustNewFormatter(text string) *Formatter {
	f, err := NewFormatter(text)
	if err != nil {
		panic(fmt.Sprintf("failed to create formatter: %v", err))
	}
	return f
}

// Text 返回模板原文
func (f *Formatter) Text() string {
	return f.text
}

// Format 渲染一条记录，返回以换行结尾的字节
func (f *Formatter) Format(r slog.Record, attrs []slog.Attr) ([]byte, error) {
	entry := Entry{
		Time:    r.Time,
		Level:   LevelOf(r.Level).String(),
		Message: r.Message,
		Source:  source(r.PC),
		Attrs:   joinAttrs(attrs),
	}

	var buf bytes.Buffer
	if err := f.tmpl.Execute(&buf, entry); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	if buf.Len() == 0 || buf.Bytes()[buf.Len()-1] != '\n' {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func source(pc uintptr) string {
	if pc == 0 {
		return ""
	}
	frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	if frame.File == "" {
		return ""
	}
	file := frame.File
	if i := strings.LastIndexByte(file, '/'); i >= 0 {
		file = file[i+1:]
	}
	return file + ":" + strconv.Itoa(frame.Line)
}

func joinAttrs(attrs []slog.Attr) string {
	if len(attrs) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, a := range attrs {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(a.Key)
		sb.WriteByte('=')
		sb.WriteString(quoteIfNeeded(a.Value.String()))
	}
	return sb.String()
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " =\"\t\n") {
		return strconv.Quote(s)
	}
	return s
}

// appendAttr 解析并展开属性，分组属性的键以 prefix 加点号限定
func appendAttr(dst []slog.Attr, prefix string, a slog.Attr) []slog.Attr {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return dst
	}

	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		if len(group) == 0 {
			return dst
		}
		// 匿名分组直接内联
		next := prefix
		if a.Key != "" {
			next = qualify(prefix, a.Key)
		}
		for _, ga := range group {
			dst = appendAttr(dst, next, ga)
		}
		return dst
	}

	a.Key = qualify(prefix, a.Key)
	return append(dst, a)
}

func qualify(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
