package filesink

import "os"

// DefaultPerm 新建日志文件的默认权限
const DefaultPerm os.FileMode = 0o666

// Config 文件输出配置
type Config struct {
	// Filename 日志文件路径（必填）
	Filename string

	// Perm 新建文件的权限，0 表示 DefaultPerm
	Perm os.FileMode

	// MkdirAll 为 true 时自动创建缺失的父目录，否则父目录不存在视为错误
	MkdirAll bool
}
