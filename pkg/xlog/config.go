package xlog

// Config 单目标日志配置，用于只需要一个输出的场景（例如命令行工具自身的日志）
type Config struct {
	// Level 最低输出级别：trace/debug/info/warning/error/critical（默认 info）
	Level string `yaml:"level" json:"level" toml:"level"`

	// Format 格式模板，为空时使用 DefaultFormat
	Format string `yaml:"format" json:"format" toml:"format"`

	// Output 输出目标：stdout/stderr/文件路径（默认 stderr）
	// 文件以追加模式打开
	Output string `yaml:"output" json:"output" toml:"output"`
}
