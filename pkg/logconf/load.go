package logconf

import (
	"fmt"

	"github.com/DerCoop/logkit/pkg/config"
	"github.com/DerCoop/logkit/pkg/mapstruct"
	"github.com/DerCoop/logkit/pkg/xlog"
)

// levelsKey 配置文件中保存目标级别的段落
const levelsKey = "levels"

// fileLevels 是 levels 段落的解码目标
type fileLevels struct {
	Levels map[string]xlog.Level `yaml:"levels"`
}

// Load 从 json/yaml/toml 文件读取配置项和级别
//
//	debug_file_path: logs/app.debug
//	log_file_path: logs/app.log
//	format_string: "[{{.Level}}]: {{.Message}}"
//	levels:
//	  console: error
//	  debug: debug
//	  log: warning
//
// levels 之外的顶层键原样经 Set 保存；任何级别无效时不修改现有设置
func (c *Configurator) Load(path string) error {
	doc, err := config.Load(path)
	if err != nil {
		return err
	}
	return c.apply(doc)
}

// LoadBytes 从字节流读取配置项和级别
func (c *Configurator) LoadBytes(data []byte, format config.Format) error {
	doc := config.New()
	if err := doc.LoadBytes(data, format); err != nil {
		return err
	}
	return c.apply(doc)
}

func (c *Configurator) apply(doc *config.Config) error {
	var parsed fileLevels
	if err := mapstruct.New().WithStrictMode(true).Decode(doc.GetAll(), &parsed); err != nil {
		return fmt.Errorf("failed to decode %s: %w", levelsKey, err)
	}

	levels := make(map[Destination]xlog.Level, len(parsed.Levels))
	for name, level := range parsed.Levels {
		dest, err := ParseDestination(name)
		if err != nil {
			return err
		}
		levels[dest] = level
	}

	for dest, level := range levels {
		if err := c.SetLevel(dest, level); err != nil {
			return err
		}
	}
	for _, key := range doc.Keys() {
		if key == levelsKey {
			continue
		}
		val, _ := doc.Get(key)
		c.Set(key, val)
	}
	return nil
}

// Export 以指定格式导出当前配置项和级别，输出可以再经 Load 读回
func (c *Configurator) Export(format config.Format) ([]byte, error) {
	doc := config.New()
	doc.MergeMap(c.options.GetAll())

	levels := make(map[string]any)
	for dest, level := range c.Levels() {
		levels[string(dest)] = level.String()
	}
	doc.Set(levelsKey, levels)

	return doc.Marshal(format)
}
