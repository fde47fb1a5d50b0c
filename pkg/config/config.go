package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/DerCoop/logkit/pkg/mapstruct"
)

// Config 配置存储，键为选项名，值为任意类型
// 键中包含点号时按层级访问（如 "levels.console"）
type Config struct {
	data map[string]any
	mu   sync.RWMutex
}

// New 创建一个空的配置存储
func New() *Config {
	return &Config{
		data: make(map[string]any),
	}
}

// Load 从文件加载配置并合并到现有配置，字符串中的 ${ENV:default} 会被展开
func (c *Config) Load(path string) error {
	parsed, err := parseFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config from file %s: %w", path, err)
	}
	expandEnv(parsed)

	c.MergeMap(parsed)
	return nil
}

// LoadBytes 从字节流加载配置并合并到现有配置
func (c *Config) LoadBytes(data []byte, format Format) error {
	parsed, err := parse(data, format)
	if err != nil {
		return fmt.Errorf("failed to load config from bytes: %w", err)
	}
	expandEnv(parsed)

	c.MergeMap(parsed)
	return nil
}

// MergeMap 合并map配置（新值覆盖旧值，两侧都是 map 时递归合并）
func (c *Config) MergeMap(data map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = mergeMaps(c.data, data)
}

// Set 设置配置值，不做任何校验
func (c *Config) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !strings.Contains(key, ".") {
		c.data[key] = value
		return
	}

	keys := strings.Split(key, ".")
	current := c.data
	for _, k := range keys[:len(keys)-1] {
		next, ok := current[k].(map[string]any)
		if !ok {
			// 不存在或不是 map 时覆盖为新的 map
			next = make(map[string]any)
			current[k] = next
		}
		current = next
	}
	current[keys[len(keys)-1]] = value
}

// Get 获取配置值
func (c *Config) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !strings.Contains(key, ".") {
		val, ok := c.data[key]
		return val, ok
	}

	keys := strings.Split(key, ".")
	current := c.data
	for _, k := range keys[:len(keys)-1] {
		next, ok := current[k].(map[string]any)
		if !ok {
			return nil, false
		}
		current = next
	}
	val, ok := current[keys[len(keys)-1]]
	return val, ok
}

// SetRaw 按字面键设置配置值，键中的点号不做层级拆分
func (c *Config) SetRaw(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = value
}

// GetRaw 按字面键获取配置值
func (c *Config) GetRaw(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	val, ok := c.data[key]
	return val, ok
}

// GetWithDefault 获取配置值，如果不存在则返回默认值
func (c *Config) GetWithDefault(key string, defaultValue any) any {
	if val, ok := c.Get(key); ok {
		return val
	}
	return defaultValue
}

// GetString 获取字符串配置值，不存在或不是字符串时返回空串
func (c *Config) GetString(key string) string {
	if val, ok := c.Get(key); ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// Has 检查配置项是否存在
func (c *Config) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Delete 删除顶层配置项
func (c *Config) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.data, key)
}

// Keys 返回排序后的顶层键
func (c *Config) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Sorted(maps.Keys(c.data))
}

// GetAll 获取所有配置数据的深拷贝
func (c *Config) GetAll() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return copyMap(c.data)
}

// UnmarshalKey 将指定key的配置解码到结构体
func (c *Config) UnmarshalKey(key string, target any) error {
	val, ok := c.Get(key)
	if !ok {
		return fmt.Errorf("config key '%s' not found", key)
	}

	section, ok := val.(map[string]any)
	if !ok {
		return fmt.Errorf("config key '%s' cannot be unmarshaled to struct (type: %T, expected: map/object)", key, val)
	}

	if err := mapstruct.New().WithStrictMode(true).Decode(section, target); err != nil {
		return fmt.Errorf("failed to unmarshal config key '%s': %w", key, err)
	}
	return nil
}

// Marshal 将配置序列化为指定格式
func (c *Config) Marshal(format Format) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return marshal(c.data, format)
}

// WriteToFile 将配置导出到文件，根据扩展名选择格式（.json/.yaml/.yml/.toml）
func (c *Config) WriteToFile(path string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return writeFile(path, c.data)
}

// mergeMaps 合并两个map（递归合并）
func mergeMaps(dst, src map[string]any) map[string]any {
	result := copyMap(dst)

	for key, srcVal := range src {
		if dstMap, ok := result[key].(map[string]any); ok {
			if srcMap, ok := srcVal.(map[string]any); ok {
				result[key] = mergeMaps(dstMap, srcMap)
				continue
			}
		}
		result[key] = srcVal
	}

	return result
}

// copyMap 深拷贝map
func copyMap(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))

	for key, val := range src {
		if m, ok := val.(map[string]any); ok {
			dst[key] = copyMap(m)
		} else {
			dst[key] = val
		}
	}

	return dst
}
