package config

import "fmt"

// Load 加载单个配置文件（根据扩展名识别格式），默认展开环境变量
func Load(path string) (*Config, error) {
	cfg := New()
	if err := cfg.Load(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad 加载配置文件，失败时 panic
// 适用于程序启动阶段，配置加载失败时程序无法继续运行
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("config: failed to load config from %s: %w", path, err))
	}
	return cfg
}
