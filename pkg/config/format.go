package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format 配置文件格式
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatTOML    Format = "toml"
	FormatUnknown Format = ""
)

// ParseFormat 解析格式名称，接受 json/yaml/yml/toml
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return FormatUnknown, fmt.Errorf("unsupported format: %s", name)
	}
}

// DetectFormat 根据文件扩展名检测格式
func DetectFormat(filename string) Format {
	format, err := ParseFormat(filepath.Ext(filename))
	if err != nil {
		return FormatUnknown
	}
	return format
}

// parseFile 从文件解析配置
func parseFile(path string) (map[string]any, error) {
	format := DetectFormat(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("cannot detect format from file extension: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return parse(data, format)
}

// parse 解析字节流，空文档得到空 map
func parse(data []byte, format Format) (map[string]any, error) {
	result := make(map[string]any)

	switch format {
	case FormatJSON:
		if len(bytes.TrimSpace(data)) == 0 {
			return result, nil
		}
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	if result == nil {
		result = make(map[string]any)
	}
	return result, nil
}

// marshal 将map序列化为指定格式的字节流
func marshal(data map[string]any, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		return yaml.Marshal(data)
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(data); err != nil {
			return nil, fmt.Errorf("failed to marshal TOML: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// writeFile 将配置写入文件
func writeFile(path string, data map[string]any) error {
	format := DetectFormat(path)
	if format == FormatUnknown {
		return fmt.Errorf("cannot detect format from file extension: %s", path)
	}

	out, err := marshal(data, format)
	if err != nil {
		return err
	}

	return os.WriteFile(path, out, 0o644)
}
