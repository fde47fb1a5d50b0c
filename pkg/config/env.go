package config

import (
	"os"
	"strings"
)

// expandEnv 递归替换字符串值中的环境变量
func expandEnv(data map[string]any) {
	for key, val := range data {
		data[key] = expandValue(val)
	}
}

func expandValue(val any) any {
	switch v := val.(type) {
	case string:
		return expandEnvVar(v)
	case map[string]any:
		expandEnv(v)
	case []any:
		for i, item := range v {
			v[i] = expandValue(item)
		}
	}
	return val
}

// expandEnvVar 展开环境变量
// 支持格式: ${ENV_VAR} 或 ${ENV_VAR:default_value}
func expandEnvVar(value string) string {
	if !strings.Contains(value, "${") {
		return value
	}

	var sb strings.Builder
	rest := value
	for {
		start := strings.Index(rest, "${")
		if start == -1 {
			break
		}
		end := strings.IndexByte(rest[start:], '}')
		if end == -1 {
			break
		}
		end += start

		name, def, _ := strings.Cut(rest[start+2:end], ":")
		env := os.Getenv(name)
		if env == "" {
			env = def
		}

		sb.WriteString(rest[:start])
		sb.WriteString(env)
		rest = rest[end+1:]
	}
	sb.WriteString(rest)
	return sb.String()
}
