package mapstruct

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
)

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

// Decoder 提供 map[string]any 到 struct 的解码功能
type Decoder struct {
	// TagName 指定用于字段映射的标签名，默认使用 "yaml" 标签
	// 标签为空时使用字段名作为key
	TagName string
	// StrictMode 严格模式，如果字段类型不匹配则返回错误
	StrictMode bool
}

// New 创建一个新的解码器
func New() *Decoder {
	return &Decoder{TagName: "yaml"}
}

// WithTagName 设置标签名
func (d *Decoder) WithTagName(tagName string) *Decoder {
	d.TagName = tagName
	return d
}

// WithStrictMode 设置严格模式
func (d *Decoder) WithStrictMode(strict bool) *Decoder {
	d.StrictMode = strict
	return d
}

// Decode 将 map[string]any 解码为指定的结构体
func (d *Decoder) Decode(input map[string]any, target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return fmt.Errorf("target must be a non-nil pointer")
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("target must be a struct")
	}
	return d.decodeStruct(input, v)
}

func (d *Decoder) decodeStruct(input map[string]any, v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fv := v.Field(i)
		if !fv.CanSet() {
			continue
		}

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			if err := d.decodeStruct(input, fv); err != nil {
				return err
			}
			continue
		}

		name := d.fieldName(field)
		if name == "" {
			continue
		}
		raw, ok := input[name]
		if !ok || raw == nil {
			continue
		}

		if err := d.decodeValue(raw, fv); err != nil && d.StrictMode {
			return fmt.Errorf("failed to decode field %s: %w", name, err)
		}
	}
	return nil
}

func (d *Decoder) fieldName(field reflect.StructField) string {
	if d.TagName == "" {
		return field.Name
	}
	tag := field.Tag.Get(d.TagName)
	switch tag {
	case "":
		return field.Name
	case "-":
		return ""
	default:
		return tag
	}
}

func (d *Decoder) decodeValue(raw any, v reflect.Value) error {
	t := v.Type()

	if reflect.TypeOf(raw) == t {
		v.Set(reflect.ValueOf(raw))
		return nil
	}

	if t.Kind() == reflect.Pointer {
		elem := reflect.New(t.Elem())
		if err := d.decodeValue(raw, elem.Elem()); err != nil {
			return err
		}
		v.Set(elem)
		return nil
	}

	// 实现了 encoding.TextUnmarshaler 的类型（如日志级别）从字符串解析
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		s, ok := raw.(string)
		if !ok {
			return fmt.Errorf("cannot decode %T to %s", raw, t)
		}
		return v.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s))
	}

	switch t.Kind() {
	case reflect.Struct:
		m, ok := raw.(map[string]any)
		if !ok {
			return fmt.Errorf("cannot decode %T to struct", raw)
		}
		return d.decodeStruct(m, v)
	case reflect.Map:
		return d.decodeMap(raw, v)
	case reflect.Slice:
		return d.decodeSlice(raw, v)
	case reflect.String:
		v.SetString(fmt.Sprint(raw))
		return nil
	case reflect.Bool:
		b, err := toBool(raw)
		if err != nil {
			return err
		}
		v.SetBool(b)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := toInt(raw)
		if err != nil {
			return err
		}
		if v.OverflowInt(n) {
			return fmt.Errorf("value %d out of range for %s", n, t)
		}
		v.SetInt(n)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := toInt(raw)
		if err != nil {
			return err
		}
		if n < 0 || v.OverflowUint(uint64(n)) {
			return fmt.Errorf("value %d out of range for %s", n, t)
		}
		v.SetUint(uint64(n))
		return nil
	case reflect.Float32, reflect.Float64:
		f, err := toFloat(raw)
		if err != nil {
			return err
		}
		v.SetFloat(f)
		return nil
	default:
		return fmt.Errorf("unsupported type: %s", t)
	}
}

func (d *Decoder) decodeMap(raw any, v reflect.Value) error {
	t := v.Type()
	if t.Key().Kind() != reflect.String {
		return fmt.Errorf("unsupported map key type: %s", t.Key())
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return fmt.Errorf("cannot decode %T to map", raw)
	}

	out := reflect.MakeMapWithSize(t, len(m))
	for key, item := range m {
		elem := reflect.New(t.Elem()).Elem()
		if err := d.decodeValue(item, elem); err != nil {
			return fmt.Errorf("failed to decode map entry %s: %w", key, err)
		}
		out.SetMapIndex(reflect.ValueOf(key).Convert(t.Key()), elem)
	}
	v.Set(out)
	return nil
}

func (d *Decoder) decodeSlice(raw any, v reflect.Value) error {
	items, ok := raw.([]any)
	if !ok {
		return fmt.Errorf("cannot decode %T to slice", raw)
	}

	out := reflect.MakeSlice(v.Type(), len(items), len(items))
	for i, item := range items {
		if err := d.decodeValue(item, out.Index(i)); err != nil {
			return fmt.Errorf("failed to decode slice element %d: %w", i, err)
		}
	}
	v.Set(out)
	return nil
}

func toInt(raw any) (int64, error) {
	switch n := raw.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case string:
		parsed, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse string as int: %w", err)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("cannot decode %T to int", raw)
	}
}

func toFloat(raw any) (float64, error) {
	switch n := raw.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse string as float: %w", err)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("cannot decode %T to float", raw)
	}
}

func toBool(raw any) (bool, error) {
	switch b := raw.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return false, fmt.Errorf("cannot parse string as bool: %w", err)
		}
		return parsed, nil
	case int:
		return b != 0, nil
	case int64:
		return b != 0, nil
	default:
		return false, fmt.Errorf("cannot decode %T to bool", raw)
	}
}
