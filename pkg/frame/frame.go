// Package frame 是一个只读的字符串表格：从 CSV 读取、按列删除缺失值、导出 CSV/JSON 并做描述性统计。
package frame

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
)

var (
	// ErrColumnCount 列名数量与列数不一致
	ErrColumnCount = errors.New("column count mismatch")
	// ErrUnknownColumn 列名不存在
	ErrUnknownColumn = errors.New("unknown column")
)

// DType 列的推断类型
type DType string

const (
	Int64   DType = "int64"
	Float64 DType = "float64"
	Object  DType = "object"
)

// Frame 行列表格，空单元格视为缺失值
// index 保存每行在原始数据中的行号，删除行后保持不变
type Frame struct {
	columns []string
	index   []int
	rows    [][]string
}

// ReadCSV 读取 CSV，header 为 false 时列名为 "0", "1", ...
func ReadCSV(r io.Reader, header bool) (*Frame, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	f := &Frame{}
	if len(records) == 0 {
		return f, nil
	}
	if header {
		f.columns = slices.Clone(records[0])
		records = records[1:]
	} else {
		f.columns = make([]string, len(records[0]))
		for i := range f.columns {
			f.columns[i] = strconv.Itoa(i)
		}
	}

	f.rows = records
	f.index = make([]int, len(records))
	for i := range f.index {
		f.index[i] = i
	}
	return f, nil
}

// ReadFile 从本地路径或 http(s) 地址读取 CSV
func ReadFile(ctx context.Context, src string, header bool) (*Frame, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
		if err != nil {
			return nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", src, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("failed to fetch %s: %s", src, resp.Status)
		}
		return ReadCSV(resp.Body, header)
	}

	file, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadCSV(file, header)
}

// Len 返回行数
func (f *Frame) Len() int {
	return len(f.rows)
}

// Columns 返回列名副本
func (f *Frame) Columns() []string {
	return slices.Clone(f.columns)
}

// SetColumns 替换全部列名
func (f *Frame) SetColumns(names []string) error {
	if len(names) != len(f.columns) {
		return fmt.Errorf("%w: frame has %d columns, got %d names", ErrColumnCount, len(f.columns), len(names))
	}
	f.columns = slices.Clone(names)
	return nil
}

func (f *Frame) columnIndex(name string) (int, error) {
	i := slices.Index(f.columns, name)
	if i < 0 {
		return 0, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}
	return i, nil
}

func (f *Frame) slice(from, to int) *Frame {
	return &Frame{
		columns: f.columns,
		index:   f.index[from:to],
		rows:    f.rows[from:to],
	}
}

// Head 返回前 n 行
func (f *Frame) Head(n int) *Frame {
	return f.slice(0, min(max(n, 0), f.Len()))
}

// Tail 返回后 n 行
func (f *Frame) Tail(n int) *Frame {
	return f.slice(max(f.Len()-max(n, 0), 0), f.Len())
}

// naValues 读入时视为缺失的单元格，与 pandas read_csv 的默认集合一致；"?" 不在其中
var naValues = map[string]bool{
	"": true, "#N/A": true, "#N/A N/A": true, "#NA": true, "-1.#IND": true, "-1.#QNAN": true,
	"-NaN": true, "-nan": true, "1.#IND": true, "1.#QNAN": true, "<NA>": true, "N/A": true,
	"NA": true, "NULL": true, "NaN": true, "None": true, "n/a": true, "nan": true, "null": true,
}

// missing 判断单元格是否缺失：空串、NA 标记以及解析为 NaN/Inf 的数值
func missing(cell string) bool {
	v := strings.TrimSpace(cell)
	if naValues[v] {
		return true
	}
	n, err := strconv.ParseFloat(v, 64)
	return err == nil && (math.IsNaN(n) || math.IsInf(n, 0))
}

// DropNA 删除 subset 中任一列缺失的行，subset 为空时检查所有列
func (f *Frame) DropNA(subset ...string) (*Frame, error) {
	cols := make([]int, 0, len(subset))
	for _, name := range subset {
		i, err := f.columnIndex(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, i)
	}
	if len(subset) == 0 {
		for i := range f.columns {
			cols = append(cols, i)
		}
	}

	out := &Frame{columns: slices.Clone(f.columns)}
	for r, row := range f.rows {
		if slices.ContainsFunc(cols, func(c int) bool { return c >= len(row) || missing(row[c]) }) {
			continue
		}
		out.rows = append(out.rows, row)
		out.index = append(out.index, f.index[r])
	}
	return out, nil
}

func (f *Frame) cell(row []string, c int) string {
	if c >= len(row) {
		return ""
	}
	return row[c]
}

// DTypes 推断每列类型：全为整数时 int64（含缺失值时 float64），全为数字时 float64，否则 object
func (f *Frame) DTypes() []DType {
	types := make([]DType, len(f.columns))
	for c := range f.columns {
		types[c] = f.dtype(c)
	}
	return types
}

func (f *Frame) dtype(c int) DType {
	isInt, isFloat, hasMissing := true, true, false
	for _, row := range f.rows {
		v := strings.TrimSpace(f.cell(row, c))
		if missing(v) {
			hasMissing = true
			continue
		}
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			isInt = false
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			isFloat = false
			break
		}
	}
	switch {
	case isInt && !hasMissing:
		return Int64
	case isFloat:
		return Float64
	default:
		return Object
	}
}

// String 以对齐表格形式输出
func (f *Frame) String() string {
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "\t%s\t\n", strings.Join(f.columns, "\t"))
	for r, row := range f.rows {
		cells := make([]string, len(f.columns))
		for c := range f.columns {
			cells[c] = f.cell(row, c)
			if missing(cells[c]) {
				cells[c] = "NaN"
			}
		}
		fmt.Fprintf(tw, "%d\t%s\t\n", f.index[r], strings.Join(cells, "\t"))
	}
	tw.Flush()
	fmt.Fprintf(&sb, "\n[%d rows x %d columns]\n", f.Len(), len(f.columns))
	return sb.String()
}
