package frame

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"gonum.org/v1/gonum/stat"
)

// Stat 统计项名称
const (
	StatCount  = "count"
	StatUnique = "unique"
	StatTop    = "top"
	StatFreq   = "freq"
	StatMean   = "mean"
	StatStd    = "std"
	StatMin    = "min"
	Stat25     = "25%"
	Stat50     = "50%"
	Stat75     = "75%"
	StatMax    = "max"
)

var (
	objectStats  = []string{StatCount, StatUnique, StatTop, StatFreq}
	numericStats = []string{StatCount, StatMean, StatStd, StatMin, Stat25, Stat50, Stat75, StatMax}
)

// ColumnSummary 单列的统计结果，不适用的统计项不出现在 map 中
type ColumnSummary struct {
	Name    string
	DType   DType
	Numbers map[string]float64
	Top     string
}

// Summary 多列统计结果
type Summary struct {
	Stats   []string
	Columns []ColumnSummary
}

// Describe 计算描述性统计，cols 为空时统计所有列
// 数值列：count/mean/std（样本标准差）/min/分位数（线性插值）/max
// object 列：count/unique/top/freq
func (f *Frame) Describe(cols ...string) (*Summary, error) {
	idx := make([]int, 0, len(cols))
	for _, name := range cols {
		i, err := f.columnIndex(name)
		if err != nil {
			return nil, err
		}
		idx = append(idx, i)
	}
	if len(cols) == 0 {
		for i := range f.columns {
			idx = append(idx, i)
		}
	}

	s := &Summary{}
	hasObject, hasNumeric := false, false
	for _, c := range idx {
		t := f.dtype(c)
		var cs ColumnSummary
		if t == Object {
			cs = f.describeObject(c)
			hasObject = true
		} else {
			cs = f.describeNumeric(c)
			hasNumeric = true
		}
		cs.Name, cs.DType = f.columns[c], t
		s.Columns = append(s.Columns, cs)
	}

	if hasObject {
		s.Stats = append(s.Stats, objectStats...)
	}
	if hasNumeric {
		for _, name := range numericStats {
			if !slices.Contains(s.Stats, name) {
				s.Stats = append(s.Stats, name)
			}
		}
	}
	return s, nil
}

func (f *Frame) describeObject(c int) ColumnSummary {
	counts := make(map[string]int)
	var order []string
	for _, row := range f.rows {
		v := f.cell(row, c)
		if missing(v) {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}

	cs := ColumnSummary{Numbers: map[string]float64{StatUnique: float64(len(counts))}}
	total := 0
	for _, v := range order {
		total += counts[v]
		// 频次相同时取先出现的值
		if counts[v] > counts[cs.Top] || cs.Top == "" {
			cs.Top = v
		}
	}
	cs.Numbers[StatCount] = float64(total)
	if total > 0 {
		cs.Numbers[StatFreq] = float64(counts[cs.Top])
	}
	return cs
}

func (f *Frame) describeNumeric(c int) ColumnSummary {
	values := make([]float64, 0, len(f.rows))
	for _, row := range f.rows {
		v := strings.TrimSpace(f.cell(row, c))
		if missing(v) {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			continue
		}
		values = append(values, n)
	}

	cs := ColumnSummary{Numbers: map[string]float64{StatCount: float64(len(values))}}
	if len(values) == 0 {
		return cs
	}
	slices.Sort(values)

	cs.Numbers[StatMean] = stat.Mean(values, nil)
	if len(values) > 1 {
		// StdDev 是无偏估计（n-1），与 pandas 的 std 一致
		cs.Numbers[StatStd] = stat.StdDev(values, nil)
	}

	cs.Numbers[StatMin] = values[0]
	cs.Numbers[Stat25] = quantile(values, 0.25)
	cs.Numbers[Stat50] = quantile(values, 0.5)
	cs.Numbers[Stat75] = quantile(values, 0.75)
	cs.Numbers[StatMax] = values[len(values)-1]
	return cs
}

// quantile 对已排序数据做线性插值，位置为 q*(n-1)，即 numpy/pandas 的默认方法
// stat.Quantile 的 LinInterp 按 q*n 定位（Hyndman-Fan 第 4 种），结果不同
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Column 按名称查找列统计
func (s *Summary) Column(name string) (ColumnSummary, bool) {
	for _, cs := range s.Columns {
		if cs.Name == name {
			return cs, true
		}
	}
	return ColumnSummary{}, false
}

// String 以对齐表格输出，不适用的统计项显示为 NaN
func (s *Summary) String() string {
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', tabwriter.AlignRight)

	names := make([]string, len(s.Columns))
	for i, cs := range s.Columns {
		names[i] = cs.Name
	}
	fmt.Fprintf(tw, "\t%s\t\n", strings.Join(names, "\t"))

	for _, name := range s.Stats {
		cells := make([]string, len(s.Columns))
		for i, cs := range s.Columns {
			cells[i] = cs.cell(name)
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", name, strings.Join(cells, "\t"))
	}
	tw.Flush()
	return sb.String()
}

func (cs ColumnSummary) cell(name string) string {
	if name == StatTop {
		if cs.Top == "" {
			return "NaN"
		}
		return cs.Top
	}
	v, ok := cs.Numbers[name]
	if !ok {
		return "NaN"
	}
	switch name {
	case StatCount, StatUnique, StatFreq:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strconv.FormatFloat(v, 'f', 6, 64)
	}
}
