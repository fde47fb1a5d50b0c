package frame

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"
)

// WriteCSV 以 CSV 写出，缺失值写为空串，index 为 true 时第一列为原始行号
func (f *Frame) WriteCSV(w io.Writer, index bool) error {
	cw := csv.NewWriter(w)

	header := f.columns
	if index {
		header = append([]string{""}, f.columns...)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for r, row := range f.rows {
		record := make([]string, 0, len(header))
		if index {
			record = append(record, strconv.Itoa(f.index[r]))
		}
		for c := range f.columns {
			v := f.cell(row, c)
			if missing(v) {
				v = ""
			}
			record = append(record, v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON 以按列组织的 JSON 写出：{"列名": {"行号": 值}}
// 数值列写为数字，缺失值写为 null
func (f *Frame) WriteJSON(w io.Writer) error {
	bw := bufio.NewWriter(w)
	types := f.DTypes()

	bw.WriteByte('{')
	for c, name := range f.columns {
		if c > 0 {
			bw.WriteByte(',')
		}
		if err := writeJSONString(bw, name); err != nil {
			return err
		}
		bw.WriteString(":{")
		for r, row := range f.rows {
			if r > 0 {
				bw.WriteByte(',')
			}
			bw.WriteString(`"` + strconv.Itoa(f.index[r]) + `":`)
			if err := writeJSONValue(bw, strings.TrimSpace(f.cell(row, c)), types[c]); err != nil {
				return err
			}
		}
		bw.WriteByte('}')
	}
	bw.WriteByte('}')
	return bw.Flush()
}

func writeJSONString(w *bufio.Writer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func writeJSONValue(w *bufio.Writer, v string, t DType) error {
	if missing(v) {
		_, err := w.WriteString("null")
		return err
	}
	switch t {
	case Int64:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		_, err = w.WriteString(strconv.FormatInt(n, 10))
		return err
	case Float64:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		b, err := json.Marshal(n)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	default:
		return writeJSONString(w, v)
	}
}
