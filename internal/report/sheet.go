package report

import (
	"fmt"
	"strconv"
)

// Sheet is one table of a report. Rows hold string, float64, int or bool
// cells, one per header.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]any
}

// NewSheet returns an empty sheet with the given columns.
func NewSheet(name string, headers ...string) Sheet {
	return Sheet{Name: name, Headers: headers}
}

// Append adds one row.
func (s *Sheet) Append(cells ...any) {
	s.Rows = append(s.Rows, cells)
}

// Records returns the rows as text, for CSV export.
func (s Sheet) Records() [][]string {
	out := make([][]string, 0, len(s.Rows))
	for _, row := range s.Rows {
		rec := make([]string, len(row))
		for i, c := range row {
			rec[i] = cellText(c)
		}
		out = append(out, rec)
	}
	return out
}

func cellText(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case int:
		return strconv.Itoa(c)
	case bool:
		if c {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprint(c)
	}
}
