package engine

import (
	"strings"
	"time"
)

// CellValue is the closed set of shapes a spreadsheet cell can take once the
// row source has read it. The unexported marker method keeps the set closed
// so cellText can switch on it exhaustively.
type CellValue interface {
	isCell()
}

// DateValue is a native date cell. Only its calendar fields are used; no
// timezone conversion is applied.
type DateValue struct {
	Time time.Time
}

// RichText is a cell made of formatted runs. Its display string is the
// concatenation of the run texts.
type RichText struct {
	Runs []string
}

// FormulaResult is a formula cell. Result holds the cached computed value.
type FormulaResult struct {
	Formula string
	Result  string
}

// PlainText is any scalar cell rendered as text.
type PlainText struct {
	Text string
}

func (DateValue) isCell()     {}
func (RichText) isCell()      {}
func (FormulaResult) isCell() {}
func (PlainText) isCell()     {}

// Row is one spreadsheet row in column order. Missing trailing cells are
// simply absent.
type Row []CellValue

// Cell returns the value at index i, or nil when the row is shorter.
func (r Row) Cell(i int) CellValue {
	if i < 0 || i >= len(r) {
		return nil
	}
	return r[i]
}

// cellText reduces a cell to its display string. Date cells are rendered
// with dateLayout so the caller decides whether it wants a date or a clock
// reading. A nil cell yields "".
func cellText(v CellValue, dateLayout string) string {
	switch c := v.(type) {
	case nil:
		return ""
	case DateValue:
		if c.Time.IsZero() {
			return ""
		}
		return c.Time.Format(dateLayout)
	case RichText:
		return strings.Join(c.Runs, "")
	case FormulaResult:
		return c.Result
	case PlainText:
		return c.Text
	default:
		return ""
	}
}
