package types

import (
	"math"
	"strconv"
	"time"
)

// Kind tags the value held by a Cell.
type Kind int

const (
	KindMissing Kind = iota
	KindText
	KindNumber
	KindInteger
	KindDate
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	case KindDate:
		return "date"
	case KindBool:
		return "bool"
	default:
		return "missing"
	}
}

// Cell is a single spreadsheet value. Only the field matching Kind is meaningful.
type Cell struct {
	Kind   Kind
	Text   string
	Number float64
	Int    int64
	Date   time.Time
	Bool   bool
}

func Missing() Cell { return Cell{Kind: KindMissing} }
func Text(s string) Cell { return Cell{Kind: KindText, Text: s} }
func Number(f float64) Cell { return Cell{Kind: KindNumber, Number: f} }
func Integer(i int64) Cell { return Cell{Kind: KindInteger, Int: i} }
func Date(t time.Time) Cell { return Cell{Kind: KindDate, Date: t} }
func Bool(b bool) Cell { return Cell{Kind: KindBool, Bool: b} }
func (c Cell) IsMissing() bool { return c.Kind == KindMissing }

// maxExactInt is the largest magnitude at which every integer is representable in a float64.
const maxExactInt = 1 << 53

// String renders the cell as display text. The conversion is total and
// deterministic: equal cells always render to equal strings.
func (c Cell) String() string {
	switch c.Kind {
	case KindText:
		return c.Text
	case KindNumber:
		return formatNumber(c.Number)
	case KindInteger:
		return strconv.FormatInt(c.Int, 10)
	case KindDate:
		return formatDate(c.Date)
	case KindBool:
		return strconv.FormatBool(c.Bool)
	default:
		return ""
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	if f == math.Trunc(f) && math.Abs(f) <= maxExactInt {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}

// Row holds one cell per dataset column, in column order.
type Row []Cell

// Strings renders every cell of the row.
func (r Row) Strings() []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = c.String()
	}
	return out
}

// Dataset is an ordered table of rows sharing the same named columns.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// Sheet pairs a sheet name with its dataset.
type Sheet struct {
	Name string
	Data *Dataset
}

// Workbook is the ordered set of sheets loaded from one file.
type Workbook struct {
	Sheets []Sheet
}

// Names returns sheet names in workbook order.
func (w *Workbook) Names() []string {
	if w == nil {
		return nil
	}
	names := make([]string, len(w.Sheets))
	for i, s := range w.Sheets {
		names[i] = s.Name
	}
	return names
}

// Sheet looks up a sheet by name.
func (w *Workbook) Sheet(name string) (*Dataset, bool) {
	if w == nil {
		return nil, false
	}
	for _, s := range w.Sheets {
		if s.Name == name {
			return s.Data, true
		}
	}
	return nil, false
}

// SearchResult holds, per matching sheet, the rows that matched Term.
// Sheets without matches are absent.
type SearchResult struct {
	Term   string
	Sheets []Sheet
}

// Empty reports whether no sheet matched.
func (r *SearchResult) Empty() bool {
	return r == nil || len(r.Sheets) == 0
}

// RowCount returns the total number of matched rows across sheets.
func (r *SearchResult) RowCount() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, s := range r.Sheets {
		n += len(s.Data.Rows)
	}
	return n
}
