package loader

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nconklindev/sheetseek/internal/types"

	"github.com/xuri/excelize/v2"
)

// readXLSX loads every sheet of an Office Open XML workbook in file order.
func readXLSX(data []byte, report func(done, total int)) (*types.Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, parseFailure(ExtXLSX, err)
	}
	defer f.Close()

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	sheetList := f.GetSheetList()
	wb := &types.Workbook{Sheets: make([]types.Sheet, 0, len(sheetList))}
	for i, sheetName := range sheetList {
		sr := &sheetReader{
			f:         f,
			sheet:     sheetName,
			date1904:  date1904,
			dateStyle: make(map[int]bool),
		}
		ds, err := sr.read()
		if err != nil {
			return nil, parseFailure(ExtXLSX, fmt.Errorf("sheet %q: %w", sheetName, err))
		}
		wb.Sheets = append(wb.Sheets, types.Sheet{Name: sheetName, Data: ds})
		report(i+1, len(sheetList))
	}

	return wb, nil
}

type sheetReader struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	// dateStyle caches whether a style index carries a date/time number format.
	dateStyle map[int]bool
}

func (r *sheetReader) read() (*types.Dataset, error) {
	rows, err := r.f.GetRows(r.sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	// Skip leading blank rows; the first non-blank row is the header.
	start := 0
	for start < len(rows) && isBlankRecord(rows[start]) {
		start++
	}
	if start == len(rows) {
		return &types.Dataset{}, nil
	}

	width := len(rows[start])
	var body []int
	for i := start + 1; i < len(rows); i++ {
		if isBlankRecord(rows[i]) {
			continue
		}
		body = append(body, i)
		if len(rows[i]) > width {
			width = len(rows[i])
		}
	}

	headers := make([]string, len(rows[start]))
	for col, raw := range rows[start] {
		cell, err := r.cell(col, start, raw)
		if err != nil {
			return nil, err
		}
		headers[col] = cell.String()
	}

	ds := &types.Dataset{
		Columns: normalizeHeaders(headers, width),
		Rows:    make([]types.Row, 0, len(body)),
	}
	for _, i := range body {
		row := make(types.Row, width)
		for col, raw := range rows[i] {
			cell, err := r.cell(col, i, raw)
			if err != nil {
				return nil, err
			}
			row[col] = cell
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

// cell converts the raw value at zero-based (col, row) using the stored cell type.
func (r *sheetReader) cell(col, row int, raw string) (types.Cell, error) {
	if raw == "" {
		return types.Missing(), nil
	}

	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return types.Cell{}, err
	}
	cellType, err := r.f.GetCellType(r.sheet, axis)
	if err != nil {
		return types.Cell{}, err
	}

	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError:
		return types.Text(raw), nil
	case excelize.CellTypeBool:
		return types.Bool(raw == "1" || strings.EqualFold(raw, "true")), nil
	case excelize.CellTypeDate:
		if t, ok := parseISODate(raw); ok {
			return types.Date(t), nil
		}
		return types.Text(raw), nil
	}

	// Numbers, formula results and untyped cells.
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return types.Text(raw), nil
	}
	isDate, err := r.isDateCell(axis)
	if err != nil {
		return types.Cell{}, err
	}
	if isDate {
		if t, err := excelize.ExcelDateToTime(f, r.date1904); err == nil {
			return types.Date(t), nil
		}
	}
	return types.Number(f), nil
}

// isoDateLayouts are the forms of t="d" cell values. Writers often omit the zone.
var isoDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
	"15:04:05.999999999",
}

func parseISODate(raw string) (time.Time, bool) {
	for _, layout := range isoDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (r *sheetReader) isDateCell(axis string) (bool, error) {
	idx, err := r.f.GetCellStyle(r.sheet, axis)
	if err != nil {
		return false, err
	}
	if v, ok := r.dateStyle[idx]; ok {
		return v, nil
	}
	style, err := r.f.GetStyle(idx)
	if err != nil {
		return false, err
	}
	isDate := isDateNumFmt(style.NumFmt)
	if style.CustomNumFmt != nil {
		isDate = isDateFormatCode(*style.CustomNumFmt)
	}
	r.dateStyle[idx] = isDate
	return isDate, nil
}

// isDateNumFmt reports whether a built-in number format id renders a date or time.
func isDateNumFmt(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode reports whether a custom format code contains date or time
// tokens outside quoted literals and bracketed sections.
func isDateFormatCode(code string) bool {
	var b strings.Builder
	inQuote, inBracket, escaped := false, false, false
	for _, r := range code {
		switch {
		case escaped:
			escaped = false
		case inQuote:
			inQuote = r != '"'
		case inBracket:
			inBracket = r != ']'
		case r == '\\':
			escaped = true
		case r == '"':
			inQuote = true
		case r == '[':
			inBracket = true
		default:
			b.WriteRune(r)
		}
	}
	// Only the first (positive) section decides.
	section, _, _ := strings.Cut(strings.ToLower(b.String()), ";")
	if section == "general" {
		return false
	}
	return strings.ContainsAny(section, "ymdhs")
}
