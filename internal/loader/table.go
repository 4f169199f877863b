package loader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nconklindev/sheetseek/internal/types"
)

// normalizeHeaders names blank columns "Unnamed: N", suffixes duplicates with
// ".1", ".2", and widens the header to width when data rows are wider.
func normalizeHeaders(raw []string, width int) []string {
	if width < len(raw) {
		width = len(raw)
	}
	headers := make([]string, width)
	used := make(map[string]bool, width)
	suffix := make(map[string]int)
	for i := range headers {
		base := ""
		if i < len(raw) {
			base = strings.TrimSpace(raw[i])
		}
		if base == "" {
			base = fmt.Sprintf("Unnamed: %d", i)
		}
		name := base
		if used[name] {
			n := suffix[base]
			for used[name] {
				n++
				name = fmt.Sprintf("%s.%d", base, n)
			}
			suffix[base] = n
		}
		used[name] = true
		headers[i] = name
	}
	return headers
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if cell != "" {
			return false
		}
	}
	return true
}

// datasetFromRecords builds a dataset from text records whose first record is the
// header. Column kinds are inferred from the data.
func datasetFromRecords(records [][]string) *types.Dataset {
	if len(records) == 0 {
		return &types.Dataset{}
	}

	var body [][]string
	width := len(records[0])
	for _, rec := range records[1:] {
		if isBlankRecord(rec) {
			continue
		}
		body = append(body, rec)
		if len(rec) > width {
			width = len(rec)
		}
	}

	headers := normalizeHeaders(records[0], width)
	kinds := inferColumnKinds(body, width)

	rows := make([]types.Row, len(body))
	for i, rec := range body {
		row := make(types.Row, width)
		for j := range row {
			if j < len(rec) {
				row[j] = parseCell(rec[j], kinds[j])
			}
		}
		rows[i] = row
	}

	return &types.Dataset{Columns: headers, Rows: rows}
}

// inferColumnKinds picks Integer, Number or Bool for a column only when every
// non-empty value parses as one; otherwise the column is Text. A column holding an
// integer too large for int64 stays Text so its digits are kept exactly.
func inferColumnKinds(records [][]string, width int) []types.Kind {
	kinds := make([]types.Kind, width)
	for col := range kinds {
		integer, numeric, boolean, seen := true, true, true, false
		for _, rec := range records {
			if col >= len(rec) || rec[col] == "" {
				continue
			}
			seen = true
			v := rec[col]
			if _, ok, overflow := parseInteger(v); overflow {
				integer, numeric = false, false
			} else if !ok {
				integer = false
				if _, ok := parseNumber(v); !ok {
					numeric = false
				}
			}
			if _, ok := parseBool(v); !ok {
				boolean = false
			}
			if !numeric && !boolean {
				break
			}
		}
		switch {
		case !seen:
			kinds[col] = types.KindMissing
		case integer && numeric:
			kinds[col] = types.KindInteger
		case numeric:
			kinds[col] = types.KindNumber
		case boolean:
			kinds[col] = types.KindBool
		default:
			kinds[col] = types.KindText
		}
	}
	return kinds
}

func parseCell(s string, kind types.Kind) types.Cell {
	if s == "" {
		return types.Missing()
	}
	switch kind {
	case types.KindInteger:
		if n, ok, _ := parseInteger(s); ok {
			return types.Integer(n)
		}
	case types.KindNumber:
		if f, ok := parseNumber(s); ok {
			return types.Number(f)
		}
	case types.KindBool:
		if b, ok := parseBool(s); ok {
			return types.Bool(b)
		}
	}
	return types.Text(s)
}

// parseInteger accepts an optional sign followed by digits. overflow reports an
// integer literal outside the int64 range.
func parseInteger(s string) (n int64, ok, overflow bool) {
	s = strings.TrimSpace(s)
	digits := strings.TrimLeft(s, "+-")
	if digits == "" || len(s)-len(digits) > 1 {
		return 0, false, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false, true
	}
	return n, true, false
}

// parseNumber accepts plain decimal notation only; "inf", "nan" and hex floats stay text.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	hasDigit := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r == '.' || r == '-' || r == '+' || r == 'e' || r == 'E':
		default:
			return 0, false
		}
	}
	if !hasDigit {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}
