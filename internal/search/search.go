// Package search implements case-insensitive substring search across every
// sheet of a workbook.
package search

import (
	"strings"

	"github.com/nconklindev/sheetseek/internal/types"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

// Engine scans workbooks for rows containing a term. It holds no per-query state.
type Engine struct {
	log *zap.Logger
}

// New creates an Engine. A nil logger disables logging.
func New(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log}
}

// Search returns, per sheet and in workbook order, the rows with at least one cell
// whose text contains term regardless of case. Matched rows keep their original
// order and every column. Sheets without matches are omitted.
//
// Callers must not pass an empty or whitespace-only term. The workbook is not modified.
func (e *Engine) Search(term string, wb *types.Workbook) *types.SearchResult {
	result := &types.SearchResult{Term: term}
	if wb == nil {
		return result
	}

	m := newMatcher(term)
	for _, sheet := range wb.Sheets {
		if sheet.Data == nil {
			continue
		}
		var matches []types.Row
		for _, row := range sheet.Data.Rows {
			if m.row(row) {
				matches = append(matches, row)
			}
		}
		if len(matches) == 0 {
			continue
		}
		result.Sheets = append(result.Sheets, types.Sheet{
			Name: sheet.Name,
			Data: &types.Dataset{Columns: sheet.Data.Columns, Rows: matches},
		})
	}

	e.log.Debug("search complete",
		zap.String("term", term),
		zap.Int("sheets_matched", len(result.Sheets)),
		zap.Int("rows_matched", result.RowCount()),
	)
	return result
}

// matcher tests rendered cell text against a case-folded needle.
type matcher struct {
	fold   cases.Caser
	needle string
}

func newMatcher(term string) *matcher {
	m := &matcher{fold: cases.Fold()}
	m.needle = m.fold.String(term)
	return m
}

func (m *matcher) row(row types.Row) bool {
	for _, c := range row {
		if m.cell(c) {
			return true
		}
	}
	return false
}

func (m *matcher) cell(c types.Cell) bool {
	text := c.String()
	if text == "" {
		return m.needle == ""
	}
	return strings.Contains(m.fold.String(text), m.needle)
}
