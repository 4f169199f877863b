package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nconklindev/sheetseek/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workbook() *types.Workbook {
	return &types.Workbook{Sheets: []types.Sheet{
		{Name: "Q1", Data: &types.Dataset{
			Columns: []string{"item", "amount"},
			Rows:    []types.Row{{types.Text("rent"), types.Number(100)}},
		}},
		{Name: "Blank", Data: &types.Dataset{}},
	}}
}

func TestWorkbookPrintsEverySheet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, 0).Workbook(workbook()))

	out := buf.String()
	assert.Contains(t, out, "Data from sheet: Q1")
	assert.Contains(t, out, "Data from sheet: Blank")
	assert.Contains(t, out, "(empty sheet)")
	assert.Contains(t, out, "amount")
	assert.Contains(t, out, "rent")
	assert.Contains(t, out, "100")
	assert.Less(t, strings.Index(out, "Q1"), strings.Index(out, "Blank"))
}

func TestResultPrintsMatchHeadings(t *testing.T) {
	wb := workbook()
	res := &types.SearchResult{Term: "rent", Sheets: wb.Sheets[:1]}

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, 0).Result(res))
	assert.Contains(t, buf.String(), "Matches found in sheet: Q1")
}

func TestResultPrintsNoMatchesNotice(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, 0).Result(&types.SearchResult{Term: "xyz123"}))
	assert.Contains(t, buf.String(), "No matches found for 'xyz123' in any sheet.")
}

func TestSheetList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, 0).SheetList(workbook()))
	assert.Contains(t, buf.String(), "- Q1\n- Blank\n")
}

func TestCellsPadsAndFlattens(t *testing.T) {
	got := Cells(types.Row{types.Text("a\nb")}, 3)
	assert.Equal(t, []string{"a b", "", ""}, got)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd…", Truncate("abcdefgh", 5))
}

func TestSheetPrintsOneSheet(t *testing.T) {
	wb := workbook()
	ds, ok := wb.Sheet("Q1")
	require.True(t, ok)

	var buf bytes.Buffer
	p := NewPrinter(&buf, 0)
	require.NoError(t, p.Message("Loaded q.xlsx"))
	require.NoError(t, p.Sheet("Q1", ds))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Loaded q.xlsx\n"))
	assert.Contains(t, out, "Data from sheet: Q1")
	assert.NotContains(t, out, "Blank")
}
