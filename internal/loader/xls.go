package loader

import (
	"bytes"
	"errors"

	"github.com/nconklindev/sheetseek/internal/types"

	"github.com/extrame/xls"
)

// xlsCharset is used for pre-BIFF8 string records; BIFF8 strings are UTF-16.
const xlsCharset = "utf-8"

var (
	errNoSheets         = errors.New("workbook contains no sheets")
	errNoWorkbookStream = errors.New("no Workbook stream in compound file")
)

// readXLS loads every sheet of a legacy BIFF workbook. The reader yields text
// only, so cell kinds are inferred per column as for CSV.
func readXLS(data []byte, report func(done, total int)) (*types.Workbook, error) {
	book, err := xls.OpenReader(bytes.NewReader(data), xlsCharset)
	if err != nil {
		return nil, parseFailure(ExtXLS, err)
	}
	if book == nil {
		return nil, parseFailure(ExtXLS, errNoWorkbookStream)
	}

	n := book.NumSheets()
	if n == 0 {
		return nil, parseFailure(ExtXLS, errNoSheets)
	}

	wb := &types.Workbook{Sheets: make([]types.Sheet, 0, n)}
	for i := 0; i < n; i++ {
		sheet := book.GetSheet(i)
		if sheet == nil {
			continue
		}
		wb.Sheets = append(wb.Sheets, types.Sheet{
			Name: sheet.Name,
			Data: datasetFromRecords(xlsRecords(sheet)),
		})
		report(i+1, n)
	}
	return wb, nil
}

func xlsRecords(sheet *xls.WorkSheet) [][]string {
	var records [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := xlsRow(sheet, i)
		if row == nil {
			records = append(records, nil)
			continue
		}
		rec := make([]string, row.LastCol())
		for col := range rec {
			rec[col] = row.Col(col)
		}
		records = append(records, rec)
	}
	// The header is the first non-blank row.
	for len(records) > 0 && isBlankRecord(records[0]) {
		records = records[1:]
	}
	return records
}

// xlsRow returns row i, or nil when the sheet has no record for it.
func xlsRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	// WorkSheet.Row dereferences the missing row before returning it.
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}
