package loader

import (
	"bytes"
	"encoding/csv"
	"errors"

	"github.com/nconklindev/sheetseek/internal/types"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var errEmptyCSV = errors.New("no columns to parse from file")

// readCSV parses a delimited text table. A byte order mark selects UTF-8 or
// UTF-16 decoding; without one the input is read as UTF-8.
//
// A stray quote inside an unquoted field (5" long) is kept as text. An
// unterminated quoted field is still a parse error.
func readCSV(data []byte) (*types.Dataset, error) {
	records, err := readRecords(data, false)
	if errors.Is(err, csv.ErrBareQuote) {
		records, err = readRecords(data, true)
	}
	if err != nil {
		return nil, parseFailure(ExtCSV, err)
	}

	if len(records) == 0 {
		return nil, parseFailure(ExtCSV, errEmptyCSV)
	}

	return datasetFromRecords(records), nil
}

func readRecords(data []byte, lazyQuotes bool) ([][]string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	reader := csv.NewReader(transform.NewReader(bytes.NewReader(data), decoder))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = lazyQuotes
	return reader.ReadAll()
}
