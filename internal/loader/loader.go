// Package loader turns uploaded spreadsheet bytes into a types.Workbook.
package loader

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/nconklindev/sheetseek/internal/types"

	"go.uber.org/zap"
)

const (
	ExtXLSX = "xlsx"
	ExtXLS  = "xls"
	ExtCSV  = "csv"

	// DefaultCSVSheetName names the single sheet produced from a CSV file.
	DefaultCSVSheetName = "Sheet1"
)

// SupportedExtensions lists every extension the loader knows how to parse.
var SupportedExtensions = []string{ExtXLSX, ExtXLS, ExtCSV}

// Options configures a Loader.
type Options struct {
	// CSVSheetName names the synthetic sheet for CSV input.
	CSVSheetName string
	// Extensions restricts accepted extensions; empty means SupportedExtensions.
	Extensions []string
}

// Loader parses workbooks. It keeps no state between calls.
type Loader struct {
	csvSheetName string
	extensions   []string
	log          *zap.Logger
}

// New creates a Loader. A nil logger disables logging.
func New(opts Options, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	l := &Loader{
		csvSheetName: opts.CSVSheetName,
		log:          log,
	}
	if l.csvSheetName == "" {
		l.csvSheetName = DefaultCSVSheetName
	}
	for _, ext := range opts.Extensions {
		l.extensions = append(l.extensions, NormalizeExt(ext))
	}
	if len(l.extensions) == 0 {
		l.extensions = slices.Clone(SupportedExtensions)
	}
	return l
}

// NormalizeExt lowercases ext and strips a leading dot.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// Accepts reports whether ext would be handed to a parser.
func (l *Loader) Accepts(ext string) bool {
	return slices.Contains(l.extensions, NormalizeExt(ext))
}

// Load parses data according to its declared extension.
func (l *Loader) Load(data []byte, ext string) (*types.Workbook, error) {
	return l.LoadWithProgress(data, ext, nil)
}

// LoadWithProgress is Load with per-sheet progress reported on progressChan.
// Sends never block; a nil channel disables reporting.
func (l *Loader) LoadWithProgress(data []byte, ext string, progressChan chan<- float64) (wb *types.Workbook, err error) {
	ext = NormalizeExt(ext)
	if !l.Accepts(ext) {
		l.log.Warn("rejected upload", zap.String("ext", ext))
		return nil, unsupported(ext)
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			wb, err = nil, parseFailure(ext, fmt.Errorf("parser panic: %v", r))
		}
		if err != nil {
			l.log.Warn("load failed", zap.String("ext", ext), zap.Int("bytes", len(data)), zap.Error(err))
			return
		}
		l.log.Debug("workbook loaded",
			zap.String("ext", ext),
			zap.Int("bytes", len(data)),
			zap.Strings("sheets", wb.Names()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}()

	report := func(done, total int) {
		if progressChan == nil || total == 0 {
			return
		}
		select {
		case progressChan <- float64(done) / float64(total):
		default:
		}
	}

	switch ext {
	case ExtXLSX:
		return readXLSX(data, report)
	case ExtXLS:
		return readXLS(data, report)
	case ExtCSV:
		ds, err := readCSV(data)
		if err != nil {
			return nil, err
		}
		report(1, 1)
		return &types.Workbook{Sheets: []types.Sheet{{Name: l.csvSheetName, Data: ds}}}, nil
	default:
		return nil, unsupported(ext)
	}
}
