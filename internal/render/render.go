// Package render prints workbooks and search results as static tables.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/nconklindev/sheetseek/internal/session"
	"github.com/nconklindev/sheetseek/internal/types"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
)

// Palette shared with the interactive view.
var (
	Accent    = lipgloss.Color("#FF8C42")
	Highlight = lipgloss.Color("#FFB84D")
	Muted     = lipgloss.Color("#6B7280")
	Danger    = lipgloss.Color("#FF4757")
	Plain     = lipgloss.Color("#FFFFFF")
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(Accent)
	noticeStyle  = lipgloss.NewStyle().Foreground(Highlight)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(Highlight).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	borderStyle  = lipgloss.NewStyle().Foreground(Accent)
)

// DefaultMaxColumnWidth bounds each rendered cell.
const DefaultMaxColumnWidth = 24

// Printer writes tables to an io.Writer. It never modifies what it is given.
type Printer struct {
	w        io.Writer
	maxWidth int
}

// NewPrinter creates a Printer. maxWidth <= 0 uses DefaultMaxColumnWidth.
func NewPrinter(w io.Writer, maxWidth int) *Printer {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxColumnWidth
	}
	return &Printer{w: w, maxWidth: maxWidth}
}

// SheetList prints the sheet names of wb in workbook order.
func (p *Printer) SheetList(wb *types.Workbook) error {
	var s strings.Builder
	s.WriteString(headingStyle.Render("Available Sheets"))
	s.WriteString("\n")
	for _, name := range wb.Names() {
		s.WriteString("- " + name + "\n")
	}
	_, err := fmt.Fprintln(p.w, s.String())
	return err
}

// Workbook prints every sheet with all of its rows.
func (p *Printer) Workbook(wb *types.Workbook) error {
	for _, sheet := range wb.Sheets {
		if err := p.sheet(ViewHeading(sheet.Name), sheet.Data); err != nil {
			return err
		}
	}
	return nil
}

// Sheet prints a single sheet with all of its rows.
func (p *Printer) Sheet(name string, ds *types.Dataset) error {
	return p.sheet(ViewHeading(name), ds)
}

// Result prints one table per matching sheet, or the no-matches notice.
func (p *Printer) Result(res *types.SearchResult) error {
	if res.Empty() {
		_, err := fmt.Fprintln(p.w, noticeStyle.Render(session.NoMatchesNotice(res.Term)))
		return err
	}
	for _, sheet := range res.Sheets {
		if err := p.sheet(MatchHeading(sheet.Name), sheet.Data); err != nil {
			return err
		}
	}
	return nil
}

// Message prints a plain notice.
func (p *Printer) Message(msg string) error {
	_, err := fmt.Fprintln(p.w, noticeStyle.Render(msg))
	return err
}

func (p *Printer) sheet(heading string, ds *types.Dataset) error {
	if _, err := fmt.Fprintln(p.w, headingStyle.Render(heading)); err != nil {
		return err
	}
	if ds == nil || len(ds.Columns) == 0 {
		_, err := fmt.Fprintln(p.w, "(empty sheet)")
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(p.truncateAll(ds.Columns)...)

	for _, row := range ds.Rows {
		t.Row(p.truncateAll(Cells(row, len(ds.Columns)))...)
	}

	_, err := fmt.Fprintln(p.w, t.String())
	return err
}

func (p *Printer) truncateAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = Truncate(v, p.maxWidth)
	}
	return out
}

// Cells renders a row padded to width columns, flattening line breaks.
func Cells(row types.Row, width int) []string {
	out := make([]string, width)
	for i := range out {
		if i < len(row) {
			out[i] = strings.ReplaceAll(row[i].String(), "\n", " ")
		}
	}
	return out
}

// Truncate shortens s to at most width display cells, marking the cut with an ellipsis.
func Truncate(s string, width int) string {
	return ansi.Truncate(s, width, "…")
}

// ViewHeading titles a sheet in the full view.
func ViewHeading(sheet string) string {
	return "Data from sheet: " + sheet
}

// MatchHeading titles a sheet in search results.
func MatchHeading(sheet string) string {
	return "Matches found in sheet: " + sheet
}
