package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/sheetseek/internal/config"
	"github.com/nconklindev/sheetseek/internal/loader"
	"github.com/nconklindev/sheetseek/internal/render"
	"github.com/nconklindev/sheetseek/internal/session"
	"github.com/nconklindev/sheetseek/internal/types"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

type state int

const (
	stateFilePicker state = iota
	stateLoading
	stateBrowse
)

// Options wires the model to its collaborators.
type Options struct {
	Config  config.Config
	Service *session.Service
	Logger  *zap.Logger
	// InitialFile, when set, is loaded on start instead of waiting for the picker.
	InitialFile string
}

type Model struct {
	state        state
	cfg          config.Config
	svc          *session.Service
	log          *zap.Logger
	session      session.State
	filepicker   filepicker.Model
	progress     progress.Model
	progressChan chan float64
	resultChan   chan fileLoadedMsg
	initialFile  string
	pending      string
	menuCursor   int
	sheetIdx     int
	table        table.Model
	input        textinput.Model
	inputFocused bool
	width        int
	height       int
}

type fileLoadedMsg struct {
	name string
	size int64
	wb   *types.Workbook
	err  error
}

type selectFileMsg string

type progressMsg float64

type waitForProgressMsg struct{}

// New builds the initial model.
func New(opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	fp := filepicker.New()
	fp.AllowedTypes = opts.Config.FileTypes()
	fp.CurrentDirectory = opts.Config.UI.StartDir
	if fp.CurrentDirectory == "" {
		fp.CurrentDirectory, _ = os.Getwd()
	}

	// Set filepicker colors to match theme
	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(render.Accent)
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(render.Highlight)
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(render.Highlight)
	fp.Styles.File = lipgloss.NewStyle().Foreground(render.Plain)
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(render.Muted)
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(render.Accent).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(render.Muted)

	ti := textinput.New()
	ti.Placeholder = "Enter the value to search"
	ti.Prompt = "🔍 "
	ti.CharLimit = 256
	ti.Width = 40

	tbl := table.New(
		table.WithFocused(true),
		table.WithHeight(opts.Config.UI.TableHeight),
		table.WithStyles(tableStyles()),
	)

	return Model{
		state:       stateFilePicker,
		cfg:         opts.Config,
		svc:         opts.Service,
		log:         log,
		filepicker:  fp,
		progress:    progress.New(progress.WithGradient("#FF8C42", "#FF9F5A")),
		initialFile: opts.InitialFile,
		table:       tbl,
		input:       ti,
	}
}

func (m Model) Init() tea.Cmd {
	if m.initialFile != "" {
		path := m.initialFile
		return tea.Batch(m.filepicker.Init(), func() tea.Msg { return selectFileMsg(path) })
	}
	return m.filepicker.Init()
}

// Session returns the current session snapshot.
func (m Model) Session() session.State {
	return m.session
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Subtract space for title, subtitle, help text, and padding
		height := msg.Height - 14
		if height < 5 {
			height = 5 // Minimum height
		}
		m.filepicker.SetHeight(height)

		tableHeight := msg.Height - 12
		if tableHeight > m.cfg.UI.TableHeight {
			tableHeight = m.cfg.UI.TableHeight
		}
		if tableHeight < 3 {
			tableHeight = 3
		}
		m.table.SetHeight(tableHeight)
		m.progress.Width = max(min(msg.Width-10, 60), 10)

		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.state {
		case stateFilePicker:
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "tab":
				if m.session.Loaded() {
					m.state = stateBrowse
					return m, nil
				}
			}
		case stateLoading:
			return m, nil
		case stateBrowse:
			return m.updateBrowse(msg)
		}

	case selectFileMsg:
		return m.loadFile(string(msg))

	case fileLoadedMsg:
		m.session = m.session.WithUpload(msg.name, msg.size, msg.wb, msg.err)
		m.pending = ""
		m.menuCursor = 0
		m.sheetIdx = 0
		if msg.err != nil {
			m.log.Warn("upload failed", zap.String("file", msg.name), zap.Error(msg.err))
			m.state = stateFilePicker
			return m, nil
		}
		m.log.Info("upload loaded", zap.String("file", msg.name), zap.Strings("sheets", m.session.SheetNames()))
		m.state = stateBrowse
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case progressMsg:
		if m.state == stateLoading {
			cmd := m.progress.SetPercent(float64(msg))
			return m, tea.Batch(cmd, waitForProgress(m.progressChan, m.resultChan))
		}
		return m, nil

	case waitForProgressMsg:
		return m, waitForProgress(m.progressChan, m.resultChan)
	}

	// Handle filepicker updates
	if m.state == stateFilePicker {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			return m.loadFile(path)
		}
		// Disabled files still go through the loader so the rejection is reported.
		if didSelect, path := m.filepicker.DidSelectDisabledFile(msg); didSelect {
			return m.loadFile(path)
		}

		return m, cmd
	}

	if m.state == stateBrowse && m.session.Mode == session.ModeSearch && m.inputFocused {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.session.Mode == session.ModeSearch && m.inputFocused {
		switch msg.String() {
		case "enter":
			return m.submitSearch()
		case "esc":
			return m.choose(session.ModeNone)
		case "tab":
			if !m.session.Result.Empty() {
				m.focusTable()
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "u":
		m.state = stateFilePicker
		return m, nil
	case "esc":
		return m.choose(session.ModeNone)
	}

	switch m.session.Mode {
	case session.ModeNone:
		switch msg.String() {
		case "up", "k":
			if m.menuCursor > 0 {
				m.menuCursor--
			}
		case "down", "j":
			if m.menuCursor < len(session.Modes)-1 {
				m.menuCursor++
			}
		case "enter":
			return m.choose(session.Modes[m.menuCursor])
		}
		return m, nil

	case session.ModeView, session.ModeSearch:
		switch msg.String() {
		case "left", "h":
			m.switchSheet(-1)
			return m, nil
		case "right", "l":
			m.switchSheet(1)
			return m, nil
		case "/", "tab":
			if m.session.Mode == session.ModeSearch {
				cmd := m.focusInput()
				return m, cmd
			}
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) choose(mode session.Mode) (tea.Model, tea.Cmd) {
	m.session = m.session.Choose(mode)
	m.sheetIdx = 0
	m.inputFocused = false
	m.input.Blur()

	switch mode {
	case session.ModeView:
		m.syncTable()
	case session.ModeSearch:
		m.input.Reset()
		cmd := m.focusInput()
		return m, cmd
	}
	return m, nil
}

func (m Model) submitSearch() (tea.Model, tea.Cmd) {
	term := m.input.Value()
	if strings.TrimSpace(term) == "" {
		return m, nil
	}

	m.session = m.svc.Search(m.session, term)
	m.sheetIdx = 0
	m.syncTable()
	if !m.session.Result.Empty() {
		m.focusTable()
	}
	return m, nil
}

func (m *Model) focusInput() tea.Cmd {
	m.inputFocused = true
	m.table.Blur()
	return m.input.Focus()
}

func (m *Model) focusTable() {
	m.inputFocused = false
	m.input.Blur()
	m.table.Focus()
}

// sheets returns the sheets shown for the current mode.
func (m Model) sheets() []types.Sheet {
	switch m.session.Mode {
	case session.ModeView:
		if m.session.Workbook != nil {
			return m.session.Workbook.Sheets
		}
	case session.ModeSearch:
		if m.session.Result != nil {
			return m.session.Result.Sheets
		}
	}
	return nil
}

func (m *Model) switchSheet(delta int) {
	n := len(m.sheets())
	if n == 0 {
		return
	}
	m.sheetIdx = (m.sheetIdx + delta + n) % n
	m.syncTable()
}

// syncTable loads the active sheet into the table widget.
func (m *Model) syncTable() {
	sheets := m.sheets()
	// Rows are cleared first so they never outnumber the new columns.
	m.table.SetRows(nil)
	if m.sheetIdx >= len(sheets) {
		m.table.SetColumns(nil)
		return
	}
	ds := sheets[m.sheetIdx].Data
	m.table.SetColumns(columnsFor(ds, m.cfg.UI.MaxColumnWidth))
	m.table.SetRows(rowsFor(ds))
	m.table.GotoTop()
}

func columnsFor(ds *types.Dataset, maxWidth int) []table.Column {
	if ds == nil {
		return nil
	}
	cols := make([]table.Column, len(ds.Columns))
	for i, name := range ds.Columns {
		w := lipgloss.Width(name)
		for _, row := range ds.Rows {
			if i < len(row) {
				w = max(w, lipgloss.Width(row[i].String()))
			}
		}
		cols[i] = table.Column{Title: name, Width: min(max(w, 3), maxWidth)}
	}
	return cols
}

func rowsFor(ds *types.Dataset) []table.Row {
	if ds == nil {
		return nil
	}
	rows := make([]table.Row, len(ds.Rows))
	for i, row := range ds.Rows {
		rows[i] = render.Cells(row, len(ds.Columns))
	}
	return rows
}

func (m Model) loadFile(path string) (Model, tea.Cmd) {
	m.state = stateLoading
	m.pending = filepath.Base(path)
	m.progressChan = make(chan float64, 100)
	m.resultChan = make(chan fileLoadedMsg, 1)

	ld := m.svc.Loader()
	progressChan := m.progressChan
	resultChan := m.resultChan

	cmd := tea.Batch(
		func() tea.Msg {
			go func() {
				resultChan <- readAndLoad(ld, path, progressChan)

				// Close channels
				close(progressChan)
				close(resultChan)
			}()
			return waitForProgressMsg{}
		},
		m.progress.SetPercent(0),
	)

	return m, cmd
}

func readAndLoad(ld *loader.Loader, path string, progressChan chan<- float64) fileLoadedMsg {
	name := filepath.Base(path)
	ext := filepath.Ext(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return fileLoadedMsg{name: name, err: loader.NewProcessingError(loader.NormalizeExt(ext), err)}
	}

	wb, err := ld.LoadWithProgress(data, ext, progressChan)
	return fileLoadedMsg{name: name, size: int64(len(data)), wb: wb, err: err}
}

func waitForProgress(progressChan chan float64, resultChan chan fileLoadedMsg) tea.Cmd {
	return func() tea.Msg {
		if progressChan == nil {
			return nil
		}

		p, ok := <-progressChan
		if !ok {
			// Progress channel closed, check result
			res, ok := <-resultChan
			if ok {
				return res
			}
			return nil
		}

		return progressMsg(p)
	}
}

func (m Model) View() string {
	switch m.state {
	case stateFilePicker:
		return m.viewFilePicker()
	case stateLoading:
		return m.viewLoading()
	case stateBrowse:
		return m.viewBrowse()
	}
	return ""
}

func (m Model) header() string {
	title := TitleStyle.Render("📊 Excel/CSV Data Search and Viewer")
	subtitle := SubtitleStyle.Render("View spreadsheet data or search every sheet for specific entries")
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle)
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(m.header())
	s.WriteString("\n")
	if m.session.Err != nil {
		s.WriteString(ErrorStyle.Render(fmt.Sprintf("✗ %s: %v", m.session.FileName, m.session.Err)))
		s.WriteString("\n\n")
	}
	s.WriteString(fmt.Sprintf("Upload a file (%s)", strings.Join(m.cfg.FileTypes(), ", ")))
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n")

	help := "enter: open • q: quit"
	if m.session.Loaded() {
		help = "enter: open • tab: back to " + m.session.FileName + " • q: quit"
	}
	s.WriteString(HelpStyle.Render(help))

	return s.String()
}

func (m Model) viewLoading() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("📊 Loading..."))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("Reading %s", m.pending))
	s.WriteString("\n\n")
	s.WriteString(m.progress.View())

	return BoxStyle.Render(s.String())
}

func (m Model) viewBrowse() string {
	content := m.viewContent()
	if m.width > 0 {
		content = lipgloss.NewStyle().MaxWidth(max(m.width-32, 20)).Render(content)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.viewSidebar(), content)
	return lipgloss.JoinVertical(lipgloss.Left, m.header(), body, HelpStyle.Render(m.helpText()))
}

func (m Model) viewSidebar() string {
	var s strings.Builder

	s.WriteString(HeadingStyle.Render("Available Sheets"))
	s.WriteString("\n")
	for _, name := range m.session.SheetNames() {
		s.WriteString("- " + render.Truncate(name, 24) + "\n")
	}
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("%s • %s",
		render.Truncate(m.session.FileName, 16), humanize.Bytes(uint64(m.session.FileSize)))))
	s.WriteString("\n")

	s.WriteString(HeadingStyle.Render("Options"))
	s.WriteString("\n")
	for i, mode := range session.Modes {
		line := "  " + mode.String()
		switch {
		case m.session.Mode == session.ModeNone && m.menuCursor == i:
			line = SelectedStyle.Render("> " + mode.String())
		case m.session.Mode == mode:
			line = CheckedStyle.Render("• " + mode.String())
		default:
			line = UnselectedStyle.Render(line)
		}
		s.WriteString(line + "\n")
	}

	return SidebarStyle.Render(s.String())
}

func (m Model) viewContent() string {
	var s strings.Builder

	switch m.session.Mode {
	case session.ModeNone:
		s.WriteString(HeadingStyle.Render("What would you like to do?"))
		s.WriteString("\n\n")
		s.WriteString(SubtitleStyle.Render("Pick an option from the sidebar."))

	case session.ModeView:
		s.WriteString(HeadingStyle.Render("View All Data"))
		s.WriteString("\n\n")
		s.WriteString(m.viewSheets(render.ViewHeading))

	case session.ModeSearch:
		s.WriteString(HeadingStyle.Render("Search Data"))
		s.WriteString("\n\n")
		s.WriteString(m.input.View())
		s.WriteString("\n\n")
		switch {
		case m.session.Err != nil:
			s.WriteString(ErrorStyle.Render("✗ " + m.session.Err.Error()))
		case m.session.Notice != "":
			s.WriteString(WarningStyle.Render("⚠ " + m.session.Notice))
		case !m.session.Result.Empty():
			s.WriteString(SubtitleStyle.Render(fmt.Sprintf("%d matching row(s) in %d sheet(s)",
				m.session.Result.RowCount(), len(m.session.Result.Sheets))))
			s.WriteString("\n")
			s.WriteString(m.viewSheets(render.MatchHeading))
		}

	case session.ModeExit:
		s.WriteString(InfoStyle.Render("ℹ " + m.session.Notice))
	}

	return s.String()
}

func (m Model) viewSheets(heading func(string) string) string {
	sheets := m.sheets()
	if m.sheetIdx >= len(sheets) {
		return ""
	}

	var s strings.Builder
	if len(sheets) > 1 {
		tabs := make([]string, len(sheets))
		for i, sheet := range sheets {
			if i == m.sheetIdx {
				tabs[i] = ActiveTabStyle.Render(sheet.Name)
			} else {
				tabs[i] = TabStyle.Render(sheet.Name)
			}
		}
		s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
		s.WriteString("\n\n")
	}

	active := sheets[m.sheetIdx]
	s.WriteString(CheckedStyle.Render(heading(active.Name)))
	s.WriteString("\n")
	if active.Data == nil || len(active.Data.Columns) == 0 {
		s.WriteString(SubtitleStyle.Render("(empty sheet)"))
		return s.String()
	}
	s.WriteString(m.table.View())
	return s.String()
}

func (m Model) helpText() string {
	switch m.session.Mode {
	case session.ModeView:
		return "←/→: sheet • ↑/↓: scroll • esc: options • u: upload • q: quit"
	case session.ModeSearch:
		if m.inputFocused {
			return "enter: search • tab: results • esc: options • ctrl+c: quit"
		}
		return "←/→: sheet • ↑/↓: scroll • /: new search • esc: options • u: upload • q: quit"
	case session.ModeExit:
		return "esc: options • u: upload another file • q: quit"
	}
	return "↑/↓: navigate • enter: select • u: upload another file • q: quit"
}
