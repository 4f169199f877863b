package ui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nconklindev/sheetseek/internal/config"
	"github.com/nconklindev/sheetseek/internal/loader"
	"github.com/nconklindev/sheetseek/internal/search"
	"github.com/nconklindev/sheetseek/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const peopleCSV = "name,city\nAlice,Reno\nBob,Elko\n"

func newModel(t *testing.T) Model {
	t.Helper()
	cfg := config.Default()
	cfg.UI.StartDir = t.TempDir()
	svc := session.NewService(loader.New(loader.Options{}, nil), search.New(nil), nil)
	return New(Options{Config: cfg, Service: svc})
}

func update(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(t *testing.T, name, data string) Model {
	t.Helper()
	m := newModel(t)
	wb, err := loader.New(loader.Options{}, nil).Load([]byte(data), filepath.Ext(name))
	require.NoError(t, err)
	return update(t, m, fileLoadedMsg{name: name, size: int64(len(data)), wb: wb})
}

func TestLoadedWorkbookShowsSidebar(t *testing.T) {
	m := loaded(t, "people.csv", peopleCSV)

	assert.Equal(t, stateBrowse, m.state)
	view := m.View()
	assert.Contains(t, view, "Available Sheets")
	assert.Contains(t, view, "- Sheet1")
	assert.Contains(t, view, "people.csv")
	assert.Contains(t, view, "View Data")
	assert.Contains(t, view, "Search Data")
}

func TestSearchFlow(t *testing.T) {
	m := loaded(t, "people.csv", peopleCSV)

	m = update(t, m, key("down"), key("enter"))
	require.Equal(t, session.ModeSearch, m.Session().Mode)
	require.True(t, m.inputFocused)

	m = update(t, m, key("reno"), key("enter"))
	st := m.Session()
	require.NoError(t, st.Err)
	require.False(t, st.Result.Empty())
	assert.Equal(t, "reno", st.Term)
	assert.False(t, m.inputFocused, "results take focus after a match")

	view := m.View()
	assert.Contains(t, view, "Matches found in sheet: Sheet1")
	assert.Contains(t, view, "Alice")
	assert.NotContains(t, view, "Elko")
}

func TestSearchWithoutMatchesShowsNotice(t *testing.T) {
	m := loaded(t, "people.csv", peopleCSV)

	m = update(t, m, key("down"), key("enter"), key("xyz123"), key("enter"))

	assert.True(t, m.Session().Result.Empty())
	assert.Contains(t, m.View(), "No matches found for 'xyz123' in any sheet.")
}

func TestBlankSearchIsNotSubmitted(t *testing.T) {
	m := loaded(t, "people.csv", peopleCSV)

	m = update(t, m, key("down"), key("enter"), key("   "), key("enter"))

	assert.Nil(t, m.Session().Result)
	assert.True(t, m.inputFocused)
}

func TestTypingQInSearchDoesNotQuit(t *testing.T) {
	m := loaded(t, "people.csv", peopleCSV)

	m = update(t, m, key("down"), key("enter"), key("q"))

	assert.Equal(t, "q", m.input.Value())
	assert.Equal(t, stateBrowse, m.state)
}

func TestViewModeSwitchesSheets(t *testing.T) {
	m := newModel(t)
	wb, err := loader.New(loader.Options{}, nil).Load([]byte(peopleCSV), "csv")
	require.NoError(t, err)
	wb.Sheets = append(wb.Sheets, wb.Sheets[0])
	wb.Sheets[1].Name = "Copy"
	m = update(t, m, fileLoadedMsg{name: "people.csv", wb: wb})

	m = update(t, m, key("enter"))
	require.Equal(t, session.ModeView, m.Session().Mode)
	assert.Contains(t, m.View(), "Data from sheet: Sheet1")
	assert.Contains(t, m.View(), "Elko")

	m = update(t, m, key("right"))
	assert.Equal(t, 1, m.sheetIdx)
	assert.Contains(t, m.View(), "Data from sheet: Copy")

	m = update(t, m, key("right"))
	assert.Equal(t, 0, m.sheetIdx)
}

func TestExitShowsNotice(t *testing.T) {
	m := loaded(t, "people.csv", peopleCSV)

	m = update(t, m, key("down"), key("down"), key("enter"))

	assert.Equal(t, session.ModeExit, m.Session().Mode)
	assert.True(t, m.Session().Loaded())
	assert.Contains(t, m.View(), session.ExitNotice)

	m = update(t, m, key("esc"))
	assert.Equal(t, session.ModeNone, m.Session().Mode)
}

func TestFailedUploadReturnsToPicker(t *testing.T) {
	m := loaded(t, "people.csv", peopleCSV)
	m = update(t, m, key("u"))
	require.Equal(t, stateFilePicker, m.state)

	_, err := loader.New(loader.Options{}, nil).Load([]byte("x"), "txt")
	m = update(t, m, fileLoadedMsg{name: "notes.txt", err: err})

	assert.Equal(t, stateFilePicker, m.state)
	assert.False(t, m.Session().Loaded())
	assert.Contains(t, m.View(), "unsupported file format")

	m = update(t, m, key("tab"))
	assert.Equal(t, stateFilePicker, m.state, "nothing to go back to after a failed upload")
}

func TestReadAndLoad(t *testing.T) {
	dir := t.TempDir()
	ld := loader.New(loader.Options{}, nil)

	csvPath := filepath.Join(dir, "people.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(peopleCSV), 0o600))
	msg := readAndLoad(ld, csvPath, nil)
	require.NoError(t, msg.err)
	assert.Equal(t, "people.csv", msg.name)
	assert.Equal(t, int64(len(peopleCSV)), msg.size)
	assert.Equal(t, []string{"Sheet1"}, msg.wb.Names())

	txtPath := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("hello"), 0o600))
	msg = readAndLoad(ld, txtPath, nil)
	assert.ErrorIs(t, msg.err, loader.ErrUnsupportedFormat)
	assert.Nil(t, msg.wb)

	msg = readAndLoad(ld, filepath.Join(dir, "missing.csv"), nil)
	assert.ErrorIs(t, msg.err, loader.ErrProcessing)
}

func TestWaitForProgress(t *testing.T) {
	progressChan := make(chan float64, 1)
	resultChan := make(chan fileLoadedMsg, 1)

	progressChan <- 0.5
	assert.Equal(t, progressMsg(0.5), waitForProgress(progressChan, resultChan)())

	resultChan <- fileLoadedMsg{name: "done.csv"}
	close(progressChan)
	close(resultChan)
	assert.Equal(t, fileLoadedMsg{name: "done.csv"}, waitForProgress(progressChan, resultChan)())

	assert.Nil(t, waitForProgress(nil, nil)())
}
