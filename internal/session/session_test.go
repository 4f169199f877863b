package session

import (
	"testing"

	"github.com/nconklindev/sheetseek/internal/loader"
	"github.com/nconklindev/sheetseek/internal/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const peopleCSV = "name,city\nAlice,Reno\nBob,Elko\n"

func newService() *Service {
	return NewService(loader.New(loader.Options{}, nil), search.New(nil), nil)
}

func TestUploadAndSearch(t *testing.T) {
	svc := newService()

	st := svc.Upload(State{}, "people.csv", []byte(peopleCSV))
	require.NoError(t, st.Err)
	require.True(t, st.Loaded())
	assert.Equal(t, []string{"Sheet1"}, st.SheetNames())
	assert.Equal(t, int64(len(peopleCSV)), st.FileSize)

	st = svc.Search(st.Choose(ModeSearch), "reno")
	require.NoError(t, st.Err)
	assert.Equal(t, "reno", st.Term)
	require.Len(t, st.Result.Sheets, 1)
	assert.Equal(t, "Alice", st.Result.Sheets[0].Data.Rows[0][0].String())
	assert.Empty(t, st.Notice)
}

func TestSearchNoMatchesSetsNotice(t *testing.T) {
	svc := newService()
	st := svc.Upload(State{}, "people.csv", []byte(peopleCSV))

	st = svc.Search(st, "xyz123")
	require.NoError(t, st.Err)
	assert.True(t, st.Result.Empty())
	assert.Equal(t, "No matches found for 'xyz123' in any sheet.", st.Notice)
}

func TestSearchBlankTermIsSuppressed(t *testing.T) {
	svc := newService()
	st := svc.Upload(State{}, "people.csv", []byte(peopleCSV))
	st = svc.Search(st, "reno")

	for _, term := range []string{"", "   ", "\t"} {
		next := svc.Search(st, term)
		assert.Nil(t, next.Result)
		assert.Empty(t, next.Term)
		assert.NoError(t, next.Err)
		assert.True(t, next.Loaded())
	}
}

func TestSearchWithoutWorkbook(t *testing.T) {
	st := newService().Search(State{}, "a")
	assert.ErrorIs(t, st.Err, ErrNoWorkbook)
	assert.Nil(t, st.Result)
}

func TestUnsupportedUploadLeavesNoWorkbook(t *testing.T) {
	st := newService().Upload(State{}, "notes.txt", []byte("hello"))

	assert.ErrorIs(t, st.Err, loader.ErrUnsupportedFormat)
	assert.False(t, st.Loaded())
	assert.Equal(t, "notes.txt", st.FileName)
}

func TestFailedUploadResetsPreviousWorkbook(t *testing.T) {
	svc := newService()
	st := svc.Upload(State{}, "people.csv", []byte(peopleCSV))
	st = svc.Search(st, "reno")
	require.True(t, st.Loaded())

	st = svc.Upload(st, "broken.xlsx", []byte("not a zip"))

	assert.ErrorIs(t, st.Err, loader.ErrParse)
	assert.False(t, st.Loaded())
	assert.Nil(t, st.Result)
	assert.Empty(t, st.Term)
}

func TestSuccessfulUploadReplacesWorkbook(t *testing.T) {
	svc := newService()
	first := svc.Upload(State{}, "people.csv", []byte(peopleCSV))
	second := svc.Upload(first, "other.csv", []byte("x\n1\n"))

	assert.NotSame(t, first.Workbook, second.Workbook)
	assert.Equal(t, []string{"name", "city"}, first.Workbook.Sheets[0].Data.Columns, "earlier state is untouched")
	assert.Equal(t, []string{"x"}, second.Workbook.Sheets[0].Data.Columns)
}

func TestChoose(t *testing.T) {
	svc := newService()
	st := svc.Upload(State{}, "people.csv", []byte(peopleCSV))
	st = svc.Search(st, "reno")

	exit := st.Choose(ModeExit)
	assert.Equal(t, ExitNotice, exit.Notice)
	assert.True(t, exit.Loaded(), "exit keeps the workbook")
	assert.Nil(t, exit.Result)

	view := exit.Choose(ModeView)
	assert.Equal(t, ModeView, view.Mode)
	assert.Empty(t, view.Notice)
	assert.Same(t, st.Workbook, view.Workbook)

	none := State{}.Choose(ModeView)
	assert.ErrorIs(t, none.Err, ErrNoWorkbook)
}

func TestModeString(t *testing.T) {
	var labels []string
	for _, m := range Modes {
		labels = append(labels, m.String())
	}
	assert.Equal(t, []string{"View Data", "Search Data", "Exit"}, labels)
}
