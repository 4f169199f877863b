// Package session holds the per-user state of one interactive session: the
// current workbook, the chosen mode and the last query. A State is a value;
// every transition returns a new State and never mutates the workbook.
package session

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nconklindev/sheetseek/internal/loader"
	"github.com/nconklindev/sheetseek/internal/search"
	"github.com/nconklindev/sheetseek/internal/types"

	"go.uber.org/zap"
)

// Mode is the action chosen for the loaded workbook.
type Mode int

const (
	ModeNone Mode = iota
	ModeView
	ModeSearch
	ModeExit
)

// Modes lists the selectable modes in menu order.
var Modes = []Mode{ModeView, ModeSearch, ModeExit}

func (m Mode) String() string {
	switch m {
	case ModeView:
		return "View Data"
	case ModeSearch:
		return "Search Data"
	case ModeExit:
		return "Exit"
	default:
		return "None"
	}
}

// ExitNotice is shown when the user picks Exit.
const ExitNotice = "You selected Exit. Close the app or upload another file to start over."

// ErrNoWorkbook is returned when an operation needs a workbook and none is loaded.
var ErrNoWorkbook = errors.New("no workbook loaded")

// NoMatchesNotice is shown when a search matches nothing.
func NoMatchesNotice(term string) string {
	return fmt.Sprintf("No matches found for '%s' in any sheet.", term)
}

// State is the session snapshot. The zero value is "awaiting upload".
type State struct {
	FileName string
	FileSize int64
	Workbook *types.Workbook
	Mode     Mode
	Term     string
	Result   *types.SearchResult
	Notice   string
	Err      error
}

// Loaded reports whether a workbook is active.
func (s State) Loaded() bool {
	return s.Workbook != nil
}

// WithUpload installs the outcome of loading name. On failure the session is
// reset to "no workbook loaded" and carries the error, so stale data from an
// earlier upload is never shown against a new file name.
func (s State) WithUpload(name string, size int64, wb *types.Workbook, err error) State {
	if err != nil {
		return State{FileName: name, FileSize: size, Err: err}
	}
	return State{FileName: name, FileSize: size, Workbook: wb}
}

// Choose switches mode. Exit only sets a notice; the workbook stays loaded.
func (s State) Choose(mode Mode) State {
	next := State{
		FileName: s.FileName,
		FileSize: s.FileSize,
		Workbook: s.Workbook,
		Mode:     mode,
	}
	if !s.Loaded() {
		next.Err = ErrNoWorkbook
		return next
	}
	if mode == ModeExit {
		next.Notice = ExitNotice
	}
	return next
}

// SheetNames lists the active workbook's sheets in order.
func (s State) SheetNames() []string {
	return s.Workbook.Names()
}

// Service runs loads and searches against session states.
type Service struct {
	loader *loader.Loader
	engine *search.Engine
	log    *zap.Logger
}

// NewService creates a Service. A nil logger disables logging.
func NewService(l *loader.Loader, e *search.Engine, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{loader: l, engine: e, log: log}
}

// Loader exposes the service's loader for callers that report progress.
func (svc *Service) Loader() *loader.Loader {
	return svc.loader
}

// Upload loads data, declared by the extension of name, into a fresh state.
func (svc *Service) Upload(s State, name string, data []byte) State {
	ext := filepath.Ext(name)
	wb, err := svc.loader.Load(data, ext)
	if err != nil {
		svc.log.Info("upload rejected", zap.String("file", name), zap.Error(err))
	}
	return s.WithUpload(name, int64(len(data)), wb, err)
}

// Search runs term against the active workbook. A blank term is not searched:
// the state is returned with the query cleared.
func (svc *Service) Search(s State, term string) (next State) {
	next = s
	next.Mode = ModeSearch
	next.Notice = ""
	next.Err = nil
	next.Result = nil
	next.Term = ""

	if !s.Loaded() {
		next.Err = ErrNoWorkbook
		return next
	}
	if strings.TrimSpace(term) == "" {
		return next
	}

	defer func() {
		if r := recover(); r != nil {
			svc.log.Error("search panicked", zap.String("term", term), zap.Any("panic", r))
			next.Result = nil
			next.Err = loader.NewProcessingError("", fmt.Errorf("search %q: %v", term, r))
		}
	}()

	next.Term = term
	next.Result = svc.engine.Search(term, s.Workbook)
	if next.Result.Empty() {
		next.Notice = NoMatchesNotice(term)
	}
	return next
}
