package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat indicates the declared extension is not a recognized spreadsheet format.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrParse indicates the bytes do not parse as the declared format.
	ErrParse = errors.New("parse error")
	// ErrProcessing covers any other failure while loading or searching.
	ErrProcessing = errors.New("processing error")
)

// LoadError carries the failure kind (one of the sentinels above), the declared
// extension and the underlying cause.
type LoadError struct {
	Kind error
	Ext  string
	Err  error
}

func (e *LoadError) Error() string {
	switch {
	case e.Err == nil:
		return fmt.Sprintf("%v: %q", e.Kind, e.Ext)
	case e.Ext == "":
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%v (%s): %v", e.Kind, e.Ext, e.Err)
}

func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func unsupported(ext string) *LoadError {
	return &LoadError{Kind: ErrUnsupportedFormat, Ext: ext}
}

func parseFailure(ext string, err error) *LoadError {
	return &LoadError{Kind: ErrParse, Ext: ext, Err: err}
}

// NewProcessingError wraps err as a processing failure.
func NewProcessingError(ext string, err error) *LoadError {
	return &LoadError{Kind: ErrProcessing, Ext: ext, Err: err}
}
