// Package errs defines the failure taxonomy shared by every stage of a batch.
// Each failure aborts the whole batch; callers match with errors.As.
package errs

import (
	"errors"
	"fmt"
)

// Sentinel causes wrapped by the typed errors below.
var (
	ErrSheetNotFound = errors.New("sheet not found")
	ErrNoSlides      = errors.New("no slides found in presentation")
	ErrMissingPart   = errors.New("missing required package part")
	ErrNotNumeric    = errors.New("row number is not numeric")
	ErrStartAfterEnd = errors.New("start row is after end row")
	ErrCollision     = errors.New("output file already written in this batch")
)

// SourceReadError reports a spreadsheet that is missing, unreadable or
// lacks the requested sheet.
type SourceReadError struct {
	Path  string
	Sheet string
	Err   error
}

func (e *SourceReadError) Error() string {
	if e.Sheet != "" {
		return fmt.Sprintf("read spreadsheet %s (sheet %q): %v", e.Path, e.Sheet, e.Err)
	}
	return fmt.Sprintf("read spreadsheet %s: %v", e.Path, e.Err)
}

func (e *SourceReadError) Unwrap() error {
	return e.Err
}

// TemplateLoadError reports a template presentation that is missing or malformed.
type TemplateLoadError struct {
	Path string
	Err  error
}

func (e *TemplateLoadError) Error() string {
	return fmt.Sprintf("load template %s: %v", e.Path, e.Err)
}

func (e *TemplateLoadError) Unwrap() error {
	return e.Err
}

// InvalidRangeError reports start/end row input that cannot be used.
type InvalidRangeError struct {
	Start string
	End   string
	Err   error
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid row range (start %q, end %q): %v", e.Start, e.End, e.Err)
}

func (e *InvalidRangeError) Unwrap() error {
	return e.Err
}

// WriteError reports an output path that could not be created or written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
