package ventaserr

import (
	"errors"
	"fmt"
	"strings"
)

// Code defines a canonical error kind surfaced by the analysis run.
type Code string

const (
	// Input
	FileNotFound  Code = "FILE_NOT_FOUND"
	ParseFailure  Code = "PARSE_FAILURE"
	InvalidConfig Code = "INVALID_CONFIG"

	// Analysis & output
	EmptyDataset Code = "EMPTY_DATASET"
	RenderFailed Code = "RENDER_FAILED"
)

// Entry documents a code's standard message, exit status, and next steps.
type Entry struct {
	Code      Code
	Message   string
	ExitCode  int
	NextSteps []string
}

// catalog maps canonical codes to guidance. Messages can be overridden per error.
var catalog = map[Code]Entry{
	FileNotFound:  {Code: FileNotFound, Message: "input workbook not found", ExitCode: 1, NextSteps: []string{"Place the workbook next to the program or pass its path"}},
	ParseFailure:  {Code: ParseFailure, Message: "input workbook could not be read", ExitCode: 2, NextSteps: []string{"Open in Excel and re-save as .xlsx", "Check the required column headers"}},
	EmptyDataset:  {Code: EmptyDataset, Message: "no records to analyze", ExitCode: 3, NextSteps: []string{"Add at least one row with REGION and VENTAS TOTALES"}},
	RenderFailed:  {Code: RenderFailed, Message: "failed to render chart", ExitCode: 4, NextSteps: []string{"Check that the output directory is writable"}},
	InvalidConfig: {Code: InvalidConfig, Message: "invalid configuration", ExitCode: 5, NextSteps: []string{"Review flags and VENTAS_* environment variables"}},
}

// Lookup returns the catalog entry for code.
func Lookup(code Code) (Entry, bool) {
	e, ok := catalog[code]
	return e, ok
}

// Error is a coded error carrying an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		if entry, ok := Lookup(e.Code); ok {
			msg = entry.Message
		}
	}
	if e.Err != nil {
		if msg == "" {
			return fmt.Sprintf("%s: %v", e.Code, e.Err)
		}
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Err)
	}
	if msg == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New returns a coded error with an optional message override.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code to cause. A nil cause yields nil.
func Wrap(code Code, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Code: code, Err: cause}
}

// Wrapf formats a message and attaches a code to cause.
func Wrapf(code Code, cause error, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: cause}
}

// CodeOf extracts the code of the first coded error in err's chain.
func CodeOf(err error) (Code, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code, true
	}
	return "", false
}

// Is reports whether err carries code.
func Is(err error, code Code) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}

// ExitCode maps err to a process exit status: 0 for nil, the catalog value for
// coded errors, and 1 for anything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if c, ok := CodeOf(err); ok {
		if e, ok := Lookup(c); ok {
			return e.ExitCode
		}
	}
	return 1
}

// NextSteps returns compact guidance for err, or "" when none applies.
func NextSteps(err error) string {
	c, ok := CodeOf(err)
	if !ok {
		return ""
	}
	e, ok := Lookup(c)
	if !ok || len(e.NextSteps) == 0 {
		return ""
	}
	return strings.Join(e.NextSteps, "; ")
}
