package suite

import (
	"errors"
	"fmt"
)

// RunErrorCode categorizes run-level failures. Band-level failures are not
// errors; they live in the summary.
type RunErrorCode string

const (
	// ErrCodeNoDatasets indicates discovery found zero band files.
	ErrCodeNoDatasets RunErrorCode = "NO_DATASETS"

	// ErrCodeToolUnavailable indicates the target tool could not be
	// launched at all.
	ErrCodeToolUnavailable RunErrorCode = "TOOL_UNAVAILABLE"

	// ErrCodeArtifact indicates the harness could not write one of its
	// own artifacts (output directory, logs, summary).
	ErrCodeArtifact RunErrorCode = "ARTIFACT_WRITE"
)

// RunError is a fatal run-level failure. It aborts the whole suite; no
// further bands are processed.
type RunError struct {
	Code    RunErrorCode
	Message string
	Err     error
}

func (e *RunError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// NewRunError creates a RunError with the given code and message.
func NewRunError(code RunErrorCode, message string) *RunError {
	return &RunError{Code: code, Message: message}
}

// WrapRunError wraps an underlying error with a run error code.
func WrapRunError(code RunErrorCode, message string, err error) *RunError {
	return &RunError{Code: code, Message: message, Err: err}
}

// ErrorCode extracts the RunErrorCode from an error chain, or "" when the
// error is not a RunError.
func ErrorCode(err error) RunErrorCode {
	var re *RunError
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}
