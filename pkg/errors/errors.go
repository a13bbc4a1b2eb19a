// Package errors provides structured error handling for procdiff.
// It implements coded errors with context and stack traces so callers can
// dispatch on the failure kind programmatically.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Code identifies an error kind for programmatic handling.
type Code string

const (
	// Validation errors (1xx): rejected before any resampling work begins.
	CodeInvalidIterations Code = "E101"
	CodeEmptyLog          Code = "E102"
	CodeSampleSize        Code = "E103"
	CodeConfiguration     Code = "E104"

	// Extraction errors (2xx)
	CodeMissingAttribute Code = "E201"

	// Ingest errors (3xx)
	CodeFileNotFound     Code = "E301"
	CodeInvalidFormat    Code = "E302"
	CodeInvalidTimestamp Code = "E303"

	// Unknown
	CodeUnknown Code = "E999"
)

// Error is the base error type for all procdiff errors.
type Error struct {
	Code       Code
	Message    string
	Cause      error
	Context    map[string]interface{}
	StackTrace []Frame
}

// Frame represents a stack frame.
type Frame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if len(e.Context) > 0 {
		sb.WriteString(" (")
		first := true
		for k, v := range e.Context {
			if !first {
				sb.WriteString(", ")
			}
			sb.WriteString(fmt.Sprintf("%s=%v", k, v))
			first = false
		}
		sb.WriteString(")")
	}

	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}

	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WithContext adds context to the error.
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new Error.
func New(code Code, message string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		StackTrace: captureStack(2),
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}

	return &Error{
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: captureStack(2),
	}
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, code Code, format string, args ...interface{}) *Error {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// captureStack captures the current stack trace.
func captureStack(skip int) []Frame {
	var frames []Frame
	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip+1, pcs)
	pcs = pcs[:n]

	cf := runtime.CallersFrames(pcs)
	for {
		frame, more := cf.Next()
		frames = append(frames, Frame{
			Function: frame.Function,
			File:     frame.File,
			Line:     frame.Line,
		})
		if !more || len(frames) >= 10 {
			break
		}
	}
	return frames
}

// FormatStack returns a formatted stack trace.
func (e *Error) FormatStack() string {
	var sb strings.Builder
	for _, f := range e.StackTrace {
		sb.WriteString(fmt.Sprintf("  at %s\n    %s:%d\n", f.Function, f.File, f.Line))
	}
	return sb.String()
}

// --- Convenience constructors ---

// InvalidIterations reports an iteration count below 1.
func InvalidIterations(iterations int) *Error {
	return New(CodeInvalidIterations, "iteration count must be at least 1").
		WithContext("iterations", iterations)
}

// EmptyLog reports an empty event log where the operation requires traces.
func EmptyLog(name string) *Error {
	return New(CodeEmptyLog, "event log has no traces").
		WithContext("log", name)
}

// SampleSize reports an invalid bootstrap sample size.
func SampleSize(size int) *Error {
	return New(CodeSampleSize, "sample size must be positive").
		WithContext("sample_size", size)
}

// MissingAttribute reports an event missing a required attribute.
func MissingAttribute(attribute, caseID string) *Error {
	return New(CodeMissingAttribute, "required event attribute not found").
		WithContext("attribute", attribute).
		WithContext("case", caseID)
}

// InvalidTimestamp reports a timestamp that failed to parse.
func InvalidTimestamp(value string) *Error {
	return New(CodeInvalidTimestamp, "failed to parse timestamp").
		WithContext("value", value)
}

// --- Error checking utilities ---

// IsCode checks if an error has a specific code.
func IsCode(err error, code Code) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}

// GetCode extracts the error code from an error.
func GetCode(err error) Code {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code
	}
	return CodeUnknown
}
