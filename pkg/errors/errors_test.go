package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Message(t *testing.T) {
	err := New(CodeEmptyLog, "event log has no traces").WithContext("log", "hospital")

	msg := err.Error()
	if !strings.Contains(msg, "E102") {
		t.Errorf("message %q does not contain code", msg)
	}
	if !strings.Contains(msg, "log=hospital") {
		t.Errorf("message %q does not contain context", msg)
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("read failed")
	err := Wrap(cause, CodeInvalidFormat, "parsing event log")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error does not match its cause")
	}
	if !strings.Contains(err.Error(), "read failed") {
		t.Errorf("message %q does not include cause", err.Error())
	}
	if Wrap(nil, CodeInvalidFormat, "no-op") != nil {
		t.Error("wrapping nil should return nil")
	}
}

func TestIsCode(t *testing.T) {
	err := SampleSize(0)
	if !IsCode(err, CodeSampleSize) {
		t.Error("IsCode failed on direct error")
	}

	wrapped := fmt.Errorf("while configuring: %w", err)
	if !IsCode(wrapped, CodeSampleSize) {
		t.Error("IsCode failed through an fmt wrapper")
	}
	if IsCode(wrapped, CodeEmptyLog) {
		t.Error("IsCode matched the wrong code")
	}
	if IsCode(nil, CodeEmptyLog) {
		t.Error("IsCode matched nil")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(InvalidIterations(-1)); got != CodeInvalidIterations {
		t.Errorf("GetCode = %v, want %v", got, CodeInvalidIterations)
	}
	if got := GetCode(fmt.Errorf("plain")); got != CodeUnknown {
		t.Errorf("GetCode(plain) = %v, want %v", got, CodeUnknown)
	}
}

func TestIs_MatchesByCode(t *testing.T) {
	a := EmptyLog("a")
	b := EmptyLog("b")
	if !stderrors.Is(a, b) {
		t.Error("errors with the same code should match")
	}
	if stderrors.Is(a, SampleSize(1)) {
		t.Error("errors with different codes should not match")
	}
}

func TestStackTrace(t *testing.T) {
	err := New(CodeUnknown, "boom")
	if len(err.StackTrace) == 0 {
		t.Fatal("no stack captured")
	}
	if !strings.Contains(err.FormatStack(), "errors_test") {
		t.Errorf("stack %q does not mention the caller", err.FormatStack())
	}
}
