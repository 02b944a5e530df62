// Package errors provides the standardized error taxonomy for dialog turns.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Turn errors. None of these produce a dialog response.
const (
	ErrCodeUnsupportedIntent           ErrorCode = "UNSUPPORTED_INTENT"
	ErrCodeUnsupportedInvocationSource ErrorCode = "UNSUPPORTED_INVOCATION_SOURCE"
	ErrCodeInvalidSlotValue            ErrorCode = "INVALID_SLOT_VALUE"

	ErrCodeMalformedRequest       ErrorCode = "MALFORMED_REQUEST"
	ErrCodeRequestSchemaViolation ErrorCode = "REQUEST_SCHEMA_VIOLATION"

	ErrCodeScriptLoadFailed    ErrorCode = "SCRIPT_LOAD_FAILED"
	ErrCodeExpectationMismatch ErrorCode = "EXPECTATION_MISMATCH"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Cause     error                  `json:"-"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.Cause
}

// ==========================
// 2. Error Constructors
// ==========================

// NewUnsupportedIntentError reports an intent name no handler is registered for.
// This is an integration bug, never user input.
func NewUnsupportedIntentError(intentName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnsupportedIntent,
		Message:   fmt.Sprintf("Intent with name %s not supported", intentName),
		Details:   fmt.Sprintf("intentName: %s", intentName),
		Retryable: false,
		Metadata:  map[string]interface{}{"intentName": intentName},
		Timestamp: time.Now().UTC(),
	}
}

// NewUnsupportedInvocationSourceError reports an invocation source outside the known set.
func NewUnsupportedInvocationSourceError(source string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnsupportedInvocationSource,
		Message:   "Invocation source not supported",
		Details:   fmt.Sprintf("invocationSource: %s", source),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidSlotValueError reports a slot value that could not be parsed.
func NewInvalidSlotValueError(slot, value string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidSlotValue,
		Message:   fmt.Sprintf("Slot %s is not a valid number", slot),
		Details:   fmt.Sprintf("slot: %s, value: %q", slot, value),
		Retryable: false,
		Metadata:  map[string]interface{}{"slot": slot},
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewMalformedRequestError wraps a decoding failure of an inbound request.
func NewMalformedRequestError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedRequest,
		Message:   "Request could not be decoded",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewRequestSchemaViolationError lists the schema violations found in a request.
func NewRequestSchemaViolationError(violations []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequestSchemaViolation,
		Message:   "Request does not match the intent request schema",
		Details:   strings.Join(violations, "; "),
		Retryable: false,
		Metadata:  map[string]interface{}{"violations": violations},
		Timestamp: time.Now().UTC(),
	}
}

// NewScriptLoadFailedError wraps a failure to read or parse a conversation script.
func NewScriptLoadFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeScriptLoadFailed,
		Message:   "Conversation script could not be loaded",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewExpectationMismatchError reports replayed turns whose responses differ from the script.
func NewExpectationMismatchError(script string, failedTurns int) *StandardError {
	return &StandardError{
		Code:      ErrCodeExpectationMismatch,
		Message:   "Conversation script expectations not met",
		Details:   fmt.Sprintf("script: %s, failedTurns: %d", script, failedTurns),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// HasCode reports whether err is, or wraps, a StandardError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if !stderrors.As(err, &stdErr) {
		return false
	}
	return stdErr.Code == code
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "INTENT") || strings.Contains(codeStr, "INVOCATION"):
		return "INTEGRATION"
	case strings.Contains(codeStr, "SLOT"):
		return "USER_INPUT"
	case strings.Contains(codeStr, "REQUEST"):
		return "TRANSPORT"
	case strings.Contains(codeStr, "SCRIPT") || strings.Contains(codeStr, "EXPECTATION"):
		return "REPLAY"
	default:
		return "OTHER"
	}
}
