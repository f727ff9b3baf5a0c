// Package errors provides structured error types for the topicmap client.
//
// Error codes let callers (and the presentation layer above them) tell apart
// configuration mistakes, programming errors, and remote failures:
//   - INVALID_*: input validation failures
//   - NOT_FOUND / NOT_MEMBER: unknown objects
//   - UNKNOWN_*: unregistered renderers, directives or push messages
//   - UNSYNCED: a local mutation whose remote write failed
//   - NETWORK / TIMEOUT: transport failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNotMember, "topic %d is not on topicmap %d", id, mapID)
//	if errors.Is(err, errors.ErrCodeNotMember) {
//	    // programming error: caller used a stale id
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code classifies an error for callers and for the CLI exit path.
type Code string

const (
	// Bad input or configuration
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Lookup errors
	ErrCodeNotFound   Code = "NOT_FOUND"
	ErrCodeNotMember  Code = "NOT_MEMBER"
	ErrCodeNoTopicmap Code = "NO_TOPICMAP"

	// Dispatch errors
	ErrCodeUnknownRenderer  Code = "UNKNOWN_RENDERER"
	ErrCodeUnknownDirective Code = "UNKNOWN_DIRECTIVE"
	ErrCodeUnknownMessage   Code = "UNKNOWN_MESSAGE"

	// Synchronization errors
	ErrCodeUnsynced Code = "UNSYNCED"

	// Transport
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Everything else
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error carries a Code, a message for users and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{code, fmt.Sprintf(format, args...), nil}
}

// Wrap returns an Error whose cause is err.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{code, fmt.Sprintf(format, args...), cause}
}

// Is reports whether any error in err's chain has the given code.
// Joined errors are searched branch by branch.
func Is(err error, code Code) bool {
	if err == nil {
		return false
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range j.Unwrap() {
			if Is(e, code) {
				return true
			}
		}
		return false
	}
	if c := codeOf(err); c == code {
		return true
	}
	return Is(errors.Unwrap(err), code)
}

// coder is implemented by error types that carry a code without being *Error.
type coder interface{ Code() Code }

func codeOf(err error) Code {
	switch e := err.(type) {
	case *Error:
		return e.Code
	case coder:
		return e.Code()
	}
	return ""
}

// GetCode returns the outermost code in err's chain, searching joined errors
// in order. It returns "" if nothing in the chain carries a code.
func GetCode(err error) Code {
	if err == nil {
		return ""
	}
	if c := codeOf(err); c != "" {
		return c
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range j.Unwrap() {
			if c := GetCode(e); c != "" {
				return c
			}
		}
		return ""
	}
	return GetCode(errors.Unwrap(err))
}

// UserMessage returns the message of the first *Error in err's chain, without
// code or cause, falling back to err.Error().
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
