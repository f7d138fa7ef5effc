package core

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors, one per ErrorKind. Every *Error unwraps to exactly one of these.
var (
	ErrInit                 = errors.New("negative tests init error")
	ErrState                = errors.New("negative tests state error")
	ErrRange                = errors.New("call index out of range")
	ErrUnexpectedCall       = errors.New("unexpected call")
	ErrUnmatchedExpectation = errors.New("not all expected calls occurred")
	ErrArgumentMismatch     = errors.New("argument mismatch")
)

// Error is the error type reported to the session's ErrorHandler and returned from
// the operation that detected the problem.
type Error struct {
	Kind     ErrorKind
	Identity string // mocked operation involved, if any
	Index    int    // 0-based call index, or -1
	Detail   string
}

func (e *Error) Error() string {
	parts := []string{e.Kind.sentinel().Error()}

	if e.Identity != "" {
		parts = append(parts, fmt.Sprintf("%q", e.Identity))
	}

	if e.Index >= 0 {
		// indices are 0-based in the API, 1-based for humans
		parts = append(parts, fmt.Sprintf("call %d", e.Index+1))
	}

	msg := strings.Join(parts, " ")

	if e.Detail != "" {
		msg += ": " + e.Detail
	}

	return msg
}

func (e *Error) Unwrap() error {
	return e.Kind.sentinel()
}

// ErrorHandler receives every error the engine detects, synchronously, at the point
// of detection.
type ErrorHandler func(err *Error)

// ErrorKind identifies the class of a reported error.
type ErrorKind int

// Error kinds.
const (
	KindInit ErrorKind = iota
	KindState
	KindRange
	KindUnexpectedCall
	KindUnmatchedExpectation
	KindArgumentMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case KindInit:
		return "InitError"
	case KindState:
		return "StateError"
	case KindRange:
		return "RangeError"
	case KindUnexpectedCall:
		return "UnexpectedCallError"
	case KindUnmatchedExpectation:
		return "UnmatchedExpectationError"
	case KindArgumentMismatch:
		return "ArgumentMismatchError"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindInit:
		return ErrInit
	case KindState:
		return ErrState
	case KindRange:
		return ErrRange
	case KindUnexpectedCall:
		return ErrUnexpectedCall
	case KindUnmatchedExpectation:
		return ErrUnmatchedExpectation
	case KindArgumentMismatch:
		return ErrArgumentMismatch
	default:
		return errUnknownKind
	}
}

// FailOnError returns an ErrorHandler that fails the test on the first reported error.
func FailOnError(t TestReporter) ErrorHandler {
	return func(err *Error) {
		t.Helper()
		t.Fatalf("%s: %v", err.Kind, err)
	}
}

// IgnoreErrors is an ErrorHandler that discards reports. Errors are still returned
// from the operations that detect them.
func IgnoreErrors(*Error) {}

// unexported variables.
var (
	errUnknownKind      = errors.New("unknown error")
	errUnknownMatchMode = errors.New("unknown match mode")
)

func newError(kind ErrorKind, identity string, index int, format string, args ...any) *Error {
	return &Error{
		Kind:     kind,
		Identity: identity,
		Index:    index,
		Detail:   fmt.Sprintf(format, args...),
	}
}
