// Package negtest provides a mock expectation engine for negative testing in Go.
// Test code declares the happy path of dependency calls once, snapshots it, then
// replays it once per call with exactly that call forced onto its failure value.
//
// This is the public API entry point. Implementation lives in internal/core.
package negtest

import (
	"fmt"

	"github.com/toejough/negtest/internal/config"
	"github.com/toejough/negtest/internal/core"
	"github.com/toejough/negtest/internal/logging"
	"go.uber.org/zap"
)

// ActualCall is a call observed by a session.
type ActualCall = core.ActualCall

// CallRecorder owns the expected and actual calls of a session.
type CallRecorder = core.CallRecorder

// CallState is a read-only view of one expected call.
type CallState = core.CallState

// ControllerState is the lifecycle state of a NegativeTests controller.
type ControllerState = core.ControllerState

// Controller states.
const (
	StateUninitialized = core.StateUninitialized
	StateReady         = core.StateReady
	StateSnapshotTaken = core.StateSnapshotTaken
	StateIterating     = core.StateIterating
	StateDeinitialized = core.StateDeinitialized
)

// Error is the error type reported to error handlers.
type Error = core.Error

// ErrorHandler receives every detected error synchronously.
type ErrorHandler = core.ErrorHandler

// ErrorKind identifies the class of a reported error.
type ErrorKind = core.ErrorKind

// Error kinds.
const (
	KindInit                 = core.KindInit
	KindState                = core.KindState
	KindRange                = core.KindRange
	KindUnexpectedCall       = core.KindUnexpectedCall
	KindUnmatchedExpectation = core.KindUnmatchedExpectation
	KindArgumentMismatch     = core.KindArgumentMismatch
)

// Sentinel errors, re-exported for errors.Is.
var (
	ErrInit                 = core.ErrInit
	ErrState                = core.ErrState
	ErrRange                = core.ErrRange
	ErrUnexpectedCall       = core.ErrUnexpectedCall
	ErrUnmatchedExpectation = core.ErrUnmatchedExpectation
	ErrArgumentMismatch     = core.ErrArgumentMismatch
)

// ExpectedCall is the builder handle for a declared expectation.
type ExpectedCall = core.ExpectedCall

// MatchMode selects how actual calls are paired with expectations.
type MatchMode = core.MatchMode

// Match modes.
const (
	MatchStrict   = core.MatchStrict
	MatchOrdered  = core.MatchOrdered
	MatchAnyOrder = core.MatchAnyOrder
)

// Matcher defines the interface for flexible argument matching.
type Matcher = core.Matcher

// NegativeTests is the snapshot/replay controller.
type NegativeTests = core.NegativeTests

// Option configures a Session.
type Option = core.Option

// Result is what a mocked operation hands back to its caller.
type Result = core.Result

// Session holds the expectation state for one test.
type Session = core.Session

// Snapshot is an immutable copy of a session's calls.
type Snapshot = core.Snapshot

// TestReporter is the minimal interface negtest needs from test frameworks.
type TestReporter = core.TestReporter

// FailOnError returns an ErrorHandler that fails t on the first reported error.
func FailOnError(t TestReporter) ErrorHandler {
	return core.FailOnError(t)
}

// FailTestOnError makes the session fail its test on every detected error.
func FailTestOnError() Option {
	return core.FailTestOnError()
}

// IgnoreErrors discards reports; errors are still returned.
func IgnoreErrors(err *Error) {
	core.IgnoreErrors(err)
}

// LoadOptions builds session options from configuration: the JSON or YAML file at
// path (if any), overridden by NEGTEST_* environment variables.
func LoadOptions(path string) ([]Option, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	mode, err := core.ParseMatchMode(cfg.MatchMode)
	if err != nil {
		return nil, fmt.Errorf("match mode: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	return []Option{
		WithMatchMode(mode),
		WithLogger(logger),
		WithVerifyDiff(cfg.VerifyDiff),
	}, nil
}

// MatchValue checks if actual matches expected.
func MatchValue(actual, expected any) (bool, string) {
	return core.MatchValue(actual, expected)
}

// NewSession creates a session for t.
func NewSession(t TestReporter, opts ...Option) *Session {
	return core.NewSession(t, opts...)
}

// ParseMatchMode parses strict, ordered or any_order.
func ParseMatchMode(name string) (MatchMode, error) {
	return core.ParseMatchMode(name)
}

// Resolve decides what a matched expectation returns.
func Resolve(call *ExpectedCall) Result {
	return core.Resolve(call)
}

// Returning is the body of a stub for an operation with one return value.
func Returning[R any](s *Session, identity string, args ...any) R {
	return core.Returning[R](s, identity, args...)
}

// Returning2 is the body of a stub for an operation with two return values.
func Returning2[R1, R2 any](s *Session, identity string, args ...any) (R1, R2) {
	return core.Returning2[R1, R2](s, identity, args...)
}

// Serialize holds a process-wide lock for the rest of the test.
func Serialize(t TestReporter) (release func()) {
	return core.Serialize(t)
}

// SessionFor returns the Session for the given test, creating one if needed.
func SessionFor(t TestReporter, opts ...Option) *Session {
	return core.SessionFor(t, opts...)
}

// Void is the body of a stub for an operation without return values.
func Void(s *Session, identity string, args ...any) {
	core.Void(s, identity, args...)
}

// WithErrorHandler registers the callback that receives every detected error.
func WithErrorHandler(handler ErrorHandler) Option {
	return core.WithErrorHandler(handler)
}

// WithLogger sets the session logger.
func WithLogger(logger *zap.Logger) Option {
	return core.WithLogger(logger)
}

// WithMatchMode sets how actual calls are paired with expectations.
func WithMatchMode(mode MatchMode) Option {
	return core.WithMatchMode(mode)
}

// WithVerifyDiff toggles the unified diff in Verify failures.
func WithVerifyDiff(enabled bool) Option {
	return core.WithVerifyDiff(enabled)
}
