// Package core implements negtest's expectation engine: the call recorder and matcher,
// the result resolver, and the negative-test controller that replays a snapshotted
// happy path failing one call at a time.
package core

import (
	"slices"
	"strings"
	"sync"

	"github.com/akedrou/textdiff"
	"go.uber.org/zap"
)

// Option configures a Session.
type Option func(*Session)

// Session holds the expectation state for one test: the call recorder, the matching
// rules, the error handler and the negative-test controller. A session is meant to be
// driven sequentially (declare, snapshot, then reset/fail/act/assert per iteration);
// its mutex only keeps stubs called from stray goroutines from corrupting state.
type Session struct {
	t TestReporter

	mu         sync.Mutex
	recorder   CallRecorder
	mode       MatchMode
	handler    ErrorHandler
	logger     *zap.Logger
	verifyDiff bool
	negative   *NegativeTests
}

// NewSession creates a session for t. With no options it matches strictly, logs
// nowhere and only returns the errors it detects.
func NewSession(t TestReporter, opts ...Option) *Session {
	session := &Session{
		t:          t,
		mode:       MatchStrict,
		logger:     zap.NewNop(),
		verifyDiff: true,
	}

	for _, opt := range opts {
		opt(session)
	}

	return session
}

// FailTestOnError reports every detected error to the session's TestReporter via Fatalf.
func FailTestOnError() Option {
	return func(s *Session) {
		s.handler = FailOnError(s.t)
	}
}

// WithErrorHandler registers the callback that receives every detected error.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(s *Session) {
		s.handler = handler
	}
}

// WithLogger sets the logger. Nil restores the no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger == nil {
			logger = zap.NewNop()
		}

		s.logger = logger
	}
}

// WithMatchMode sets how actual calls are paired with expectations.
func WithMatchMode(mode MatchMode) Option {
	return func(s *Session) {
		s.mode = mode
	}
}

// WithVerifyDiff toggles the unified diff in Verify failures.
func WithVerifyDiff(enabled bool) Option {
	return func(s *Session) {
		s.verifyDiff = enabled
	}
}

// ActualCalls renders the actual calls that matched no expectation.
func (s *Session) ActualCalls() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.recorder.ActualCalls()
}

// Call is the interception point for mocked operations. It matches the call against
// the expectations and resolves the value to hand back. A mismatch is reported to the
// error handler, returned, and answered with a zero Result.
func (s *Session) Call(identity string, args ...any) (Result, error) {
	s.mu.Lock()
	call, index, mismatch := s.recorder.Match(s.mode, ActualCall{Identity: identity, Args: slices.Clone(args)})
	result := Resolve(call)
	s.mu.Unlock()

	if mismatch != nil {
		s.report(mismatch)

		return result, mismatch
	}

	if result.Failed {
		s.logger.Debug("injecting failure",
			zap.String("identity", identity),
			zap.Int("index", index),
			zap.Bool("void", result.Void))
	} else {
		s.logger.Debug("call matched", zap.String("identity", identity), zap.Int("index", index))
	}

	return result, nil
}

// Expect declares an expected call whose args must match exactly, or through a Matcher
// where one is given.
func (s *Session) Expect(identity string, args ...any) *ExpectedCall {
	call := newExpectedCall(s, identity, args)

	s.mu.Lock()
	s.recorder.Record(call)
	count := s.recorder.Len()
	s.mu.Unlock()

	s.logger.Debug("expectation recorded", zap.String("call", call.String()), zap.Int("count", count))

	return call
}

// ExpectAnyArgs declares an expected call that accepts any arguments.
func (s *Session) ExpectAnyArgs(identity string) *ExpectedCall {
	return s.Expect(identity).IgnoreAllArgs()
}

// ExpectedCalls renders the expectations not yet consumed.
func (s *Session) ExpectedCalls() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.recorder.ExpectedCalls()
}

// Expectations returns read-only views of the live expected calls.
func (s *Session) Expectations() []CallState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.recorder.States()
}

// NegativeTests returns the session's negative-test controller.
func (s *Session) NegativeTests() *NegativeTests {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.negative == nil {
		s.negative = &NegativeTests{session: s}
	}

	return s.negative
}

// ResetAllCalls clears every expected and actual call. Snapshots are kept.
func (s *Session) ResetAllCalls() {
	s.mu.Lock()
	s.recorder.Reset()
	s.mu.Unlock()

	s.logger.Debug("all calls reset")
}

// Verify checks that every expectation was consumed and no unexpected call happened.
func (s *Session) Verify() error {
	s.mu.Lock()
	pending := s.recorder.pending()
	unmatched := s.recorder.unmatched()
	s.mu.Unlock()

	if len(pending) == 0 && len(unmatched) == 0 {
		return nil
	}

	kind := KindUnmatchedExpectation
	if len(pending) == 0 {
		kind = KindUnexpectedCall
	}

	detail := "expected calls: " + bracketed(pending) + ", actual calls: " + bracketed(unmatched)

	if s.verifyDiff {
		diff := textdiff.Unified("expected", "actual", lines(pending), lines(unmatched))
		if diff != "" {
			detail += "\n" + diff
		}
	}

	return s.fail(&Error{Kind: kind, Index: -1, Detail: detail})
}

func (s *Session) fail(err *Error) error {
	if err == nil {
		return nil
	}

	s.report(err)

	return err
}

func (s *Session) report(err *Error) {
	s.logger.Warn("mock error",
		zap.Stringer("kind", err.Kind),
		zap.String("identity", err.Identity),
		zap.Error(err))

	if s.handler != nil {
		s.handler(err)
	}
}

// TestReporter is the minimal interface negtest needs from test frameworks.
type TestReporter interface {
	Helper()
	Fatalf(format string, args ...any)
}

func lines(calls []string) string {
	if len(calls) == 0 {
		return ""
	}

	return strings.Join(calls, "\n") + "\n"
}
