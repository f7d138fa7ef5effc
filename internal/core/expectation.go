package core

import (
	"fmt"
	"slices"
	"strings"
)

// ActualCall is a call observed by the session when code under test invokes a mocked
// operation.
type ActualCall struct {
	Identity string
	Args     []any
	Matched  bool
}

// String renders the call as identity(arg,arg).
func (c ActualCall) String() string {
	return formatCall(c.Identity, c.Args, nil)
}

// CallState is a read-only view of one expected call.
type CallState struct {
	Identity string
	Args     []any
	Void     bool
	CanFail  bool
	Consumed bool
	Failing  bool
}

// ExpectedCall is a declared expectation. The handle returned from Session.Expect is a
// builder: configure it during test setup, before any snapshot is taken. Restoring a
// snapshot replaces the live sequence, so later edits through an old handle have no
// effect on the restored calls.
type ExpectedCall struct {
	session *Session

	identity    string
	args        []any
	ignored     []bool
	ignoreAll   bool
	returns     []any
	failReturns []any
	hasFailure  bool
	cannotFail  bool

	consumed bool
	failing  bool
}

// CannotFail excludes the call from failure injection: CanCallFail reports false for it
// and FailCall resolves it to its normal return values.
func (ec *ExpectedCall) CannotFail() *ExpectedCall {
	ec.edit(func() { ec.cannotFail = true })

	return ec
}

// FailsWith sets the values returned when this call is the one being failed.
func (ec *ExpectedCall) FailsWith(values ...any) *ExpectedCall {
	ec.edit(func() {
		ec.failReturns = slices.Clone(values)
		ec.hasFailure = true
	})

	return ec
}

// IgnoreAllArgs turns every argument into a wildcard.
func (ec *ExpectedCall) IgnoreAllArgs() *ExpectedCall {
	ec.edit(func() {
		ec.ignoreAll = true

		for i := range ec.ignored {
			ec.ignored[i] = true
		}
	})

	return ec
}

// IgnoreArg turns the 0-based argument index into a wildcard.
func (ec *ExpectedCall) IgnoreArg(index int) *ExpectedCall {
	var rangeErr *Error

	ec.edit(func() {
		if index < 0 || index >= len(ec.ignored) {
			rangeErr = newError(KindRange, ec.identity, -1,
				"argument index %d out of range, call has %d args", index, len(ec.ignored))

			return
		}

		ec.ignored[index] = true
	})

	if rangeErr != nil && ec.session != nil {
		ec.session.report(rangeErr)
	}

	return ec
}

// Returns sets the values returned on the happy path.
func (ec *ExpectedCall) Returns(values ...any) *ExpectedCall {
	ec.edit(func() { ec.returns = slices.Clone(values) })

	return ec
}

// String renders the call as identity(arg,arg), with ignored args shown as "*".
func (ec *ExpectedCall) String() string {
	if ec.ignoreAll && len(ec.args) == 0 {
		return ec.identity + "(...)"
	}

	return formatCall(ec.identity, ec.args, ec.ignored)
}

func (ec *ExpectedCall) canFail() bool {
	return !ec.isVoid() && ec.hasFailure && !ec.cannotFail
}

// clone returns a detached deep copy. The failing flag is never carried over: a copy
// always starts with nothing failing.
func (ec *ExpectedCall) clone() *ExpectedCall {
	return &ExpectedCall{
		identity:    ec.identity,
		args:        slices.Clone(ec.args),
		ignored:     slices.Clone(ec.ignored),
		ignoreAll:   ec.ignoreAll,
		returns:     slices.Clone(ec.returns),
		failReturns: slices.Clone(ec.failReturns),
		hasFailure:  ec.hasFailure,
		cannotFail:  ec.cannotFail,
		consumed:    ec.consumed,
	}
}

func (ec *ExpectedCall) edit(fn func()) {
	if ec.session == nil {
		fn()

		return
	}

	ec.session.mu.Lock()
	defer ec.session.mu.Unlock()

	fn()
}

func (ec *ExpectedCall) isVoid() bool {
	return len(ec.returns) == 0 && !ec.hasFailure
}

// matchArgs compares actual args against the expectation. Returns "" on a match, or a
// description of the first mismatch.
func (ec *ExpectedCall) matchArgs(actual []any) string {
	if ec.ignoreAll {
		return ""
	}

	if len(actual) != len(ec.args) {
		return fmt.Sprintf("expected %d args, got %d", len(ec.args), len(actual))
	}

	for i, expected := range ec.args {
		if ec.ignored[i] {
			continue
		}

		ok, msg := MatchValue(actual[i], expected)
		if !ok {
			return fmt.Sprintf("arg %d: %s", i, msg)
		}
	}

	return ""
}

func (ec *ExpectedCall) state() CallState {
	return CallState{
		Identity: ec.identity,
		Args:     slices.Clone(ec.args),
		Void:     ec.isVoid(),
		CanFail:  ec.canFail(),
		Consumed: ec.consumed,
		Failing:  ec.failing,
	}
}

func formatArg(arg any) string {
	if m, ok := arg.(Matcher); ok {
		return fmt.Sprintf("<%T>", m)
	}

	return fmt.Sprintf("%#v", arg)
}

func formatCall(identity string, args []any, ignored []bool) string {
	rendered := make([]string, len(args))

	for i, arg := range args {
		if i < len(ignored) && ignored[i] {
			rendered[i] = "*"

			continue
		}

		rendered[i] = formatArg(arg)
	}

	return identity + "(" + strings.Join(rendered, ",") + ")"
}

func newExpectedCall(session *Session, identity string, args []any) *ExpectedCall {
	return &ExpectedCall{
		session:  session,
		identity: identity,
		args:     slices.Clone(args),
		ignored:  make([]bool, len(args)),
	}
}
