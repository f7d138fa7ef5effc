package core

import (
	"fmt"
	"strings"
)

// MatchMode selects how actual calls are paired with expectations.
type MatchMode int

// Match modes.
const (
	// MatchStrict pairs a call with the first unconsumed expectation of the same
	// identity. Its args must match, or the call is an argument mismatch.
	MatchStrict MatchMode = iota
	// MatchOrdered additionally requires that expectation to be the first unconsumed
	// one overall. Anything else is an unexpected call.
	MatchOrdered
	// MatchAnyOrder pairs a call with the first unconsumed expectation whose identity
	// and args both match.
	MatchAnyOrder
)

// ParseMatchMode parses the names produced by MatchMode.String.
func ParseMatchMode(name string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "strict":
		return MatchStrict, nil
	case "ordered":
		return MatchOrdered, nil
	case "any_order", "any-order", "anyorder":
		return MatchAnyOrder, nil
	default:
		return MatchStrict, fmt.Errorf("%w: %q", errUnknownMatchMode, name)
	}
}

func (m MatchMode) String() string {
	switch m {
	case MatchStrict:
		return "strict"
	case MatchOrdered:
		return "ordered"
	case MatchAnyOrder:
		return "any_order"
	default:
		return fmt.Sprintf("MatchMode(%d)", int(m))
	}
}

// Match pairs actual with an unconsumed expectation according to mode. On success the
// expectation is marked consumed and returned with its declaration index. Either way
// the actual call is recorded, so mismatches show up in ActualCalls and Verify.
func (r *CallRecorder) Match(mode MatchMode, actual ActualCall) (*ExpectedCall, int, *Error) {
	var (
		index    int
		mismatch *Error
	)

	switch mode {
	case MatchOrdered:
		index, mismatch = r.matchOrdered(actual)
	case MatchAnyOrder:
		index, mismatch = r.matchAnyOrder(actual)
	default:
		index, mismatch = r.matchStrict(actual)
	}

	if mismatch != nil {
		actual.Matched = false
		r.RecordActual(actual)

		return nil, -1, mismatch
	}

	call := r.expected[index]
	call.consumed = true
	actual.Matched = true
	r.RecordActual(actual)

	return call, index, nil
}

func (r *CallRecorder) firstUnconsumed(accept func(*ExpectedCall) bool) int {
	for i, call := range r.expected {
		if !call.consumed && accept(call) {
			return i
		}
	}

	return -1
}

func (r *CallRecorder) matchAnyOrder(actual ActualCall) (int, *Error) {
	sameIdentity := false

	index := r.firstUnconsumed(func(call *ExpectedCall) bool {
		if call.identity != actual.Identity {
			return false
		}

		sameIdentity = true

		return call.matchArgs(actual.Args) == ""
	})
	if index >= 0 {
		return index, nil
	}

	if sameIdentity {
		return -1, newError(KindArgumentMismatch, actual.Identity, -1,
			"no unconsumed expectation matches %s", actual)
	}

	return -1, r.unexpected(actual)
}

func (r *CallRecorder) matchOrdered(actual ActualCall) (int, *Error) {
	index := r.firstUnconsumed(func(*ExpectedCall) bool { return true })
	if index < 0 || r.expected[index].identity != actual.Identity {
		return -1, r.unexpected(actual)
	}

	if msg := r.expected[index].matchArgs(actual.Args); msg != "" {
		return -1, newError(KindArgumentMismatch, actual.Identity, index, "%s", msg)
	}

	return index, nil
}

func (r *CallRecorder) matchStrict(actual ActualCall) (int, *Error) {
	index := r.firstUnconsumed(func(call *ExpectedCall) bool {
		return call.identity == actual.Identity
	})
	if index < 0 {
		return -1, r.unexpected(actual)
	}

	if msg := r.expected[index].matchArgs(actual.Args); msg != "" {
		return -1, newError(KindArgumentMismatch, actual.Identity, index, "%s", msg)
	}

	return index, nil
}

func (r *CallRecorder) unexpected(actual ActualCall) *Error {
	next := r.firstUnconsumed(func(*ExpectedCall) bool { return true })
	if next < 0 {
		return newError(KindUnexpectedCall, actual.Identity, -1,
			"%s, no expectations remain", actual)
	}

	return newError(KindUnexpectedCall, actual.Identity, -1,
		"%s, next expected %s", actual, r.expected[next])
}
