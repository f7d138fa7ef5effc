package core

import (
	"slices"
	"strings"
)

// CallRecorder owns the expectation sequence and the actual calls of one session.
// It is not safe for concurrent use; Session serializes access to it.
type CallRecorder struct {
	expected []*ExpectedCall
	actual   []ActualCall
}

// ActualCalls renders the actual calls that matched no expectation, in call order.
func (r *CallRecorder) ActualCalls() string {
	return bracketed(r.unmatched())
}

// Clone captures the recorder contents as a Snapshot.
func (r *CallRecorder) Clone() Snapshot {
	snap := Snapshot{
		expected: make([]*ExpectedCall, len(r.expected)),
		actual:   make([]ActualCall, len(r.actual)),
	}

	for i, call := range r.expected {
		snap.expected[i] = call.clone()
	}

	for i, call := range r.actual {
		snap.actual[i] = ActualCall{Identity: call.Identity, Args: slices.Clone(call.Args), Matched: call.Matched}
	}

	return snap
}

// ExpectedCalls renders the expectations not yet consumed, in declaration order.
func (r *CallRecorder) ExpectedCalls() string {
	return bracketed(r.pending())
}

// Len returns the number of expected calls.
func (r *CallRecorder) Len() int {
	return len(r.expected)
}

// Record appends an expected call to the sequence.
func (r *CallRecorder) Record(call *ExpectedCall) {
	r.expected = append(r.expected, call)
}

// RecordActual appends an observed call.
func (r *CallRecorder) RecordActual(call ActualCall) {
	r.actual = append(r.actual, call)
}

// Reset clears all expected and actual calls.
func (r *CallRecorder) Reset() {
	r.expected = nil
	r.actual = nil
}

// Restore replaces the recorder contents wholesale with a fresh copy of snap.
func (r *CallRecorder) Restore(snap Snapshot) {
	restored := snap.copy()
	r.expected = restored.expected
	r.actual = restored.actual
}

func (r *CallRecorder) pending() []string {
	var calls []string

	for _, call := range r.expected {
		if !call.consumed {
			calls = append(calls, call.String())
		}
	}

	return calls
}

func (r *CallRecorder) unmatched() []string {
	var calls []string

	for _, call := range r.actual {
		if !call.Matched {
			calls = append(calls, call.String())
		}
	}

	return calls
}

// States returns read-only views of the expected calls in declaration order.
func (r *CallRecorder) States() []CallState {
	states := make([]CallState, len(r.expected))

	for i, call := range r.expected {
		states[i] = call.state()
	}

	return states
}

// Snapshot is an immutable copy of a recorder's expected and actual calls.
type Snapshot struct {
	expected []*ExpectedCall
	actual   []ActualCall
}

// Calls returns read-only views of the snapshotted expected calls.
func (s Snapshot) Calls() []CallState {
	states := make([]CallState, len(s.expected))

	for i, call := range s.expected {
		states[i] = call.state()
	}

	return states
}

// Len returns the number of snapshotted expected calls.
func (s Snapshot) Len() int {
	return len(s.expected)
}

func (s Snapshot) copy() Snapshot {
	recorder := CallRecorder{expected: s.expected, actual: s.actual}

	return recorder.Clone()
}

func bracketed(calls []string) string {
	var b strings.Builder

	for _, call := range calls {
		b.WriteString("[" + call + "]")
	}

	return b.String()
}
