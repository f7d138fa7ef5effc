package core

import (
	"fmt"

	"go.uber.org/zap"
)

// ControllerState is the lifecycle state of a NegativeTests controller.
type ControllerState int

// Controller states.
const (
	StateUninitialized ControllerState = iota
	StateReady
	StateSnapshotTaken
	StateIterating
	StateDeinitialized
)

func (s ControllerState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateSnapshotTaken:
		return "snapshot taken"
	case StateIterating:
		return "iterating"
	case StateDeinitialized:
		return "deinitialized"
	default:
		return fmt.Sprintf("ControllerState(%d)", int(s))
	}
}

// NegativeTests replays a snapshotted happy path, failing one expected call per
// iteration:
//
//	nt := session.NegativeTests()
//	nt.Init()
//	defer nt.Deinit()
//	// declare the happy path on session
//	nt.Snapshot()
//	for i := range nt.CallCount() {
//	    nt.Reset()
//	    nt.FailCall(i)
//	    // act, then assert the error path
//	}
//
// It shares the session's lock and reports through the session's error handler.
type NegativeTests struct {
	session   *Session
	state     ControllerState
	snapshots []Snapshot
}

// CallCount returns the number of expected calls in the most recent snapshot, or 0
// (with a StateError reported) when there is none.
func (n *NegativeTests) CallCount() int {
	n.session.mu.Lock()
	snap, err := n.current("call count")
	n.session.mu.Unlock()

	if err != nil {
		n.session.report(err)

		return 0
	}

	return snap.Len()
}

// CanCallFail reports whether failing call index changes what it returns. Void calls,
// calls marked CannotFail and calls without a failure value cannot fail.
func (n *NegativeTests) CanCallFail(index int) (bool, error) {
	n.session.mu.Lock()
	canFail, err := n.canCallFail(index)
	n.session.mu.Unlock()

	return canFail, n.session.fail(err)
}

// Deinit releases all snapshots and clears any injected failure. Safe to call in any
// state.
func (n *NegativeTests) Deinit() {
	n.session.mu.Lock()
	defer n.session.mu.Unlock()

	n.snapshots = nil

	for _, call := range n.session.recorder.expected {
		call.failing = false
	}

	if n.state != StateUninitialized {
		n.state = StateDeinitialized
	}
}

// DropSnapshot discards the most recent snapshot, returning to the previous one.
func (n *NegativeTests) DropSnapshot() error {
	n.session.mu.Lock()
	err := n.dropSnapshot()
	n.session.mu.Unlock()

	return n.session.fail(err)
}

// FailCall marks the index-th call of the most recent snapshot as failing in the live
// sequence. Any previously failing call is cleared first.
func (n *NegativeTests) FailCall(index int) error {
	n.session.mu.Lock()
	identity, err := n.failCall(index)
	n.session.mu.Unlock()

	if err != nil {
		return n.session.fail(err)
	}

	n.session.logger.Debug("failing call", zap.String("identity", identity), zap.Int("index", index))

	return nil
}

// Init prepares the controller. Calling it twice without Deinit is an InitError.
func (n *NegativeTests) Init() error {
	n.session.mu.Lock()
	err := n.init()
	n.session.mu.Unlock()

	return n.session.fail(err)
}

// Reset restores the session's expected and actual calls to the most recent
// snapshot, with nothing consumed beyond what was consumed then and nothing failing.
func (n *NegativeTests) Reset() error {
	n.session.mu.Lock()
	snap, err := n.current("reset")

	if err == nil {
		n.session.recorder.Restore(snap)
		n.state = StateSnapshotTaken
	}
	n.session.mu.Unlock()

	return n.session.fail(err)
}

// Snapshot captures the session's current calls as the happy path.
func (n *NegativeTests) Snapshot() error {
	n.session.mu.Lock()
	count, err := n.snapshot()
	n.session.mu.Unlock()

	if err != nil {
		return n.session.fail(err)
	}

	n.session.logger.Debug("snapshot taken", zap.Int("calls", count))

	return nil
}

// State returns the controller's lifecycle state.
func (n *NegativeTests) State() ControllerState {
	n.session.mu.Lock()
	defer n.session.mu.Unlock()

	return n.state
}

func (n *NegativeTests) canCallFail(index int) (bool, *Error) {
	snap, err := n.current("can call fail")
	if err != nil {
		return false, err
	}

	if index < 0 || index >= snap.Len() {
		return false, newError(KindRange, "", index, "index %d outside [0, %d)", index, snap.Len())
	}

	return snap.expected[index].canFail(), nil
}

// current returns the most recent snapshot. Must be called with the session lock held.
func (n *NegativeTests) current(operation string) (Snapshot, *Error) {
	if !n.initialized() {
		return Snapshot{}, newError(KindState, "", -1, "%s while %s", operation, n.state)
	}

	if len(n.snapshots) == 0 {
		return Snapshot{}, newError(KindState, "", -1, "%s before snapshot", operation)
	}

	return n.snapshots[len(n.snapshots)-1], nil
}

func (n *NegativeTests) dropSnapshot() *Error {
	if _, err := n.current("drop snapshot"); err != nil {
		return err
	}

	n.snapshots = n.snapshots[:len(n.snapshots)-1]

	if len(n.snapshots) == 0 {
		n.state = StateReady
	}

	return nil
}

func (n *NegativeTests) failCall(index int) (string, *Error) {
	snap, err := n.current("fail call")
	if err != nil {
		return "", err
	}

	if index < 0 || index >= snap.Len() {
		return "", newError(KindRange, "", index, "index %d outside [0, %d)", index, snap.Len())
	}

	live := n.session.recorder.expected
	if index >= len(live) {
		return "", newError(KindState, "", index,
			"live sequence has %d calls, reset before failing a call", len(live))
	}

	for _, call := range live {
		call.failing = false
	}

	live[index].failing = true
	n.state = StateIterating

	return live[index].identity, nil
}

func (n *NegativeTests) init() *Error {
	if n.initialized() {
		return newError(KindInit, "", -1, "already initialized")
	}

	n.state = StateReady
	n.snapshots = nil

	return nil
}

func (n *NegativeTests) initialized() bool {
	return n.state != StateUninitialized && n.state != StateDeinitialized
}

func (n *NegativeTests) snapshot() (int, *Error) {
	if !n.initialized() {
		return 0, newError(KindState, "", -1, "snapshot while %s", n.state)
	}

	snap := n.session.recorder.Clone()
	n.snapshots = append(n.snapshots, snap)
	n.state = StateSnapshotTaken

	return snap.Len(), nil
}
