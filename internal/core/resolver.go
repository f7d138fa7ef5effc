package core

import "slices"

// Result is what a mocked operation hands back to its caller.
type Result struct {
	// Values are the return values to use. Nil means zero values.
	Values []any
	// Failed is set when the matched expectation was the one being failed. For void
	// calls it is the only signal that an error path is being simulated.
	Failed bool
	// Void is set when the expectation configured no return values.
	Void bool
	// Matched is false when the call matched no expectation.
	Matched bool
}

// Value returns the i-th return value, or nil if there is none.
func (r Result) Value(i int) any {
	if i < 0 || i >= len(r.Values) {
		return nil
	}

	return r.Values[i]
}

// Resolve decides what a matched expectation returns: its failure values when it is
// the call being failed, its normal values otherwise. Calls marked CannotFail always
// resolve normally.
func Resolve(call *ExpectedCall) Result {
	if call == nil {
		return Result{}
	}

	failed := call.failing && !call.cannotFail

	result := Result{
		Failed:  failed,
		Void:    call.isVoid(),
		Matched: true,
	}

	switch {
	case result.Void:
	case failed:
		result.Values = slices.Clone(call.failReturns)
	default:
		result.Values = slices.Clone(call.returns)
	}

	return result
}
