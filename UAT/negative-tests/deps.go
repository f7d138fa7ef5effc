// Package negativetests holds small functions under test whose only job is to call
// their dependencies and turn a nonzero dependency result into a nonzero result of
// their own.
package negativetests

// Result codes. Zero means every dependency succeeded.
const (
	Succeeded       = 0
	Function1Failed = 1
	Function2Failed = 2
)

// Dependencies are the operations the functions under test call.
type Dependencies interface {
	Function1() int
	Function2() int
	Function3VoidReturn()
}

// FunctionUnderTest1Call calls Function1 once.
func FunctionUnderTest1Call(deps Dependencies) int {
	if deps.Function1() != 0 {
		return Function1Failed
	}

	return Succeeded
}

// FunctionUnderTest1CallDepVoidReturn calls Function3VoidReturn once. There is no
// result to check, so it always succeeds.
func FunctionUnderTest1CallDepVoidReturn(deps Dependencies) int {
	deps.Function3VoidReturn()

	return Succeeded
}

// FunctionUnderTest2Calls calls Function1 then Function2, stopping at the first
// failure.
func FunctionUnderTest2Calls(deps Dependencies) int {
	if deps.Function1() != 0 {
		return Function1Failed
	}

	if deps.Function2() != 0 {
		return Function2Failed
	}

	return Succeeded
}
