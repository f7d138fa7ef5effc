package negativetests_test

import (
	"github.com/toejough/negtest"
	negativetests "github.com/toejough/negtest/UAT/negative-tests"
)

// Operation identities, as they appear in expectations and call reports.
const (
	function1           = "function_1"
	function2           = "function_2"
	function3VoidReturn = "function_3_void_return"
)

// MockDependencies routes every dependency call through a negtest session.
type MockDependencies struct {
	session *negtest.Session
}

func NewMockDependencies(session *negtest.Session) *MockDependencies {
	return &MockDependencies{session: session}
}

func (m *MockDependencies) Function1() int {
	return negtest.Returning[int](m.session, function1)
}

func (m *MockDependencies) Function2() int {
	return negtest.Returning[int](m.session, function2)
}

func (m *MockDependencies) Function3VoidReturn() {
	negtest.Void(m.session, function3VoidReturn)
}

// unexported variables.
var _ negativetests.Dependencies = (*MockDependencies)(nil)
