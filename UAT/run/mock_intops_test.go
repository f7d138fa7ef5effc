package run_test

import (
	"github.com/toejough/negtest"
	"github.com/toejough/negtest/UAT/run"
)

type MockIntOps struct {
	session *negtest.Session
}

func NewMockIntOps(session *negtest.Session) *MockIntOps {
	return &MockIntOps{session: session}
}

func (m *MockIntOps) Add(a, b int) (int, error) {
	return negtest.Returning2[int, error](m.session, "Add", a, b)
}

func (m *MockIntOps) Format(i int) (string, error) {
	return negtest.Returning2[string, error](m.session, "Format", i)
}

func (m *MockIntOps) Print(s string) {
	negtest.Void(m.session, "Print", s)
}

var _ run.IntOps = (*MockIntOps)(nil)
