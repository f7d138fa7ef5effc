package core_test

import (
	"fmt"
	"sync"

	"github.com/toejough/negtest/internal/core"
)

// errorLog collects reported errors in order.
type errorLog struct {
	mu     sync.Mutex
	errors []*core.Error
}

func (l *errorLog) handle(err *core.Error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.errors = append(l.errors, err)
}

func (l *errorLog) kinds() []core.ErrorKind {
	l.mu.Lock()
	defer l.mu.Unlock()

	kinds := make([]core.ErrorKind, len(l.errors))
	for i, err := range l.errors {
		kinds[i] = err.Kind
	}

	return kinds
}

// mockTester is a TestReporter that records Fatalf instead of stopping the test.
type mockTester struct {
	mu      sync.Mutex
	helpers int
	fatals  []string
}

func (m *mockTester) Fatalf(format string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.fatals = append(m.fatals, fmt.Sprintf(format, args...))
}

func (m *mockTester) Helper() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.helpers++
}

func (m *mockTester) messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.fatals...)
}

// newLoggedSession returns a session whose reported errors land in the returned log.
func newLoggedSession(opts ...core.Option) (*core.Session, *errorLog) {
	log := &errorLog{}
	opts = append([]core.Option{core.WithErrorHandler(log.handle)}, opts...)

	return core.NewSession(&mockTester{}, opts...), log
}
