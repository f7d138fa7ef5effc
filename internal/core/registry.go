package core

import (
	"sync"
)

// SessionFor returns the Session for the given test, creating one if needed.
// Multiple calls with the same TestReporter return the same Session, so stubs and the
// test body can find the same expectations without passing the session around.
// Options only apply when the session is created.
//
// If the TestReporter supports Cleanup (like *testing.T), the session's controller is
// deinitialized, its calls are reset, and it is removed from the registry when the
// test completes.
func SessionFor(t TestReporter, opts ...Option) *Session {
	registryMu.Lock()
	defer registryMu.Unlock()

	if session, ok := registry[t]; ok {
		return session
	}

	session := NewSession(t, opts...)
	registry[t] = session

	if cr, ok := t.(cleanupRegistrar); ok {
		cr.Cleanup(func() {
			session.NegativeTests().Deinit()
			session.ResetAllCalls()

			registryMu.Lock()
			delete(registry, t)
			registryMu.Unlock()
		})
	}

	return session
}

// Serialize holds a process-wide lock until the returned release func is called or,
// if t supports Cleanup, until the test completes. Tests whose stubs share package
// level state use it so their declare/act/verify phases never interleave.
// Releasing more than once is harmless.
func Serialize(t TestReporter) (release func()) {
	serialMu.Lock()

	var once sync.Once

	release = func() {
		once.Do(serialMu.Unlock)
	}

	if cr, ok := t.(cleanupRegistrar); ok {
		cr.Cleanup(release)
	}

	return release
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Package-level registry is intentional for test coordination
	registry = make(map[TestReporter]*Session)
	//nolint:gochecknoglobals // Mutex for registry
	registryMu sync.Mutex
	//nolint:gochecknoglobals // Process-wide lock behind Serialize
	serialMu sync.Mutex
)

// cleanupRegistrar is the interface needed for registering cleanup functions.
// This is satisfied by *testing.T and *testing.B.
type cleanupRegistrar interface {
	Cleanup(cleanupFunc func())
}
