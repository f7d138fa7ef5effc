// Package match provides argument matchers for negtest expectations.
// It is designed to be dot-imported alongside gomega matchers, which negtest accepts
// through the same Match/FailureMessage duck typing:
//
//	import (
//	    . "github.com/onsi/gomega"
//	    . "github.com/toejough/negtest/match"
//	)
//
//	session.Expect("Store", BeAny, BeNumerically(">", 0)).Returns(nil).FailsWith(errFull)
package match

import (
	"errors"
	"fmt"
)

// Matcher defines the interface for flexible value matching.
// Compatible with gomega.GomegaMatcher via duck typing.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// BeAny is a matcher that matches any value.
//
//nolint:gochecknoglobals // Intentional exported constant-like value
var BeAny Matcher = anyMatcher{}

// Capture returns a matcher that accepts any value of type T and stores it in target,
// so the test can inspect what the code under test passed.
func Capture[T any](target *T) Matcher {
	return &captureMatcher[T]{target: target}
}

// IsNot inverts a matcher.
func IsNot(matcher Matcher) Matcher {
	return notMatcher{inner: matcher}
}

// Satisfies returns a matcher that uses a predicate function to check for a match.
// The predicate should return nil if the value matches, or an error describing
// the mismatch if it does not.
//
// Example:
//
//	session.Expect("Write", Satisfies(func(p []byte) error {
//	    if len(p) == 0 { return errors.New("empty write") }
//	    return nil
//	}))
func Satisfies[T any](predicate func(T) error) Matcher {
	return &satisfyMatcher[T]{predicate: predicate}
}

// unexported variables.
var errTypeMismatch = errors.New("type mismatch")

type anyMatcher struct{}

func (anyMatcher) FailureMessage(any) string {
	return ""
}

func (anyMatcher) Match(any) (bool, error) {
	return true, nil
}

type captureMatcher[T any] struct {
	target *T
}

func (m *captureMatcher[T]) FailureMessage(actual any) string {
	return fmt.Sprintf("cannot capture %T as %T", actual, *new(T))
}

func (m *captureMatcher[T]) Match(actual any) (bool, error) {
	if actual == nil {
		var zero T

		*m.target = zero

		return true, nil
	}

	val, ok := actual.(T)
	if !ok {
		return false, fmt.Errorf("%w: expected %T, got %T", errTypeMismatch, *new(T), actual)
	}

	*m.target = val

	return true, nil
}

type notMatcher struct {
	inner Matcher
}

func (m notMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("expected %#v not to match", actual)
}

func (m notMatcher) Match(actual any) (bool, error) {
	ok, err := m.inner.Match(actual)
	if err != nil {
		return false, err
	}

	return !ok, nil
}

type satisfyMatcher[T any] struct {
	predicate func(T) error
	lastErr   error
}

func (m *satisfyMatcher[T]) FailureMessage(actual any) string {
	if m.lastErr != nil {
		return fmt.Sprintf("value %v does not satisfy predicate: %v", actual, m.lastErr)
	}

	return fmt.Sprintf("value %v does not satisfy predicate", actual)
}

func (m *satisfyMatcher[T]) Match(actual any) (bool, error) {
	val, ok := actual.(T)
	if !ok {
		return false, fmt.Errorf("%w: expected %T, got %T", errTypeMismatch, *new(T), actual)
	}

	m.lastErr = m.predicate(val)

	return m.lastErr == nil, nil
}
