package core_test

import (
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/toejough/negtest/internal/core"
)

type endpoint struct {
	Host string
	Port int
}

func TestMatchValue_DeepEqual(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	ok, msg := core.MatchValue([]int{1, 2}, []int{1, 2})
	g.Expect(ok).To(BeTrue())
	g.Expect(msg).To(BeEmpty())

	ok, msg = core.MatchValue(3, 4)
	g.Expect(ok).To(BeFalse())
	g.Expect(msg).To(Equal("expected 4, got 3"))
}

func TestMatchValue_CompositeMismatchCarriesDiff(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	ok, msg := core.MatchValue(endpoint{Host: "db", Port: 5433}, endpoint{Host: "db", Port: 5432})
	g.Expect(ok).To(BeFalse())
	g.Expect(msg).To(ContainSubstring("(-expected +actual)"))
	g.Expect(msg).To(ContainSubstring("5432"))
	g.Expect(msg).To(ContainSubstring("5433"))
}

func TestMatchValue_GomegaMatcher(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	ok, msg := core.MatchValue("hello world", ContainSubstring("world"))
	g.Expect(ok).To(BeTrue())
	g.Expect(msg).To(BeEmpty())

	ok, msg = core.MatchValue("hello", ContainSubstring("world"))
	g.Expect(ok).To(BeFalse())
	g.Expect(msg).To(ContainSubstring("to contain substring"))
}

func TestMatchValue_MatcherError(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	ok, msg := core.MatchValue(3, erroringMatcher{})
	g.Expect(ok).To(BeFalse())
	g.Expect(msg).To(Equal("cannot compare"))
}

func TestMatchValue_MatcherWithoutMessage(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	ok, msg := core.MatchValue(3, silentMatcher{})
	g.Expect(ok).To(BeFalse())
	g.Expect(msg).To(Equal("matcher failed for value 3"))
}

type erroringMatcher struct{}

func (erroringMatcher) FailureMessage(any) string { return "" }

func (erroringMatcher) Match(any) (bool, error) { return false, errors.New("cannot compare") }

type silentMatcher struct{}

func (silentMatcher) FailureMessage(any) string { return "" }

func (silentMatcher) Match(any) (bool, error) { return false, nil }
