package run_test

import (
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/toejough/negtest"
	"github.com/toejough/negtest/UAT/run"
	. "github.com/toejough/negtest/match"
)

var errOverflow = errors.New("overflow")

func Test_PrintSum_HappyPath(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	session := negtest.NewSession(t, negtest.FailTestOnError())
	deps := NewMockIntOps(session)

	session.Expect("Add", 10, 32).Returns(42, nil)
	session.Expect("Format", 42).Returns("42", nil)
	session.Expect("Print", "42")

	g.Expect(run.PrintSum(10, 32, deps)).To(Equal("42"))
	g.Expect(session.Verify()).To(Succeed())
}

// Test_PrintSum_EachFailure fails Add, then Format, then Print, and checks what
// PrintSum reports in each case.
func Test_PrintSum_EachFailure(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	session := negtest.NewSession(t, negtest.WithErrorHandler(negtest.IgnoreErrors))
	negative := session.NegativeTests()
	deps := NewMockIntOps(session)

	g.Expect(negative.Init()).To(Succeed())
	t.Cleanup(negative.Deinit)

	session.Expect("Add", 10, 32).Returns(42, nil).FailsWith(0, errOverflow)
	session.Expect("Format", 42).Returns("42", nil).FailsWith("", errOverflow)
	session.Expect("Print", "42")
	g.Expect(negative.Snapshot()).To(Succeed())

	expected := []error{run.ErrAdd, run.ErrFormat, nil}
	g.Expect(negative.CallCount()).To(Equal(len(expected)))

	for i := range negative.CallCount() {
		g.Expect(negative.Reset()).To(Succeed())
		g.Expect(negative.FailCall(i)).To(Succeed())

		formatted, err := run.PrintSum(10, 32, deps)

		if expected[i] == nil {
			g.Expect(negative.CanCallFail(i)).To(BeFalse())
			g.Expect(err).NotTo(HaveOccurred(), "On failed call %d", i+1)
			g.Expect(formatted).To(Equal("42"))

			continue
		}

		g.Expect(err).To(MatchError(expected[i]), "On failed call %d", i+1)
		g.Expect(err).To(MatchError(errOverflow), "On failed call %d", i+1)
		g.Expect(formatted).To(BeEmpty())
		g.Expect(session.ExpectedCalls()).NotTo(ContainSubstring("Add"))
	}
}

// Test_PrintSum_CapturesFormattedValue checks Print receives what Format returned,
// whatever the sum was.
func Test_PrintSum_CapturesFormattedValue(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	session := negtest.NewSession(t, negtest.FailTestOnError())
	deps := NewMockIntOps(session)

	var printed string

	session.Expect("Add", BeAny, BeAny).Returns(-3, nil)
	session.Expect("Format", BeNumerically("<", 0)).Returns("minus three", nil)
	session.Expect("Print", Capture(&printed))

	_, err := run.PrintSum(-1, -2, deps)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(printed).To(Equal("minus three"))
	g.Expect(session.Verify()).To(Succeed())
}
