package core_test

import (
	"testing"

	. "github.com/onsi/gomega"
	"github.com/toejough/negtest/internal/core"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestVerify_CleanSession(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	session, log := newLoggedSession()
	session.Expect("function_1").Returns(0)
	core.Returning[int](session, "function_1")

	g.Expect(session.Verify()).To(Succeed())
	g.Expect(log.kinds()).To(BeEmpty())
}

func TestVerify_ReportsUnconsumedExpectationsWithDiff(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	session, log := newLoggedSession()
	session.Expect("function_1").Returns(0)
	session.Expect("function_2").Returns(0)
	core.Returning[int](session, "function_1")
	core.Returning[int](session, "function_9")

	err := session.Verify()
	g.Expect(err).To(MatchError(core.ErrUnmatchedExpectation))
	g.Expect(err.Error()).To(ContainSubstring("expected calls: [function_2()], actual calls: [function_9()]"))
	g.Expect(err.Error()).To(ContainSubstring("-function_2()"))
	g.Expect(err.Error()).To(ContainSubstring("+function_9()"))
	g.Expect(log.kinds()).To(HaveExactElements(core.KindUnexpectedCall, core.KindUnmatchedExpectation))
}

func TestVerify_OnlyUnexpectedCallsIsUnexpectedCallError(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	session, _ := newLoggedSession(core.WithVerifyDiff(false))
	core.Void(session, "function_3_void_return")

	err := session.Verify()
	g.Expect(err).To(MatchError(core.ErrUnexpectedCall))
	g.Expect(err.Error()).NotTo(ContainSubstring("+function_3_void_return()"))
}

func TestResetAllCalls_ClearsExpectedAndActual(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	session, _ := newLoggedSession()
	session.Expect("function_1").Returns(0)
	core.Void(session, "stray")

	session.ResetAllCalls()

	g.Expect(session.Expectations()).To(BeEmpty())
	g.Expect(session.ActualCalls()).To(BeEmpty())
	g.Expect(session.Verify()).To(Succeed())
}

func TestFailTestOnError_FailsTheTest(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	tester := &mockTester{}
	session := core.NewSession(tester, core.FailTestOnError())

	core.Void(session, "function_1")

	g.Expect(tester.messages()).To(HaveLen(1))
	g.Expect(tester.messages()[0]).To(HavePrefix("UnexpectedCallError: unexpected call"))
}

func TestSession_LogsFailureInjection(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	observed, logs := observer.New(zapcore.DebugLevel)
	session := core.NewSession(&mockTester{}, core.WithLogger(zap.New(observed)))
	negative := session.NegativeTests()

	session.Expect("function_1").Returns(0).FailsWith(1)
	g.Expect(negative.Init()).To(Succeed())
	g.Expect(negative.Snapshot()).To(Succeed())
	g.Expect(negative.Reset()).To(Succeed())
	g.Expect(negative.FailCall(0)).To(Succeed())
	g.Expect(core.Returning[int](session, "function_1")).To(Equal(1))

	g.Expect(logs.FilterMessage("expectation recorded").Len()).To(Equal(1))
	g.Expect(logs.FilterMessage("snapshot taken").Len()).To(Equal(1))
	g.Expect(logs.FilterMessage("failing call").Len()).To(Equal(1))

	injected := logs.FilterMessage("injecting failure").All()
	g.Expect(injected).To(HaveLen(1))
	g.Expect(injected[0].ContextMap()).To(HaveKeyWithValue("identity", "function_1"))
}

func TestSession_LogsReportedErrorsAtWarn(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	observed, logs := observer.New(zapcore.WarnLevel)
	session := core.NewSession(&mockTester{}, core.WithLogger(zap.New(observed)))

	core.Void(session, "function_1")

	warned := logs.FilterMessage("mock error").All()
	g.Expect(warned).To(HaveLen(1))
	g.Expect(warned[0].ContextMap()).To(HaveKeyWithValue("kind", "UnexpectedCallError"))
}

func TestWithLogger_NilFallsBackToNop(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	session := core.NewSession(&mockTester{}, core.WithLogger(nil))

	g.Expect(func() { core.Void(session, "function_1") }).NotTo(Panic())
}

func TestReturning_WrongTypePanics(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	session, _ := newLoggedSession()
	session.Expect("function_1").Returns("zero")

	g.Expect(func() { core.Returning[int](session, "function_1") }).To(
		PanicWith(ContainSubstring("function_1 return value 0 is string, not int")))
}

func TestReturning_UnmatchedCallYieldsZero(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	session, _ := newLoggedSession()

	first, second := core.Returning2[int, error](session, "function_1")
	g.Expect(first).To(BeZero())
	g.Expect(second).NotTo(HaveOccurred())
}

func TestResult_Value(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	result := core.Result{Values: []any{1, "two"}}

	g.Expect(result.Value(0)).To(Equal(1))
	g.Expect(result.Value(1)).To(Equal("two"))
	g.Expect(result.Value(2)).To(BeNil())
	g.Expect(result.Value(-1)).To(BeNil())
	g.Expect(core.Resolve(nil)).To(Equal(core.Result{}))
}

func TestExpectedCall_String(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	session, _ := newLoggedSession()

	g.Expect(session.Expect("write", 3, "x").IgnoreArg(0).String()).To(Equal(`write(*,"x")`))
	g.Expect(session.ExpectAnyArgs("flush").String()).To(Equal("flush(...)"))
	g.Expect(session.Expect("retry", BeNumerically(">", 2)).String()).To(HavePrefix("retry(<"))
}
