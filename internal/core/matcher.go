package core

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// Matcher defines the interface for flexible argument matching.
// Compatible with gomega.GomegaMatcher via duck typing.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// MatchValue checks if actual matches expected.
// If expected implements Matcher, its Match method decides. Otherwise the values are
// compared with reflect.DeepEqual and the failure message carries a diff.
// Returns (success, failureMessage). On success the message is empty.
func MatchValue(actual, expected any) (bool, string) {
	if matcher, ok := expected.(Matcher); ok {
		success, err := matcher.Match(actual)
		if err != nil {
			return false, err.Error()
		}

		if !success {
			msg := matcher.FailureMessage(actual)
			if msg == "" {
				msg = fmt.Sprintf("matcher failed for value %#v", actual)
			}

			return false, msg
		}

		return true, ""
	}

	if reflect.DeepEqual(actual, expected) {
		return true, ""
	}

	return false, fmt.Sprintf("expected %#v, got %#v%s", expected, actual, diffValues(expected, actual))
}

// diffValues renders a (-expected +actual) diff for composite values. Scalars get no
// diff since the expected/got pair already says everything.
func diffValues(expected, actual any) (diff string) {
	if !isComposite(expected) || !isComposite(actual) {
		return ""
	}

	defer func() {
		// cmp panics on some exotic types; the plain message is enough then
		if recover() != nil {
			diff = ""
		}
	}()

	d := cmp.Diff(expected, actual, cmp.Exporter(func(reflect.Type) bool { return true }))
	if d == "" {
		return ""
	}

	return "\n(-expected +actual):\n" + strings.TrimRight(d, "\n")
}

func isComposite(v any) bool {
	if v == nil {
		return false
	}

	switch reflect.TypeOf(v).Kind() {
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array, reflect.Pointer:
		return true
	default:
		return false
	}
}
