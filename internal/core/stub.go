package core

import (
	"fmt"
	"reflect"
)

// Returning is the body of a stub for an operation with one return value:
//
//	func (m *MockStore) Load(key string) error {
//	    return core.Returning[error](m.session, "Load", key)
//	}
//
// Unmatched calls and missing values yield the zero value of R.
func Returning[R any](s *Session, identity string, args ...any) R {
	result, _ := s.Call(identity, args...)

	return valueAs[R](identity, result, 0)
}

// Returning2 is Returning for operations with two return values.
func Returning2[R1, R2 any](s *Session, identity string, args ...any) (R1, R2) {
	result, _ := s.Call(identity, args...)

	return valueAs[R1](identity, result, 0), valueAs[R2](identity, result, 1)
}

// Void is the body of a stub for an operation without return values.
func Void(s *Session, identity string, args ...any) {
	_, _ = s.Call(identity, args...)
}

func valueAs[R any](identity string, result Result, index int) R {
	var zero R

	value := result.Value(index)
	if value == nil {
		return zero
	}

	typed, ok := value.(R)
	if !ok {
		panic(fmt.Sprintf("negtest failure - %s return value %d is %T, not %v",
			identity, index, value, reflect.TypeFor[R]()))
	}

	return typed
}
