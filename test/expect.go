package test

import (
	"fmt"
	"strings"
	"testing"
)

// id formats the optional tags so that they can prefix a failure message
func id(tags ...any) string {
	if len(tags) == 0 {
		return ""
	}
	s := make([]string, 0, len(tags))
	for _, t := range tags {
		s = append(s, fmt.Sprintf("%v", t))
	}
	return fmt.Sprintf("%s: ", strings.Join(s, " "))
}

// expect returns true if v is a success value for its type. supported types:
//
//	bool -> bool == true
//	error -> error == nil
//	nil -> always success
func expect(t *testing.T, v any, tags ...any) bool {
	t.Helper()

	switch v := v.(type) {
	case bool:
		return v
	case error:
		return v == nil
	case nil:
		return true
	default:
		t.Fatalf("%sunsupported type (%T) for expectation testing", id(tags...), v)
	}

	return false
}

// ExpectEquality is used to test equality between one value and another
func ExpectEquality[T comparable](t *testing.T, v T, expectedValue T, tags ...any) {
	t.Helper()
	if v != expectedValue {
		t.Errorf("%sequality test of type %T failed: '%v' does not equal '%v'", id(tags...), v, v, expectedValue)
	}
}

// ExpectInequality is used to test inequality between one value and another
func ExpectInequality[T comparable](t *testing.T, v T, expectedValue T, tags ...any) {
	t.Helper()
	if v == expectedValue {
		t.Errorf("%sinequality test of type %T failed: '%v' equals '%v'", id(tags...), v, v, expectedValue)
	}
}

// ExpectSuccess tests argument v for a success condition suitable for it's
// type. See expect() for supported types
func ExpectSuccess(t *testing.T, v any, tags ...any) bool {
	t.Helper()
	if !expect(t, v, tags...) {
		t.Errorf("%sa success value is expected for type %T (%v)", id(tags...), v, v)
		return false
	}
	return true
}

// ExpectFailure tests argument v for a failure condition suitable for it's
// type. A nil value is never a failure
func ExpectFailure(t *testing.T, v any, tags ...any) bool {
	t.Helper()
	if v == nil || expect(t, v, tags...) {
		t.Errorf("%sa failure value is expected for type %T", id(tags...), v)
		return false
	}
	return true
}

// ExpectImplements tests whether an instance is an implementation of type T
func ExpectImplements[T any](t *testing.T, instance any, tags ...any) bool {
	t.Helper()
	if _, ok := instance.(T); !ok {
		var n T
		t.Errorf("%simplementation test failed: type %T does not implement %T", id(tags...), instance, &n)
		return false
	}
	return true
}
