// Package result provides a success/failure union for expected failure paths.
// Unexpected conditions still travel as plain Go errors.
package result

import (
	"fmt"
	"reflect"
)

// Result holds either a value of type T or an error of type E, never both.
type Result[T, E any] struct {
	value T
	err   E
	ok    bool
}

func Ok[T, E any](value T) Result[T, E] {
	return Result[T, E]{value: value, ok: true}
}

func Err[T, E any](err E) Result[T, E] {
	return Result[T, E]{err: err}
}

func (r Result[T, E]) IsOk() bool  { return r.ok }
func (r Result[T, E]) IsErr() bool { return !r.ok }

// Value returns the success value. It panics on a failed result.
func (r Result[T, E]) Value() T {
	if !r.ok {
		panic(fmt.Sprintf("result: Value called on Err(%v)", r.err))
	}
	return r.value
}

// Error returns the failure value. It panics on a successful result.
func (r Result[T, E]) Error() E {
	if r.ok {
		panic("result: Error called on Ok")
	}
	return r.err
}

// Get destructures the result; exactly one of the first two returns is meaningful.
func (r Result[T, E]) Get() (T, E, bool) {
	return r.value, r.err, r.ok
}

// Map transforms the success branch and passes failures through untouched.
func Map[T, U, E any](r Result[T, E], fn func(T) U) Result[U, E] {
	if !r.ok {
		return Err[U](r.err)
	}
	return Ok[U, E](fn(r.value))
}

// Equal compares two results structurally on their populated branch.
func Equal[T, E any](a, b Result[T, E]) bool {
	if a.ok != b.ok {
		return false
	}
	if a.ok {
		return reflect.DeepEqual(a.value, b.value)
	}
	return reflect.DeepEqual(a.err, b.err)
}
