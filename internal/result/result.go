// Package result provides a two-variant container used as the return type of
// operations that can fail for an expected reason.
//
// A Result holds either a success value or a failure error, never both.
// Callers branch on IsSuccess/IsFailure (or use Value's ok flag) before
// reading the held value.
package result

// Void is the payload of a successful Result that carries no value.
type Void struct{}

// Result is either Success(value) or Failure(err).
// The zero value is not a valid Result; use Success or Failure.
type Result[T any] struct {
	value T
	err   error
	ok    bool
}

// Success wraps v in a successful Result.
func Success[T any](v T) Result[T] {
	return Result[T]{value: v, ok: true}
}

// Failure wraps err in a failed Result. err must not be nil.
func Failure[T any](err error) Result[T] {
	if err == nil {
		panic("result: Failure called with nil error")
	}
	return Result[T]{err: err}
}

// Ok is shorthand for a successful Result[Void].
func Ok() Result[Void] {
	return Success(Void{})
}

// IsSuccess reports whether r holds a success value.
func (r Result[T]) IsSuccess() bool {
	return r.ok
}

// IsFailure reports whether r holds a failure.
func (r Result[T]) IsFailure() bool {
	return !r.ok
}

// Value returns the success value and true, or the zero value and false
// when r is a failure.
func (r Result[T]) Value() (T, bool) {
	if !r.ok {
		var zero T
		return zero, false
	}
	return r.value, true
}

// Err returns the failure error, or nil when r is a success.
func (r Result[T]) Err() error {
	if r.ok {
		return nil
	}
	return r.err
}

// Unwrap converts r into the conventional (value, error) pair.
func (r Result[T]) Unwrap() (T, error) {
	if !r.ok {
		var zero T
		return zero, r.err
	}
	return r.value, nil
}

// Combine folds results into a single Result holding every success value in
// order. The first failure encountered is returned and the rest are ignored.
func Combine[T any](results []Result[T]) Result[[]T] {
	values := make([]T, 0, len(results))
	for _, r := range results {
		if !r.ok {
			return Failure[[]T](r.err)
		}
		values = append(values, r.value)
	}
	return Success(values)
}

// FailAs re-types a failed Result so it can be propagated from a function
// returning a different payload. It panics if r is a success.
func FailAs[U, T any](r Result[T]) Result[U] {
	if r.ok {
		panic("result: FailAs called on a success")
	}
	return Result[U]{err: r.err}
}
