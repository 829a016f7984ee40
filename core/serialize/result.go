package serialize

import (
	"errors"
	"fmt"
)

// ErrorKind identifies which conversion failed.
type ErrorKind int

const (
	// InvalidString reports text that could not be decoded into a mapping.
	InvalidString ErrorKind = iota + 1
	// InvalidDictionary reports a value that could not be encoded as text.
	InvalidDictionary
)

// FormatError is the error variant of a [Result].
type FormatError struct {
	Kind ErrorKind
	Err  error
}

func (e *FormatError) Error() string {
	switch e.Kind {
	case InvalidDictionary:
		return fmt.Sprintf("Invalid dictionary format: %v", e.Err)
	default:
		return fmt.Sprintf("Invalid string format: %v", e.Err)
	}
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Result holds either a converted value or the error that prevented the
// conversion. The zero Result is an Ok result holding the zero value.
type Result[T any] struct {
	value T
	err   error
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Err wraps a failure.
func Err[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// IsOk reports whether the conversion succeeded.
func (r Result[T]) IsOk() bool {
	return r.err == nil
}

// Value returns the converted value, the zero value on failure.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the failure or nil.
func (r Result[T]) Err() error {
	return r.err
}

// Unwrap returns the value and error as a Go pair.
func (r Result[T]) Unwrap() (T, error) {
	return r.value, r.err
}

// ErrorMapping returns the failure in its mapping shape, {"error": message},
// or nil when the result is Ok.
func (r Result[T]) ErrorMapping() map[string]any {
	if r.err == nil {
		return nil
	}
	return map[string]any{"error": r.err.Error()}
}

// KindOf returns the [ErrorKind] of err, or 0 if err is not a [*FormatError].
func KindOf(err error) ErrorKind {
	var fe *FormatError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}
