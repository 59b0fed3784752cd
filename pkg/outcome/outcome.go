// Package outcome models the result of reaching a stored resource: it was
// loaded, it does not exist, it exists but could not be read, or there was
// nothing telling us where to look.
package outcome

import (
	"errors"
	"fmt"
	"io/fs"
)

type Kind int

// The zero Outcome is NotFound.
const (
	KindNotFound Kind = iota
	KindSuccess
	KindNoAuthData
	KindNotAccessible
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindNoAuthData:
		return "no auth data"
	case KindNotAccessible:
		return "not accessible"
	case KindNotFound:
		return "not found"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

type Outcome[T any] struct {
	kind    Kind
	value   T
	message string
	cause   error
}

func Success[T any](v T) Outcome[T] {
	return Outcome[T]{kind: KindSuccess, value: v}
}

func NotFound[T any](message string) Outcome[T] {
	return Outcome[T]{kind: KindNotFound, message: message}
}

func NoAuthData[T any](message string) Outcome[T] {
	return Outcome[T]{kind: KindNoAuthData, message: message}
}

// NotAccessible carries the error that prevented access, if any.
func NotAccessible[T any](message string, cause error) Outcome[T] {
	return Outcome[T]{kind: KindNotAccessible, message: message, cause: cause}
}

// FromError classifies err. A missing resource is NotFound, everything else
// is NotAccessible.
func FromError[T any](message string, err error) Outcome[T] {
	if errors.Is(err, fs.ErrNotExist) {
		return NotFound[T](message)
	}
	return NotAccessible[T](message, err)
}

func (o Outcome[T]) Kind() Kind {
	return o.kind
}

func (o Outcome[T]) IsSuccess() bool {
	return o.kind == KindSuccess
}

// Value returns the loaded value and true on success.
func (o Outcome[T]) Value() (T, bool) {
	if o.kind != KindSuccess {
		var zero T
		return zero, false
	}
	return o.value, true
}

// ValueOr returns the loaded value or fallback.
func (o Outcome[T]) ValueOr(fallback T) T {
	if v, ok := o.Value(); ok {
		return v
	}
	return fallback
}

func (o Outcome[T]) Message() string {
	return o.message
}

func (o Outcome[T]) Cause() error {
	return o.cause
}

// Err is nil on success and describes the failure otherwise.
func (o Outcome[T]) Err() error {
	if o.kind == KindSuccess {
		return nil
	}
	return &Error{Kind: o.kind, Message: o.message, Cause: o.cause}
}

type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	s := e.Kind.String()
	if e.Message != "" {
		s += ": " + e.Message
	}
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Then passes a successful value on to f. Any other outcome keeps its kind,
// message and cause.
func Then[T, U any](o Outcome[T], f func(T) Outcome[U]) Outcome[U] {
	if o.kind == KindSuccess {
		return f(o.value)
	}
	return Outcome[U]{kind: o.kind, message: o.message, cause: o.cause}
}
