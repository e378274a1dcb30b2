/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"errors"
	"fmt"
)

// Kind classifies a game error so callers can decide how to report it.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindInvalidState Kind = "invalid_state"
	KindInvariant    Kind = "invariant"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
)

// Error is returned by every operation in this package and by the store.
// Two errors match under errors.Is when their kinds are equal.
type Error struct {
	Kind    Kind
	Message string
}

var (
	ErrValidation   = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrInvalidState = &Error{Kind: KindInvalidState, Message: "invalid state"}
	ErrInvariant    = &Error{Kind: KindInvariant, Message: "invariant violated"}
	ErrNotFound     = &Error{Kind: KindNotFound, Message: "not found"}
	ErrConflict     = &Error{Kind: KindConflict, Message: "conflict"}
)

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.Kind == t.Kind
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// Validationf builds a validation error.
func Validationf(format string, args ...any) error {
	return newError(KindValidation, format, args...)
}

// NotFoundf builds a not-found error.
func NotFoundf(format string, args ...any) error {
	return newError(KindNotFound, format, args...)
}

// Conflictf builds a conflict error.
func Conflictf(format string, args ...any) error {
	return newError(KindConflict, format, args...)
}

func invalidStatef(format string, args ...any) error {
	return newError(KindInvalidState, format, args...)
}

func invariantf(format string, args ...any) error {
	return newError(KindInvariant, format, args...)
}

// KindOf returns the kind of the first *Error in err's chain, or "" if
// there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return ""
}
