package pantry

import (
	"errors"
	"fmt"
)

// Kind classifies a pantry failure.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindStorage    Kind = "storage"
)

// Sentinels for errors.Is. A *Error matches the sentinel of its Kind.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("item not found")
	ErrStorage    = errors.New("storage failure")
)

// Error is returned by every Service operation that fails.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrStorage:
		return e.Kind == KindStorage
	}
	return false
}

func validationError(op, msg string) error {
	return &Error{Kind: KindValidation, Op: op, Msg: msg}
}

func notFoundError(op, id string) error {
	return &Error{Kind: KindNotFound, Op: op, Msg: fmt.Sprintf("item %q not found", id)}
}

func storageError(op string, err error) error {
	return &Error{Kind: KindStorage, Op: op, Msg: "storage failure", Err: err}
}

var (
	errQuantityNotFinite   = errors.New("quantity must be a finite number")
	errQuantityNotPositive = errors.New("quantity must be greater than zero")
)
