package prbranch

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by Service matches exactly one of these
// with errors.Is.
var (
	ErrValidation     = errors.New("invalid argument")
	ErrFetch          = errors.New("fetch failed")
	ErrCheckout       = errors.New("checkout failed")
	ErrPush           = errors.New("push failed")
	ErrRemoteNotFound = errors.New("no http remote")
	ErrConfigWrite    = errors.New("config write failed")
	ErrRemoteAPI      = errors.New("remote api call failed")
	ErrNotFound       = errors.New("no local branch for pull request")
)

// Error describes a failed workflow step.
type Error struct {
	// Op is the operation that failed, e.g. "checkout" or "create".
	Op   string
	Kind error
	// Err is the collaborator error, nil for validation failures.
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the underlying error to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(op string, kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

func validationError(op, format string, args ...interface{}) *Error {
	return &Error{Op: op, Kind: ErrValidation, Err: fmt.Errorf(format, args...)}
}
