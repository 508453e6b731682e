package app

import (
	"errors"
	"fmt"
)

// Kind classifies failures that end a command.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConnectivity
	KindExternalTool
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConnectivity:
		return "connectivity"
	case KindExternalTool:
		return "external tool"
	}
	return "unknown"
}

// Error is returned by App commands that must end the process with a
// non-zero exit code. It has already been logged when returned.
type Error struct {
	Kind Kind
	Code int
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ExitCode maps a command result to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) && e.Code != 0 {
		return e.Code
	}
	return 1
}

func validationError(err error) *Error {
	return &Error{Kind: KindValidation, Code: 1, Err: err}
}
