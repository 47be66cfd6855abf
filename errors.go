package asciimg

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so that callers can map it to a process exit code
type Kind int

const (
	// KindFail is a generic failure, e.g. a resampling primitive that misbehaved
	KindFail Kind = iota + 1
	// KindArgument is a malformed, missing or conflicting argument
	KindArgument
	// KindInput is an unreadable, empty or undecodable input
	KindInput
	// KindMemory is an allocation that cannot be satisfied
	KindMemory
	// KindEnvironment is a terminal that cannot report a usable size
	KindEnvironment
	// KindIO is a failed write to the output stream
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindFail:
		return "failure"
	case KindArgument:
		return "argument error"
	case KindInput:
		return "input error"
	case KindMemory:
		return "memory error"
	case KindEnvironment:
		return "environment error"
	case KindIO:
		return "i/o error"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ExitCode returns the process exit code for the kind
func (k Kind) ExitCode() int {
	if k < KindFail || k > KindIO {
		return int(KindFail)
	}
	return int(k)
}

// Error is a classified pipeline error
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// NewError classifies err under kind. op names the failing operation and may be empty.
func NewError(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf builds a classified error from a format string
func Errorf(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, KindFail otherwise
func KindOf(err error) Kind {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindFail
}
