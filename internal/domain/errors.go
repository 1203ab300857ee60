package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrNotFound        = errors.New("not found")
	ErrFormat          = errors.New("format error")
	ErrAmbiguousTarget = errors.New("ambiguous target")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrIO              = errors.New("io error")
	ErrExecution       = errors.New("execution error")
)

// ErrNoSteadyState marks a steady-state report whose status line says the
// calculation did not converge. It travels inside a KindFormat OpError.
var ErrNoSteadyState = errors.New("no steady state found")

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindNotFound        ErrorKind = "not_found"
	KindFormat          ErrorKind = "format"
	KindAmbiguousTarget ErrorKind = "ambiguous_target"
	KindInvalidArgument ErrorKind = "invalid_argument"
	KindIO              ErrorKind = "io"
	KindExecution       ErrorKind = "execution"
)

var kindSentinels = map[ErrorKind]error{
	KindNotFound:        ErrNotFound,
	KindFormat:          ErrFormat,
	KindAmbiguousTarget: ErrAmbiguousTarget,
	KindInvalidArgument: ErrInvalidArgument,
	KindIO:              ErrIO,
	KindExecution:       ErrExecution,
}

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op      string
	Kind    ErrorKind
	Path    string // Optional: relevant file path
	Subject string // Optional: element, row or variant the error is about
	Err     error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Subject != "" {
		base += fmt.Sprintf(" [%s]", e.Subject)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is lets errors.Is match the sentinel that belongs to the error's kind.
func (e *OpError) Is(target error) bool {
	if e == nil {
		return false
	}
	s, ok := kindSentinels[e.Kind]
	return ok && s == target
}

// IsKind helps callers classify errors without depending on infra packages.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

// Errorf builds an OpError whose cause is formatted from the arguments.
func Errorf(op string, kind ErrorKind, format string, args ...any) *OpError {
	return &OpError{Op: op, Kind: kind, Err: fmt.Errorf(format, args...)}
}
