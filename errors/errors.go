// Package errors classifies kernel failures.
//
// Nothing in here ever reaches a userland routine: syscall results stay
// in-band (nil, -1, false). This package serves the host boundary and the
// kernel's own bookkeeping, where Go code wants a failure class to switch
// on and errors.Is to check sentinels through wrap chains.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// ErrNotFound indicates a resource was not found.
	ErrNotFound ErrorKind = iota
	// ErrAlreadyExists indicates a resource already exists.
	ErrAlreadyExists
	// ErrInvalidState indicates an operation was attempted in an invalid state.
	ErrInvalidState
	// ErrInvalidArgument indicates a malformed argument.
	ErrInvalidArgument
	// ErrPermission indicates a permission error.
	ErrPermission
	// ErrTimeout indicates a wait expired before completion.
	ErrTimeout
	// ErrCrashed indicates a routine failed inside a resume.
	ErrCrashed
	// ErrInternal indicates an internal error.
	ErrInternal
)

// String returns a human-readable name for the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrNotFound:
		return "not found"
	case ErrAlreadyExists:
		return "already exists"
	case ErrInvalidState:
		return "invalid state"
	case ErrInvalidArgument:
		return "invalid argument"
	case ErrPermission:
		return "permission denied"
	case ErrTimeout:
		return "timed out"
	case ErrCrashed:
		return "routine crashed"
	case ErrInternal:
		return "internal error"
	default:
		return "unknown error"
	}
}

// KernelError is one failed kernel operation: the failure class, the
// operation that hit it, and optionally the process and resource involved.
// Unset pieces are simply left out of the rendered message.
type KernelError struct {
	// Kind is the failure class.
	Kind ErrorKind
	// Op names the operation, usually a syscall or host entry point
	// ("listen", "spawn", "persist").
	Op string
	// PID is the process involved; 0 when none.
	PID int
	// Res names the resource involved: a port key, a path, a program name.
	Res string
	// Msg is free-form detail, shown in place of the kind's generic name.
	Msg string
	// Err is the cause, if any.
	Err error
}

// Error renders "kernel: <op> pid=N (res): <detail>: <cause>" with the
// unset pieces dropped.
func (e *KernelError) Error() string {
	if e == nil {
		return "kernel: unknown error"
	}

	var b strings.Builder
	b.WriteString("kernel")
	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}
	if e.PID > 0 {
		fmt.Fprintf(&b, " pid=%d", e.PID)
	}
	if e.Res != "" {
		fmt.Fprintf(&b, " (%s)", e.Res)
	}
	b.WriteString(": ")
	if e.Msg != "" {
		b.WriteString(e.Msg)
	} else {
		b.WriteString(e.Kind.String())
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes the cause, so sentinel checks work through errors.Is and
// the chain stays inspectable.
func (e *KernelError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Newf creates a classified error with a formatted message.
func Newf(kind ErrorKind, op, format string, args ...any) *KernelError {
	return &KernelError{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Classify wraps a cause under an operation with an explicit failure class.
// Use it when the cause is a foreign error (os, json) whose class only the
// caller knows.
func Classify(kind ErrorKind, op string, err error) *KernelError {
	return &KernelError{Kind: kind, Op: op, Err: err}
}

// Op wraps a cause under an operation, inheriting the cause's failure class
// when it carries one and treating everything else as internal. This is the
// usual way to chain a sentinel: Op("load", ErrNoState).
func Op(op string, err error) *KernelError {
	return &KernelError{Kind: KindOf(err), Op: op, Err: err}
}

// WithPID returns a copy annotated with the process involved. The receiver
// is not modified, so sentinels can be annotated safely.
func (e *KernelError) WithPID(pid int) *KernelError {
	if e == nil {
		return nil
	}
	out := *e
	out.PID = pid
	return &out
}

// WithResource returns a copy annotated with the resource involved.
func (e *KernelError) WithResource(res string) *KernelError {
	if e == nil {
		return nil
	}
	out := *e
	out.Res = res
	return &out
}

// KindOf reports the failure class of the first KernelError in err's chain.
// Foreign errors classify as internal.
func KindOf(err error) ErrorKind {
	var ke *KernelError
	if errors.As(err, &ke) {
		return ke.Kind
	}
	return ErrInternal
}

// HasKind reports whether any KernelError in err's chain carries the given
// failure class. Unlike KindOf it keeps walking past the first match, so a
// not-found sentinel stays visible under an internal-classified wrapper.
func HasKind(err error, kind ErrorKind) bool {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if ke, ok := e.(*KernelError); ok && ke.Kind == kind {
			return true
		}
	}
	return false
}
