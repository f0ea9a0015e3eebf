// Package seqerr centralizes the sequencer's error taxonomy and its
// mapping onto gRPC status codes, so every component returns a plain Go
// error and the conversion to the wire happens once, at the RPC boundary.
package seqerr

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Code identifies which of the taxonomy's buckets an error belongs to.
type Code int

const (
	// Unknown covers stub-construction failures at registration time.
	Unknown Code = iota
	// InvalidArgument covers input validation and collapsed downstream
	// RPC-phase failures.
	InvalidArgument
	// NotFound covers placement failures: unknown/duplicated services,
	// unknown/non-idle nodes, and autoplacement exhaustion.
	NotFound
	// Aborted covers sequence preemption and propagated test failures.
	Aborted
)

// Error wraps a message with the taxonomy bucket it belongs to.
type Error struct {
	Code Code
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

func InvalidArgumentf(format string, args ...any) error {
	return New(InvalidArgument, format, args...)
}

func NotFoundf(format string, args ...any) error {
	return New(NotFound, format, args...)
}

func Abortedf(format string, args ...any) error {
	return New(Aborted, format, args...)
}

func Unknownf(format string, args ...any) error {
	return New(Unknown, format, args...)
}

// ToGRPC converts an internal error into the gRPC status the framework's
// transport is specified to surface. Errors that don't originate from
// this package are reported as codes.Unknown, same as the framework's
// stub-construction failure path.
func ToGRPC(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		switch e.Code {
		case InvalidArgument:
			return status.Error(codes.InvalidArgument, e.Msg)
		case NotFound:
			return status.Error(codes.NotFound, e.Msg)
		case Aborted:
			return status.Error(codes.Aborted, e.Msg)
		default:
			return status.Error(codes.Unknown, e.Msg)
		}
	}
	return status.Error(codes.Unknown, err.Error())
}
