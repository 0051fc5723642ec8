// Package rpcerr is the error taxonomy shared by the gateway and the backend
// services. Application outcomes (not found, forbidden, ...) travel over gRPC
// as status codes and are rebuilt on the calling side so that callers can use
// errors.Is against the sentinel kinds below.
package rpcerr

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Transient kinds. The dispatcher retries these.
var (
	ErrTimeout     = errors.New("timeout")
	ErrUnavailable = errors.New("unavailable")
)

// Application kinds. Returned by a backend that handled the command.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
	ErrInvalid   = errors.New("invalid argument")
	ErrConflict  = errors.New("conflict")
	ErrInternal  = errors.New("internal")
)

// Error is a classified failure with a human readable message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

// GRPCStatus lets the grpc server send the kind as a status code.
func (e *Error) GRPCStatus() *status.Status {
	return status.New(codeFor(e.Kind), e.Error())
}

func NotFoundf(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbiddenf(format string, args ...any) error {
	return &Error{Kind: ErrForbidden, Message: fmt.Sprintf(format, args...)}
}

func Invalidf(format string, args ...any) error {
	return &Error{Kind: ErrInvalid, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

// Timeout builds a timeout error for a command.
func Timeout(command string) error {
	return &Error{Kind: ErrTimeout, Message: fmt.Sprintf("%s: deadline exceeded", command)}
}

// FromStatus rebuilds a classified error from a gRPC error. Errors that carry
// no status are returned unchanged and count as transport failures.
func FromStatus(err error) error {
	if err == nil {
		return nil
	}
	var classified *Error
	if errors.As(err, &classified) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: ErrTimeout, Message: err.Error()}
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	kind := kindFor(st.Code())
	if kind == nil {
		return err
	}
	return &Error{Kind: kind, Message: st.Message()}
}

// Retryable reports whether err is a transient failure worth another attempt.
// Unclassified errors are treated as transport failures.
func Retryable(err error) bool {
	if errors.Is(err, ErrTimeout) || errors.Is(err, ErrUnavailable) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var classified *Error
	return !errors.As(err, &classified)
}

// HTTPStatus maps err to the status code returned by the gateway.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// Code returns a short machine readable code for err.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrInvalid):
		return "invalid_request"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrTimeout):
		return "upstream_timeout"
	default:
		return "upstream_error"
	}
}

func codeFor(kind error) codes.Code {
	switch kind {
	case ErrNotFound:
		return codes.NotFound
	case ErrForbidden:
		return codes.PermissionDenied
	case ErrInvalid:
		return codes.InvalidArgument
	case ErrConflict:
		return codes.AlreadyExists
	case ErrTimeout:
		return codes.DeadlineExceeded
	case ErrUnavailable:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

func kindFor(c codes.Code) error {
	switch c {
	case codes.NotFound:
		return ErrNotFound
	case codes.PermissionDenied, codes.Unauthenticated:
		return ErrForbidden
	case codes.InvalidArgument, codes.OutOfRange, codes.FailedPrecondition:
		return ErrInvalid
	case codes.AlreadyExists:
		return ErrConflict
	case codes.DeadlineExceeded:
		return ErrTimeout
	case codes.Unavailable, codes.ResourceExhausted, codes.Aborted:
		return ErrUnavailable
	case codes.Internal, codes.Unknown, codes.Unimplemented, codes.DataLoss:
		return ErrInternal
	default:
		return nil
	}
}
