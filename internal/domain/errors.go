package domain

import (
	"errors"
	"fmt"
)

// ErrorKind distinguishes the failure modes of the external services so
// callers can pattern-match without inspecting transport internals.
type ErrorKind int

const (
	// KindUnreachable means the endpoint is not listening.
	KindUnreachable ErrorKind = iota
	// KindTimeout means the call exceeded its deadline.
	KindTimeout
	// KindErrored covers every other transport or response failure,
	// e.g. a non-2xx status or a malformed body.
	KindErrored
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnreachable:
		return "unreachable"
	case KindTimeout:
		return "timeout"
	default:
		return "error"
	}
}

// ServiceError is a classified failure from the embedding or generation
// service. Service names which endpoint failed ("embedding" or "generation").
type ServiceError struct {
	Service string
	Kind    ErrorKind
	Err     error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s service %s: %v", e.Service, e.Kind, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// KindOf extracts the error kind from err. The second return is false when
// err does not wrap a ServiceError.
func KindOf(err error) (ErrorKind, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return 0, false
}
