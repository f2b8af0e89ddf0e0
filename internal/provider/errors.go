package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Class partitions adapter failures by how the orchestrator should react.
type Class int

const (
	// ClassNoData: the upstream was reachable but returned an empty result.
	// Not an error condition; try the next provider silently.
	ClassNoData Class = iota
	// ClassTransient: network trouble, timeout, or rate limiting. Retryable.
	ClassTransient
	// ClassFatal: schema, auth, or unsupported operation. Not retryable.
	ClassFatal
)

func (c Class) String() string {
	switch c {
	case ClassNoData:
		return "no_data"
	case ClassTransient:
		return "transient"
	case ClassFatal:
		return "fatal"
	}
	return "unknown"
}

// ErrNoData is the sentinel for an empty upstream result.
var ErrNoData = errors.New("no data")

// Error wraps an adapter failure with its provider name and failure class.
type Error struct {
	Provider string
	Class    Class
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Class, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds a classified adapter error.
func NewError(providerName string, class Class, err error) *Error {
	return &Error{Provider: providerName, Class: class, Err: err}
}

// ClassOf extracts the failure class from any error an adapter call returned.
// Unclassified errors default to transient so network-layer surprises stay
// retryable.
func ClassOf(err error) Class {
	if errors.Is(err, ErrNoData) {
		return ClassNoData
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Class
	}
	if errors.Is(err, context.Canceled) {
		return ClassFatal
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return ClassTransient
	}
	return ClassTransient
}

// classifyStatus maps an HTTP status code to a failure class.
// 429 and 5xx are retryable; any other non-200 means the provider is
// misconfigured or incompatible for this request.
func classifyStatus(status int) Class {
	if status == http.StatusTooManyRequests || status >= 500 {
		return ClassTransient
	}
	return ClassFatal
}
