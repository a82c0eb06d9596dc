// Package extraction turns scraped site text into a validated
// EnrichmentResult via one structured-generation call with a bounded retry.
package extraction

import (
	"errors"
	"fmt"
	"net"
	"net/url"

	"google.golang.org/api/googleapi"
)

// Class distinguishes failures worth one retry from those that would
// reproduce identically.
type Class int

const (
	// ClassDeterministic covers 4xx responses, parse errors, and schema
	// mismatches. Retrying without changing the input is pointless.
	ClassDeterministic Class = iota
	// ClassTransient covers 5xx responses and network-level failures.
	ClassTransient
)

// Error is a classified extraction failure. The retry decision is a pure
// function of Class.
type Error struct {
	Class   Class
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// UnavailableError indicates the upstream generation service kept failing
// after the retry budget was spent. The caller may retry the whole request
// later.
type UnavailableError struct {
	Cause error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("generation service unavailable after retry: %v", e.Cause)
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}

// classifyCallError tags a failed generation call. Upstream 5xx and
// network-level failures are transient; everything else (auth, quota, bad
// request) is deterministic.
func classifyCallError(err error) *Error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code >= 500 {
			return &Error{Class: ClassTransient, Message: fmt.Sprintf("upstream API error %d", apiErr.Code), Cause: err}
		}
		return &Error{Class: ClassDeterministic, Message: fmt.Sprintf("non-retriable API error %d", apiErr.Code), Cause: err}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &Error{Class: ClassTransient, Message: "network failure reaching generation service", Cause: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return &Error{Class: ClassTransient, Message: "network failure reaching generation service", Cause: err}
	}

	return &Error{Class: ClassDeterministic, Message: "generation call failed", Cause: err}
}
