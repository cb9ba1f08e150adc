package webfinger

import (
	"errors"
	"fmt"
)

// Kind classifies a WebFinger failure. Every error returned by this
// package carries exactly one Kind.
type Kind int

const (
	// KindContent indicates a malformed resource identifier, an
	// unparseable host, or a response in an unacceptable format.
	KindContent Kind = iota + 1

	// KindJRD indicates a structurally invalid resource descriptor:
	// wrong top-level shape, missing required fields, or wrong value
	// types.
	KindJRD

	// KindNetwork indicates the request never produced an HTTP
	// response: connection failure, DNS failure, or timeout.
	KindNetwork

	// KindHTTP indicates a response was received but carried a
	// non-success status code.
	KindHTTP
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case KindContent:
		return "content"
	case KindJRD:
		return "jrd"
	case KindNetwork:
		return "network"
	case KindHTTP:
		return "http"
	default:
		return "unknown"
	}
}

// Error is the error type returned by this package.
type Error struct {
	Kind       Kind   // Failure category
	Message    string // Human-readable message
	URL        string // Attempted URL, when known
	StatusCode int    // HTTP status code, set for KindHTTP only
	err        error  // Underlying cause, if any
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("webfinger [%s]: %s", e.Kind, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.StatusCode)
	}
	if e.URL != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.URL)
	}
	if e.err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.err)
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.err
}

// Is implements errors.Is: two Errors match when their kinds match, so
// callers can compare against a bare &Error{Kind: ...}.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// IsContent checks whether an error is a content error.
func IsContent(err error) bool {
	return isKind(err, KindContent)
}

// IsJRD checks whether an error is a descriptor parse error.
func IsJRD(err error) bool {
	return isKind(err, KindJRD)
}

// IsNetwork checks whether an error is a network error.
func IsNetwork(err error) bool {
	return isKind(err, KindNetwork)
}

// IsHTTP checks whether an error is an HTTP status error.
func IsHTTP(err error) bool {
	return isKind(err, KindHTTP)
}

// StatusCode returns the HTTP status code attached to an error, or 0 if
// the error is not an HTTP status error.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindHTTP {
		return e.StatusCode
	}
	return 0
}

func isKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// contentError creates a KindContent error.
func contentError(format string, args ...any) *Error {
	return &Error{Kind: KindContent, Message: fmt.Sprintf(format, args...)}
}

// jrdError creates a KindJRD error wrapping cause, which may be nil.
func jrdError(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindJRD, Message: fmt.Sprintf(format, args...), err: cause}
}

// networkError creates a KindNetwork error for an attempted URL.
func networkError(url string, cause error) *Error {
	return &Error{Kind: KindNetwork, Message: "request failed", URL: url, err: cause}
}

// httpError creates a KindHTTP error carrying the received status.
func httpError(url string, status int) *Error {
	return &Error{Kind: KindHTTP, Message: "endpoint returned error status", URL: url, StatusCode: status}
}
