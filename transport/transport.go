// Package transport provides HTTP transport backends for WebFinger
// queries.
//
// A Backend performs one GET at a time against a Session, a reusable
// connection resource. Backends never interpret the HTTP status code;
// classifying a response is the caller's concern. A Backend error
// therefore always means the request produced no response at all.
package transport

import (
	"context"
)

// A Session is a reusable network resource shared across requests to
// amortize connection setup. Sessions are created by a Backend and
// closed by whoever created them; closing twice is a no-op.
type Session interface {
	// Close releases the session's connections.
	Close() error
}

// Response is a raw HTTP response, status uninterpreted.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Backend performs HTTP GETs for a WebFinger client.
type Backend interface {
	// Name returns the backend name (e.g. "http", "async(http)").
	Name() string

	// Get issues a GET for url with the given headers over the
	// session. Timeouts and cancellation arrive through ctx and are
	// forwarded to the underlying transport uninterpreted.
	Get(ctx context.Context, url string, headers map[string]string, s Session) (*Response, error)

	// NewSession creates a session suitable for this backend.
	NewSession() Session
}
