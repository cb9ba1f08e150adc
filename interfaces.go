package webfinger

import "context"

// Fingerer performs WebFinger lookups. Implement this interface to
// substitute a mock for Client in tests.
type Fingerer interface {
	// Finger looks up a resource identifier and returns its descriptor.
	Finger(ctx context.Context, resource string, opts ...RequestOption) (*JRD, error)
}

// Ensure Client implements Fingerer.
var _ Fingerer = (*Client)(nil)
