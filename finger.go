package webfinger

import "context"

// defaultClient backs the package-level Finger helper.
var defaultClient = MustNew()

// Finger looks up a resource identifier with a shared default client.
//
// Example:
//
//	jrd, err := webfinger.Finger(ctx, "acct:alice@example.org")
//
// Create a Client for custom configuration or session control.
func Finger(ctx context.Context, resource string, opts ...RequestOption) (*JRD, error) {
	return defaultClient.Finger(ctx, resource, opts...)
}
