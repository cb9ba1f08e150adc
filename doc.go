// Package webfinger implements the WebFinger discovery protocol
// (RFC 7033): resolving an identifier such as acct:user@host to a JSON
// Resource Descriptor (JRD) describing that identity, and building
// descriptors for servers that emit them.
//
// # Quick Start
//
// The package-level helper covers simple lookups:
//
//	jrd, err := webfinger.Finger(ctx, "acct:alice@example.org")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, link := range jrd.Rel("profile") {
//	    fmt.Println(link.Href)
//	}
//
// # Clients
//
// Create a Client to control configuration and session lifecycle:
//
//	client, err := webfinger.New(
//	    webfinger.WithTimeout(10*time.Second),
//	    webfinger.WithUserAgent("myapp/2.1"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
// A lookup queries the host's HTTPS well-known endpoint first and then
// falls back, in fixed order, to the legacy host-meta endpoints that
// predate RFC 7033. Legacy XRD responses are decoded into the same JRD
// model. Close releases the client's network session; sessions supplied
// with WithSession stay open, since the caller owns them.
//
// # Transport Backends
//
// Requests go through the transport.Backend capability. The blocking
// HTTP backend is the default; the Async decorator detaches requests
// onto their own goroutines for callers that must resume on
// cancellation immediately:
//
//	client, err := webfinger.New(
//	    webfinger.WithBackend(transport.NewAsync(transport.NewHTTP())),
//	)
//
// # Building Descriptors
//
// Servers assemble descriptors with a Builder and can serve them with
// NewHandler:
//
//	b := webfinger.NewBuilder()
//	b.SetSubject("alice@example.org")
//	b.AddLink("profile", webfinger.LinkHref("https://example.org/alice"))
//	jrd := b.Build()
//
// # Error Handling
//
// Every failure is an *Error carrying one of four kinds (Content, JRD,
// Network, HTTP) plus the attempted URL and, for HTTP failures, the
// status code:
//
//	jrd, err := client.Finger(ctx, resource)
//	if webfinger.IsNetwork(err) {
//	    // The host was unreachable; nothing was received.
//	}
//	if webfinger.IsHTTP(err) {
//	    log.Printf("status %d", webfinger.StatusCode(err))
//	}
package webfinger
