package webfinger

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"

	"github.com/webfingerd/webfinger-go/transport"
)

// Version is the library version reported in the default User-Agent.
const Version = "1.0.0"

// DefaultUserAgent identifies this library in outgoing requests.
const DefaultUserAgent = "webfinger-go/" + Version

// Client performs WebFinger lookups.
//
// A Client adds no locking of its own. Its session is shared across
// calls, so concurrent Finger calls on one Client are only safe when
// the backend's sessions are (the HTTP backend's are, being net/http
// connection pools); Close must not race a Finger in flight.
type Client struct {
	config   *clientConfig
	backend  transport.Backend
	resolver *Resolver

	session    transport.Session
	ownSession bool
}

// New creates a new WebFinger client with the given options.
//
// Example:
//
//	// Zero-config client
//	client, err := webfinger.New()
//
//	// Client sharing the caller's connection pool
//	client, err := webfinger.New(
//	    webfinger.WithSession(transport.NewHTTPSession(httpClient)),
//	)
func New(opts ...Option) (*Client, error) {
	config := defaultConfig()
	for _, opt := range opts {
		opt(config)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	backend := config.backend
	if backend == nil {
		backend = transport.NewHTTP(transport.WithTimeout(config.timeout))
	}

	return &Client{
		config:   config,
		backend:  backend,
		resolver: &Resolver{legacy: config.legacy, insecure: config.insecure},
		session:  config.session,
	}, nil
}

// MustNew creates a new WebFinger client with the given options.
// Panics if the configuration is invalid. Use New for error handling
// in production code.
func MustNew(opts ...Option) *Client {
	client, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return client
}

// Finger looks up a resource identifier and returns its descriptor.
//
// Candidates from the resolver are tried strictly in order, never
// concurrently. A non-200 status falls through to the next candidate,
// except on the final candidate where it becomes a KindHTTP error. A
// transport failure falls through too; if every candidate fails that
// way the last KindNetwork error is returned. The first 200 body is
// decoded by Content-Type (JRD or legacy XRD) and decode errors are
// returned as-is.
func (c *Client) Finger(ctx context.Context, resource string, opts ...RequestOption) (*JRD, error) {
	reqConfig := &requestConfig{}
	for _, opt := range opts {
		opt(reqConfig)
	}

	candidates, err := c.resolver.Resolve(resource)
	if err != nil {
		return nil, err
	}

	session := c.ensureSession()

	var lastNetErr error
	for i, candidate := range candidates {
		queryURL := candidate.URL
		if len(reqConfig.rels) > 0 {
			queryURL = appendRels(queryURL, reqConfig.rels)
		}

		resp, err := c.backend.Get(ctx, queryURL, c.mergeHeaders(candidate, reqConfig), session)
		if err != nil {
			if ctx.Err() != nil {
				// Cancellation is not a candidate failure; stop here.
				return nil, networkError(queryURL, err)
			}
			lastNetErr = networkError(queryURL, err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			if final := i == len(candidates)-1; final {
				return nil, httpError(queryURL, resp.StatusCode)
			}
			continue
		}

		return decodeResponse(resp, queryURL)
	}

	return nil, lastNetErr
}

// Close releases the session if and only if the client created it; a
// caller-supplied session is never closed. Close is safe to call more
// than once, and a later Finger lazily creates a fresh session.
func (c *Client) Close() error {
	if !c.ownSession || c.session == nil {
		return nil
	}
	session := c.session
	c.session = nil
	c.ownSession = false
	return session.Close()
}

// ensureSession lazily creates the session on first use.
func (c *Client) ensureSession() transport.Session {
	if c.session == nil {
		c.session = c.backend.NewSession()
		c.ownSession = true
	}
	return c.session
}

// mergeHeaders layers the static defaults, the client's configured
// headers, and the per-request headers, later layers winning.
func (c *Client) mergeHeaders(candidate Candidate, reqConfig *requestConfig) map[string]string {
	headers := map[string]string{
		"User-Agent": c.config.userAgent,
		"Accept":     candidate.Accept,
	}
	for key, value := range c.config.headers {
		headers[key] = value
	}
	for key, value := range reqConfig.headers {
		headers[key] = value
	}
	return headers
}

// decodeResponse picks the descriptor codec from the Content-Type.
// An absent Content-Type is treated as JRD.
func decodeResponse(resp *transport.Response, queryURL string) (*JRD, error) {
	mediaType := ""
	if resp.ContentType != "" {
		var err error
		mediaType, _, err = mime.ParseMediaType(resp.ContentType)
		if err != nil {
			return nil, &Error{
				Kind:    KindContent,
				Message: fmt.Sprintf("unparseable content type %q", resp.ContentType),
				URL:     queryURL,
				err:     err,
			}
		}
	}

	var jrd *JRD
	var err error
	switch mediaType {
	case "application/jrd+json", "application/json", "":
		jrd, err = ParseJRD(resp.Body)
	case "application/xrd+xml", "application/xml", "text/xml":
		jrd, err = ParseXRD(resp.Body)
	default:
		return nil, &Error{
			Kind:    KindContent,
			Message: fmt.Sprintf("unacceptable content type %q", mediaType),
			URL:     queryURL,
		}
	}
	if err != nil {
		if e, ok := err.(*Error); ok && e.URL == "" {
			e.URL = queryURL
		}
		return nil, err
	}
	return jrd, nil
}

// appendRels adds rel query parameters to a candidate URL.
func appendRels(rawURL string, rels []string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := u.Query()
	for _, rel := range rels {
		query.Add("rel", rel)
	}
	u.RawQuery = query.Encode()
	return u.String()
}
