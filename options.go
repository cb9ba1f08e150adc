package webfinger

import (
	"fmt"
	"time"

	"github.com/webfingerd/webfinger-go/transport"
)

// Option configures a Client.
type Option func(*clientConfig)

// clientConfig holds client configuration.
type clientConfig struct {
	backend   transport.Backend
	session   transport.Session
	userAgent string
	headers   map[string]string
	timeout   time.Duration
	legacy    bool
	insecure  bool
}

// defaultConfig returns the default client configuration.
func defaultConfig() *clientConfig {
	return &clientConfig{
		userAgent: DefaultUserAgent,
		timeout:   30 * time.Second,
		legacy:    true,
	}
}

// validateConfig validates the client configuration.
func validateConfig(config *clientConfig) error {
	if config.userAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if config.timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	return nil
}

// WithBackend sets the transport backend (default: the blocking HTTP
// backend).
func WithBackend(backend transport.Backend) Option {
	return func(c *clientConfig) {
		c.backend = backend
	}
}

// WithSession supplies a pre-built session. Ownership stays with the
// caller: the client will use it but never close it, and Close on the
// client leaves it intact.
func WithSession(s transport.Session) Option {
	return func(c *clientConfig) {
		c.session = s
	}
}

// WithUserAgent overrides the User-Agent sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *clientConfig) {
		c.userAgent = ua
	}
}

// WithHeader adds a default header sent with every request. Per-request
// headers override it.
func WithHeader(key, value string) Option {
	return func(c *clientConfig) {
		if c.headers == nil {
			c.headers = map[string]string{}
		}
		c.headers[key] = value
	}
}

// WithTimeout sets the per-request timeout used when the client builds
// its own HTTP backend (default: 30s). Ignored when WithBackend is set.
func WithTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = d
	}
}

// WithoutLegacy disables the legacy host-meta fallback endpoints;
// only the RFC 7033 well-known endpoint is queried.
func WithoutLegacy() Option {
	return func(c *clientConfig) {
		c.legacy = false
	}
}

// WithInsecureFallback appends plain-HTTP candidates after the HTTPS
// ones. Only use this for hosts that genuinely cannot serve TLS.
func WithInsecureFallback() Option {
	return func(c *clientConfig) {
		c.insecure = true
	}
}

// RequestOption configures a single lookup.
type RequestOption func(*requestConfig)

// requestConfig holds per-request configuration.
type requestConfig struct {
	rels    []string
	headers map[string]string
}

// WithRel asks the server to limit the response to the given link
// relations. Friendly names from RelNames are resolved to URIs. May be
// repeated; servers are free to ignore it.
func WithRel(rels ...string) RequestOption {
	return func(c *requestConfig) {
		for _, rel := range rels {
			c.rels = append(c.rels, relURI(rel))
		}
	}
}

// WithRequestHeader sets a header for this request only, overriding
// client defaults of the same name.
func WithRequestHeader(key, value string) RequestOption {
	return func(c *requestConfig) {
		if c.headers == nil {
			c.headers = map[string]string{}
		}
		c.headers[key] = value
	}
}
