package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"
)

// maxBodySize caps how much of a response body is read. Resource
// descriptors are small; anything larger is not one.
const maxBodySize = 1 << 20

// HTTP is the blocking transport backend over net/http. Get blocks the
// calling goroutine until the response arrives or the request fails.
type HTTP struct {
	timeout   time.Duration
	tlsConfig *tls.Config
}

// HTTPOption configures an HTTP backend.
type HTTPOption func(*HTTP)

// WithTimeout sets the per-request timeout applied to sessions this
// backend creates (default 30s; zero means no timeout).
func WithTimeout(d time.Duration) HTTPOption {
	return func(h *HTTP) {
		h.timeout = d
	}
}

// WithTLSConfig sets the TLS configuration applied to sessions this
// backend creates.
func WithTLSConfig(config *tls.Config) HTTPOption {
	return func(h *HTTP) {
		h.tlsConfig = config
	}
}

// NewHTTP creates a blocking HTTP backend.
func NewHTTP(opts ...HTTPOption) *HTTP {
	h := &HTTP{
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Name implements Backend.
func (h *HTTP) Name() string { return "http" }

// NewSession implements Backend. The session wraps a dedicated
// http.Client whose connection pool is released on Close.
func (h *HTTP) NewSession() Session {
	client := &http.Client{Timeout: h.timeout}
	if h.tlsConfig != nil {
		client.Transport = &http.Transport{TLSClientConfig: h.tlsConfig.Clone()}
	}
	return NewHTTPSession(client)
}

// Get implements Backend.
func (h *HTTP) Get(ctx context.Context, url string, headers map[string]string, s Session) (*Response, error) {
	hs, ok := s.(*httpSession)
	if !ok {
		return nil, errors.New("transport: session is not an HTTP session")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := hs.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// httpSession wraps an http.Client as a Session.
type httpSession struct {
	client *http.Client
	closed atomic.Bool
}

// NewHTTPSession wraps an existing http.Client as a Session, letting a
// caller share one connection pool across clients. The caller keeps
// ownership: a WebFinger client never closes a session it was handed.
func NewHTTPSession(client *http.Client) Session {
	return &httpSession{client: client}
}

// Close releases idle connections. Later calls are no-ops.
func (s *httpSession) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.client.CloseIdleConnections()
	return nil
}
