package webfinger

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/webfingerd/webfinger-go/transport"
)

// fakeBackend routes requests by host+path and records everything the
// client sends, so candidate order and header merging can be asserted
// without a network.
type fakeBackend struct {
	results  map[string]fakeResult
	urls     []string
	headers  []map[string]string
	sessions int
}

type fakeResult struct {
	status      int
	contentType string
	body        string
}

type fakeSession struct {
	closes int
}

func (s *fakeSession) Close() error {
	s.closes++
	return nil
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) NewSession() transport.Session {
	b.sessions++
	return &fakeSession{}
}

func (b *fakeBackend) Get(ctx context.Context, rawURL string, headers map[string]string, s transport.Session) (*transport.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.urls = append(b.urls, rawURL)
	b.headers = append(b.headers, headers)

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	result, ok := b.results[u.Host+u.Path]
	if !ok {
		return nil, errors.New("connection refused")
	}
	return &transport.Response{
		StatusCode:  result.status,
		ContentType: result.contentType,
		Body:        []byte(result.body),
	}, nil
}

const aliceJRD = `{
	"subject": "acct:alice@example.org",
	"links": [{"rel": "http://webfinger.net/rel/profile-page",
	           "type": "text/html",
	           "href": "https://example.org/alice"}]
}`

func newTestClient(t *testing.T, backend *fakeBackend, opts ...Option) *Client {
	t.Helper()
	client, err := New(append([]Option{WithBackend(backend)}, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestFinger(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{results: map[string]fakeResult{
		"example.org" + WellKnownPath: {200, "application/jrd+json", aliceJRD},
	}}
	client := newTestClient(t, backend)

	jrd, err := client.Finger(context.Background(), "acct:alice@example.org")
	if err != nil {
		t.Fatal(err)
	}
	if jrd.Subject != "acct:alice@example.org" {
		t.Fatalf("subject=%q", jrd.Subject)
	}
	links := jrd.Rel("profile")
	if len(links) != 1 || links[0].Href != "https://example.org/alice" {
		t.Fatalf("profile=%+v", links)
	}
	if len(backend.urls) != 1 {
		t.Fatalf("calls=%d want=1", len(backend.urls))
	}
}

func TestFingerLegacyFallback(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{results: map[string]fakeResult{
		"example.org" + WellKnownPath:    {404, "text/plain", "not here"},
		"example.org" + HostMetaJSONPath: {200, "application/json", aliceJRD},
	}}
	client := newTestClient(t, backend)

	jrd, err := client.Finger(context.Background(), "alice@example.org")
	if err != nil {
		t.Fatal(err)
	}
	if jrd.Subject != "acct:alice@example.org" {
		t.Fatalf("subject=%q", jrd.Subject)
	}

	if len(backend.urls) != 2 {
		t.Fatalf("calls=%d want=2", len(backend.urls))
	}
	if !strings.Contains(backend.urls[0], WellKnownPath) {
		t.Fatalf("urls[0]=%q", backend.urls[0])
	}
	if !strings.Contains(backend.urls[1], HostMetaJSONPath) {
		t.Fatalf("urls[1]=%q", backend.urls[1])
	}
}

func TestFingerXRDFallback(t *testing.T) {
	t.Parallel()

	const xrd = `<?xml version="1.0" encoding="UTF-8"?>
<XRD xmlns="http://docs.oasis-open.org/ns/xri/xrd-1.0">
  <Subject>acct:alice@example.org</Subject>
  <Link rel="http://webfinger.net/rel/profile-page" href="https://example.org/alice"/>
</XRD>`

	backend := &fakeBackend{results: map[string]fakeResult{
		"example.org" + WellKnownPath:    {404, "", ""},
		"example.org" + HostMetaJSONPath: {404, "", ""},
		"example.org" + HostMetaPath:     {200, "application/xrd+xml; charset=utf-8", xrd},
	}}
	client := newTestClient(t, backend)

	jrd, err := client.Finger(context.Background(), "alice@example.org")
	if err != nil {
		t.Fatal(err)
	}
	if jrd.Subject != "acct:alice@example.org" {
		t.Fatalf("subject=%q", jrd.Subject)
	}
	if len(jrd.Rel("profile")) != 1 {
		t.Fatalf("rels=%+v", jrd.Rels)
	}
}

func TestFingerHTTPError(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{results: map[string]fakeResult{
		"example.org" + WellKnownPath:    {404, "", ""},
		"example.org" + HostMetaJSONPath: {410, "", ""},
		"example.org" + HostMetaPath:     {500, "", ""},
	}}
	client := newTestClient(t, backend)

	_, err := client.Finger(context.Background(), "alice@example.org")
	if !IsHTTP(err) {
		t.Fatalf("err=%v, want HTTP error", err)
	}
	// The reported status is the final candidate's.
	if got := StatusCode(err); got != 500 {
		t.Fatalf("status=%d want=500", got)
	}
	if len(backend.urls) != 3 {
		t.Fatalf("calls=%d want=3", len(backend.urls))
	}
}

func TestFingerNetworkExhaustion(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{results: map[string]fakeResult{}}
	client := newTestClient(t, backend)

	_, err := client.Finger(context.Background(), "alice@unreachable.example")
	if !IsNetwork(err) {
		t.Fatalf("err=%v, want network error", err)
	}
	if len(backend.urls) != 3 {
		t.Fatalf("calls=%d want=3", len(backend.urls))
	}
}

func TestFingerMixedFailureModes(t *testing.T) {
	t.Parallel()

	// Transport failure on the first candidate, HTTP failure on the
	// last; the final candidate's status wins.
	backend := &fakeBackend{results: map[string]fakeResult{
		"example.org" + HostMetaJSONPath: {404, "", ""},
		"example.org" + HostMetaPath:     {404, "", ""},
	}}
	client := newTestClient(t, backend)

	_, err := client.Finger(context.Background(), "alice@example.org")
	if !IsHTTP(err) {
		t.Fatalf("err=%v, want HTTP error", err)
	}
	if got := StatusCode(err); got != 404 {
		t.Fatalf("status=%d want=404", got)
	}
}

func TestFingerMalformedResource(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	client := newTestClient(t, backend)

	_, err := client.Finger(context.Background(), "not-a-resource")
	if !IsContent(err) {
		t.Fatalf("err=%v, want content error", err)
	}
	if len(backend.urls) != 0 {
		t.Fatalf("calls=%d want=0", len(backend.urls))
	}
}

func TestFingerMalformedBody(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{results: map[string]fakeResult{
		"example.org" + WellKnownPath: {200, "application/jrd+json", `{"links": "nope"}`},
	}}
	client := newTestClient(t, backend)

	_, err := client.Finger(context.Background(), "alice@example.org")
	if !IsJRD(err) {
		t.Fatalf("err=%v, want JRD error", err)
	}
	var e *Error
	if !errors.As(err, &e) || !strings.Contains(e.URL, WellKnownPath) {
		t.Fatalf("error URL not set: %v", err)
	}
}

func TestFingerUnacceptableContentType(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{results: map[string]fakeResult{
		"example.org" + WellKnownPath: {200, "text/html", "<html></html>"},
	}}
	client := newTestClient(t, backend)

	_, err := client.Finger(context.Background(), "alice@example.org")
	if !IsContent(err) {
		t.Fatalf("err=%v, want content error", err)
	}
}

func TestFingerHeaders(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{results: map[string]fakeResult{
		"example.org" + WellKnownPath: {200, "application/jrd+json", aliceJRD},
	}}
	client := newTestClient(t, backend,
		WithUserAgent("probe/2.0"),
		WithHeader("X-Trace", "client"),
		WithHeader("X-Shared", "client"),
	)

	_, err := client.Finger(context.Background(), "alice@example.org",
		WithRequestHeader("X-Shared", "request"),
	)
	if err != nil {
		t.Fatal(err)
	}

	headers := backend.headers[0]
	if headers["User-Agent"] != "probe/2.0" {
		t.Fatalf("user agent=%q", headers["User-Agent"])
	}
	if headers["Accept"] != AcceptJRD {
		t.Fatalf("accept=%q", headers["Accept"])
	}
	if headers["X-Trace"] != "client" {
		t.Fatalf("x-trace=%q", headers["X-Trace"])
	}
	if headers["X-Shared"] != "request" {
		t.Fatalf("x-shared=%q", headers["X-Shared"])
	}
}

func TestFingerRelParameter(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{results: map[string]fakeResult{
		"example.org" + WellKnownPath: {200, "application/jrd+json", aliceJRD},
	}}
	client := newTestClient(t, backend)

	_, err := client.Finger(context.Background(), "alice@example.org",
		WithRel("profile", "http://webfinger.net/rel/avatar"),
	)
	if err != nil {
		t.Fatal(err)
	}

	u, err := url.Parse(backend.urls[0])
	if err != nil {
		t.Fatal(err)
	}
	rels := u.Query()["rel"]
	want := []string{"http://webfinger.net/rel/profile-page", "http://webfinger.net/rel/avatar"}
	if len(rels) != 2 || rels[0] != want[0] || rels[1] != want[1] {
		t.Fatalf("rel=%v want=%v", rels, want)
	}
	if u.Query().Get("resource") != "acct:alice@example.org" {
		t.Fatalf("resource=%q", u.Query().Get("resource"))
	}
}

func TestFingerCancellation(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	client := newTestClient(t, backend)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Finger(ctx, "alice@example.org")
	if !IsNetwork(err) {
		t.Fatalf("err=%v, want network error", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v, want context.Canceled in chain", err)
	}
}

func TestClientCloseOwnedSession(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{results: map[string]fakeResult{
		"example.org" + WellKnownPath: {200, "application/jrd+json", aliceJRD},
	}}
	client := newTestClient(t, backend)

	if _, err := client.Finger(context.Background(), "alice@example.org"); err != nil {
		t.Fatal(err)
	}
	session := client.session.(*fakeSession)

	if err := client.Close(); err != nil {
		t.Fatal(err)
	}
	if err := client.Close(); err != nil {
		t.Fatal(err)
	}
	if session.closes != 1 {
		t.Fatalf("closes=%d want=1", session.closes)
	}

	// A lookup after Close transparently opens a fresh session.
	if _, err := client.Finger(context.Background(), "alice@example.org"); err != nil {
		t.Fatal(err)
	}
	if backend.sessions != 2 {
		t.Fatalf("sessions=%d want=2", backend.sessions)
	}
}

func TestClientKeepsCallerSession(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{results: map[string]fakeResult{
		"example.org" + WellKnownPath: {200, "application/jrd+json", aliceJRD},
	}}
	session := &fakeSession{}
	client := newTestClient(t, backend, WithSession(session))

	if _, err := client.Finger(context.Background(), "alice@example.org"); err != nil {
		t.Fatal(err)
	}
	if err := client.Close(); err != nil {
		t.Fatal(err)
	}
	if session.closes != 0 {
		t.Fatalf("closes=%d want=0", session.closes)
	}
	if backend.sessions != 0 {
		t.Fatalf("sessions=%d want=0", backend.sessions)
	}
}

func TestFingerWithoutLegacy(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{results: map[string]fakeResult{
		"example.org" + WellKnownPath: {404, "", ""},
	}}
	client := newTestClient(t, backend, WithoutLegacy())

	_, err := client.Finger(context.Background(), "alice@example.org")
	if !IsHTTP(err) {
		t.Fatalf("err=%v, want HTTP error", err)
	}
	if len(backend.urls) != 1 {
		t.Fatalf("calls=%d want=1", len(backend.urls))
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	t.Parallel()

	if _, err := New(WithUserAgent("")); err == nil {
		t.Fatal("empty user agent accepted")
	}
	if _, err := New(WithTimeout(-1)); err == nil {
		t.Fatal("negative timeout accepted")
	}
}
