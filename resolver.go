package webfinger

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// Well-known discovery paths.
const (
	// WellKnownPath is the WebFinger endpoint path (RFC 7033).
	WellKnownPath = "/.well-known/webfinger"

	// HostMetaPath is the legacy host-meta endpoint path (RFC 6415),
	// which serves XRD documents.
	HostMetaPath = "/.well-known/host-meta"

	// HostMetaJSONPath is the legacy JSON host-meta endpoint path from
	// the pre-RFC WebFinger drafts.
	HostMetaJSONPath = "/.well-known/host-meta.json"
)

// Media types accepted from each endpoint generation.
const (
	AcceptJRD = "application/jrd+json, application/json"
	AcceptXRD = "application/xrd+xml, application/xml"
)

// Scheme identifies how a resource identifier was written.
type Scheme int

const (
	// SchemeAcct is an acct: identifier.
	SchemeAcct Scheme = iota + 1
	// SchemeURI is an absolute URI with an authority component.
	SchemeURI
	// SchemeBare is a bare user@host identifier.
	SchemeBare
)

// Resource is a parsed resource identifier. Host is never empty.
type Resource struct {
	Scheme Scheme
	User   string
	Host   string
}

// Candidate is one discovery endpoint to query, produced in priority
// order: the HTTPS well-known endpoint first, then legacy fallbacks.
type Candidate struct {
	URL    string // Absolute query URL
	Legacy bool   // True for pre-RFC fallback endpoints
	Accept string // Media types the endpoint conventionally serves
}

// legacyEndpoint maps a historical descriptor type to its path and
// query convention. The table is fixed; order is priority order.
type legacyEndpoint struct {
	kind   string
	path   string
	query  string
	accept string
}

var legacyEndpoints = []legacyEndpoint{
	{kind: "jrd", path: HostMetaJSONPath, query: "resource", accept: AcceptJRD},
	{kind: "xrd", path: HostMetaPath, query: "resource", accept: AcceptXRD},
}

// ParseResource parses a resource identifier into its scheme, user, and
// host parts. Rules are tried in order: an acct: identifier splits on
// the last @; an absolute URI with an authority uses that authority
// (userinfo becomes the user part); a string with exactly one @ is a
// bare user@host. The host is lower-cased and IDNA-normalized
// (idna.Lookup, so Unicode hosts map deterministically to punycode).
// Anything else fails with a KindContent error.
func ParseResource(resource string) (*Resource, error) {
	if resource == "" {
		return nil, contentError("resource is empty")
	}

	if rest, ok := strings.CutPrefix(resource, "acct:"); ok {
		at := strings.LastIndex(rest, "@")
		if at < 0 {
			return nil, contentError("acct resource %q has no host part", resource)
		}
		host, err := normalizeHost(rest[at+1:])
		if err != nil {
			return nil, err
		}
		return &Resource{Scheme: SchemeAcct, User: rest[:at], Host: host}, nil
	}

	if u, err := url.Parse(resource); err == nil && u.IsAbs() && u.Host != "" {
		host, err := normalizeHost(u.Host)
		if err != nil {
			return nil, err
		}
		return &Resource{Scheme: SchemeURI, User: u.User.Username(), Host: host}, nil
	}

	if strings.Count(resource, "@") == 1 {
		user, rawHost, _ := strings.Cut(resource, "@")
		host, err := normalizeHost(rawHost)
		if err != nil {
			return nil, err
		}
		return &Resource{Scheme: SchemeBare, User: user, Host: host}, nil
	}

	return nil, contentError("cannot extract a host from %q", resource)
}

// normalizeHost lower-cases and IDNA-normalizes a host, keeping any
// port untouched. An empty or malformed host is a KindContent error.
func normalizeHost(host string) (string, error) {
	if host == "" {
		return "", contentError("host is empty")
	}

	name, port := host, ""
	if h, p, err := net.SplitHostPort(host); err == nil {
		name, port = h, p
	}

	name, err := idna.Lookup.ToASCII(strings.ToLower(name))
	if err != nil {
		return "", contentError("malformed host %q: %v", host, err)
	}

	if port != "" {
		return net.JoinHostPort(name, port), nil
	}
	return name, nil
}

// Resolver turns resource identifiers into ordered endpoint candidates.
// The candidate sequence is a pure function of the host and the
// resolver's static configuration; it is never deduplicated or
// reordered at runtime.
type Resolver struct {
	legacy   bool // include legacy fallback endpoints
	insecure bool // append plain-HTTP fallbacks after the HTTPS candidates
}

// NewResolver creates a resolver. Legacy fallback endpoints are
// included; plain-HTTP fallbacks are not.
func NewResolver() *Resolver {
	return &Resolver{legacy: true}
}

// Resolve parses the resource identifier and produces the endpoint
// candidates to query, most preferred first. A bare user@host
// identifier is sent in acct: form, since the resource query parameter
// must be a URI (RFC 7033 section 4.1). It fails with a KindContent
// error if no host can be extracted.
func (r *Resolver) Resolve(resource string) ([]Candidate, error) {
	parsed, err := ParseResource(resource)
	if err != nil {
		return nil, err
	}

	if parsed.Scheme == SchemeBare {
		resource = "acct:" + resource
	}
	query := url.Values{"resource": []string{resource}}.Encode()

	var candidates []Candidate
	appendScheme := func(scheme string) {
		candidates = append(candidates, Candidate{
			URL:    scheme + "://" + parsed.Host + WellKnownPath + "?" + query,
			Accept: AcceptJRD,
		})
		if !r.legacy {
			return
		}
		for _, ep := range legacyEndpoints {
			q := url.Values{ep.query: []string{resource}}.Encode()
			candidates = append(candidates, Candidate{
				URL:    scheme + "://" + parsed.Host + ep.path + "?" + q,
				Legacy: true,
				Accept: ep.accept,
			})
		}
	}

	appendScheme("https")
	if r.insecure {
		appendScheme("http")
	}
	return candidates, nil
}
