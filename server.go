package webfinger

import (
	"errors"
	"net/http"
	"strings"
)

// ErrNoSuchResource is returned by a Source when it has no descriptor
// for the requested resource.
var ErrNoSuchResource = errors.New("webfinger: no such resource")

// A Source supplies descriptors for a WebFinger endpoint. rels carries
// the relations the requester asked for; a Source may use it to build
// a narrower descriptor or ignore it, since the handler filters links
// either way.
type Source interface {
	Resource(resource string, rels []string) (*JRD, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(resource string, rels []string) (*JRD, error)

// Resource implements Source.
func (f SourceFunc) Resource(resource string, rels []string) (*JRD, error) {
	return f(resource, rels)
}

type handler struct {
	source Source
}

// NewHandler creates an http.Handler serving WebFinger queries from a
// Source, for mounting at WellKnownPath. It answers JRD by default and
// XRD when the Accept header prefers it, filters links by requested
// rel parameters (RFC 7033 section 4.3), and responds 404 for
// resources the Source does not know.
func NewHandler(source Source) http.Handler {
	return &handler{source: source}
}

// ServeHTTP implements http.Handler.
func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Descriptors are public metadata; default CORS to allow-all.
	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		w.Header().Set("Access-Control-Allow-Origin", "*")
	}

	query := r.URL.Query()
	resource := query.Get("resource")
	if resource == "" {
		http.Error(w, "resource query parameter is required", http.StatusBadRequest)
		return
	}
	rels := query["rel"]

	jrd, err := h.source.Resource(resource, rels)
	if errors.Is(err, ErrNoSuchResource) {
		http.NotFound(w, r)
		return
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if len(rels) > 0 {
		jrd = filterRels(jrd, rels)
	}

	var body []byte
	if acceptsXRD(r.Header.Get("Accept")) {
		w.Header().Set("Content-Type", "application/xrd+xml")
		body, err = jrd.MarshalXRD()
	} else {
		w.Header().Set("Content-Type", "application/jrd+json")
		body, err = jrd.MarshalJRD()
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Write(body)
}

// filterRels returns a copy of the descriptor keeping only links whose
// rel is among the requested ones, in their original order.
func filterRels(jrd *JRD, rels []string) *JRD {
	keep := make(map[string]bool, len(rels))
	for _, rel := range rels {
		keep[rel] = true
	}

	filtered := &JRD{
		Subject:    jrd.Subject,
		Aliases:    jrd.Aliases,
		Properties: jrd.Properties,
		Links:      []Link{},
	}
	for _, link := range jrd.Links {
		if keep[link.Rel] {
			filtered.Links = append(filtered.Links, link)
		}
	}
	filtered.Rels = buildRels(filtered.Links)
	return filtered
}

// acceptsXRD reports whether the Accept header asks for the legacy XML
// descriptor format rather than JRD.
func acceptsXRD(accept string) bool {
	for _, part := range strings.Split(accept, ",") {
		mediaType := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		switch mediaType {
		case "application/jrd+json", "application/json":
			return false
		case "application/xrd+xml", "application/xml":
			return true
		}
	}
	return false
}
