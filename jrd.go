package webfinger

import (
	"bytes"
	"encoding/json"
)

// A Link relates the descriptor's subject to another resource.
type Link struct {
	Rel        string             `json:"rel"`
	Type       string             `json:"type,omitempty"`
	Href       string             `json:"href,omitempty"`
	Template   string             `json:"template,omitempty"`
	Titles     map[string]string  `json:"titles,omitempty"`
	Properties map[string]*string `json:"properties,omitempty"`
}

// JRD is a parsed JSON Resource Descriptor (RFC 7033 section 4.4).
//
// Rels groups Links by relation, preserving the order of Links within
// each group. It is derived from Links: ParseJRD and Builder.Build
// rebuild it, and it must not be set independently. Treat a JRD as
// read-only once constructed.
type JRD struct {
	Subject    string             `json:"subject,omitempty"`
	Aliases    []string           `json:"aliases,omitempty"`
	Properties map[string]*string `json:"properties,omitempty"`
	Links      []Link             `json:"links,omitempty"`
	Rels       map[string][]Link  `json:"-"`
}

// ParseJRD decodes a JSON resource descriptor. It returns a KindJRD
// error if the top-level value is not an object, links is not an array
// of objects each carrying a string rel, aliases is not an array of
// strings, or properties is not an object of string-or-null values.
// Missing optional fields decode to empty containers.
func ParseJRD(data []byte) (*JRD, error) {
	// json.Unmarshal into a struct accepts a top-level null, which is
	// not an object; check the first token before decoding.
	tok, err := json.NewDecoder(bytes.NewReader(data)).Token()
	if err != nil {
		return nil, jrdError(err, "malformed descriptor")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, jrdError(nil, "descriptor is not a JSON object")
	}

	// Aliases decode through *string so null elements, which unmarshal
	// into a plain string silently, are caught.
	var wire struct {
		Subject    string             `json:"subject"`
		Aliases    []*string          `json:"aliases"`
		Properties map[string]*string `json:"properties"`
		Links      []Link             `json:"links"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, jrdError(err, "malformed descriptor")
	}

	jrd := &JRD{
		Subject:    wire.Subject,
		Properties: wire.Properties,
		Links:      wire.Links,
	}
	for i, alias := range wire.Aliases {
		if alias == nil {
			return nil, jrdError(nil, "aliases[%d] is not a string", i)
		}
		jrd.Aliases = append(jrd.Aliases, *alias)
	}
	for i, link := range jrd.Links {
		if link.Rel == "" {
			return nil, jrdError(nil, "links[%d] is missing the required rel", i)
		}
	}
	jrd.normalize()
	return jrd, nil
}

// MarshalJRD is the inverse of ParseJRD: it serializes the descriptor
// as JSON, omitting empty containers. ParseJRD(MarshalJRD(j)) yields a
// descriptor equal to j.
func (j *JRD) MarshalJRD() ([]byte, error) {
	data, err := json.Marshal(j)
	if err != nil {
		return nil, jrdError(err, "encode descriptor")
	}
	return data, nil
}

// Rel returns the links carrying the given relation in descriptor
// order, or nil if there are none. Friendly names from RelNames are
// accepted in place of the relation URI.
func (j *JRD) Rel(relation string) []Link {
	return j.Rels[relURI(relation)]
}

// normalize replaces absent containers with empty ones and rebuilds the
// derived Rels index.
func (j *JRD) normalize() {
	if j.Aliases == nil {
		j.Aliases = []string{}
	}
	if j.Properties == nil {
		j.Properties = map[string]*string{}
	}
	if j.Links == nil {
		j.Links = []Link{}
	}
	j.Rels = buildRels(j.Links)
}

// buildRels builds the relation index: a stable multimap keyed by each
// link's rel, appending in links order. No sorting, no deduplication.
func buildRels(links []Link) map[string][]Link {
	rels := make(map[string][]Link, len(links))
	for _, link := range links {
		rels[link.Rel] = append(rels[link.Rel], link)
	}
	return rels
}
