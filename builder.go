package webfinger

import (
	"strings"
)

// Builder accumulates a resource descriptor for servers that emit
// WebFinger responses. Arguments are validated at call time with
// KindContent errors; Build itself never fails.
//
// Repeated AddAlias and AddLink calls append, and duplicates are kept:
// a descriptor may legitimately carry the same alias or link twice.
// Repeated SetProperty calls for one URI overwrite.
type Builder struct {
	jrd JRD
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// SetSubject sets the descriptor subject. A bare user@host subject is
// coerced to an acct: URI.
func (b *Builder) SetSubject(subject string) error {
	if subject == "" {
		return contentError("subject is empty")
	}
	if !isURI(subject) {
		if !strings.Contains(subject, "@") {
			return contentError("subject %q is neither a URI nor user@host", subject)
		}
		subject = "acct:" + subject
	}
	b.jrd.Subject = subject
	return nil
}

// AddAlias appends an alias, which must be a URI.
func (b *Builder) AddAlias(alias string) error {
	if !isURI(alias) {
		return contentError("alias %q is not a URI", alias)
	}
	b.jrd.Aliases = append(b.jrd.Aliases, alias)
	return nil
}

// SetProperty sets a property. The key must be a URI; a nil value is
// kept and serializes as JSON null.
func (b *Builder) SetProperty(uri string, value *string) error {
	if !isURI(uri) {
		return contentError("property key %q is not a URI", uri)
	}
	if b.jrd.Properties == nil {
		b.jrd.Properties = map[string]*string{}
	}
	b.jrd.Properties[uri] = value
	return nil
}

// LinkOption sets an optional field on a link being added.
type LinkOption func(*Link)

// LinkType sets the link's media type.
func LinkType(mediaType string) LinkOption {
	return func(l *Link) { l.Type = mediaType }
}

// LinkHref sets the link's target URI.
func LinkHref(href string) LinkOption {
	return func(l *Link) { l.Href = href }
}

// LinkTemplate sets the link's URI template.
func LinkTemplate(template string) LinkOption {
	return func(l *Link) { l.Template = template }
}

// LinkTitles sets the link's language-to-title mapping.
func LinkTitles(titles map[string]string) LinkOption {
	return func(l *Link) {
		l.Titles = make(map[string]string, len(titles))
		for lang, title := range titles {
			l.Titles[lang] = title
		}
	}
}

// LinkProperties sets the link's properties mapping.
func LinkProperties(properties map[string]*string) LinkOption {
	return func(l *Link) {
		l.Properties = make(map[string]*string, len(properties))
		for uri, value := range properties {
			l.Properties[uri] = value
		}
	}
}

// AddLink appends a link with the given relation. Friendly names from
// RelNames are resolved to their URIs; the relation must end up a URI,
// and a href, when set, must be one too.
func (b *Builder) AddLink(rel string, opts ...LinkOption) error {
	rel = relURI(rel)
	if !isURI(rel) {
		return contentError("rel %q is not a URI", rel)
	}

	link := Link{Rel: rel}
	for _, opt := range opts {
		opt(&link)
	}
	if link.Href != "" && !isURI(link.Href) {
		return contentError("href %q is not a URI", link.Href)
	}

	b.jrd.Links = append(b.jrd.Links, link)
	return nil
}

// Build produces the descriptor accumulated so far, deriving the Rels
// index the same way ParseJRD does. The builder remains usable; the
// returned descriptor is an independent copy.
func (b *Builder) Build() *JRD {
	jrd := &JRD{
		Subject: b.jrd.Subject,
		Aliases: append([]string{}, b.jrd.Aliases...),
		Links:   append([]Link{}, b.jrd.Links...),
	}
	jrd.Properties = make(map[string]*string, len(b.jrd.Properties))
	for uri, value := range b.jrd.Properties {
		jrd.Properties[uri] = value
	}
	jrd.normalize()
	return jrd
}

// isURI reports whether a string looks like a URI. Like the descriptor
// format itself, this checks shape only: a scheme delimiter present and
// no surrounding whitespace.
func isURI(s string) bool {
	if s == "" || strings.TrimSpace(s) != s {
		return false
	}
	return strings.Contains(s, ":")
}
