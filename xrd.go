package webfinger

import (
	"encoding/xml"
)

// XRD is the XML resource descriptor format served by legacy host-meta
// endpoints (RFC 6415). These wire structures mirror the XRD 1.0
// schema; ParseXRD and MarshalXRD convert between them and the JRD
// model so callers only ever see one descriptor type.

type xrdDescriptor struct {
	XMLName    xml.Name      `xml:"http://docs.oasis-open.org/ns/xri/xrd-1.0 XRD"`
	Subject    string        `xml:"Subject,omitempty"`
	Aliases    []string      `xml:"Alias"`
	Properties []xrdProperty `xml:"Property"`
	Links      []xrdLink     `xml:"Link"`
}

type xrdLink struct {
	Rel        string        `xml:"rel,attr"`
	Type       string        `xml:"type,attr,omitempty"`
	Href       string        `xml:"href,attr,omitempty"`
	Template   string        `xml:"template,attr,omitempty"`
	Titles     []xrdTitle    `xml:"Title"`
	Properties []xrdProperty `xml:"Property"`
}

type xrdTitle struct {
	Lang  string `xml:"lang,attr,omitempty"`
	Value string `xml:",chardata"`
}

type xrdProperty struct {
	Type  string `xml:"type,attr"`
	Nil   string `xml:"nil,attr,omitempty"`
	Value string `xml:",chardata"`
}

// ParseXRD decodes a legacy XML resource descriptor into the JRD model.
// Structural failures are KindJRD errors, same as ParseJRD.
func ParseXRD(data []byte) (*JRD, error) {
	var doc xrdDescriptor
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, jrdError(err, "malformed XRD descriptor")
	}

	jrd := &JRD{
		Subject: doc.Subject,
		Aliases: doc.Aliases,
	}
	if len(doc.Properties) > 0 {
		jrd.Properties = propertiesFromXRD(doc.Properties)
	}
	for i, link := range doc.Links {
		if link.Rel == "" {
			return nil, jrdError(nil, "XRD link %d is missing the required rel", i)
		}
		l := Link{
			Rel:      link.Rel,
			Type:     link.Type,
			Href:     link.Href,
			Template: link.Template,
		}
		if len(link.Titles) > 0 {
			l.Titles = make(map[string]string, len(link.Titles))
			for _, title := range link.Titles {
				lang := title.Lang
				if lang == "" {
					lang = "und"
				}
				l.Titles[lang] = title.Value
			}
		}
		if len(link.Properties) > 0 {
			l.Properties = propertiesFromXRD(link.Properties)
		}
		jrd.Links = append(jrd.Links, l)
	}
	jrd.normalize()
	return jrd, nil
}

// MarshalXRD serializes the descriptor as XRD XML, prefixed with the
// standard XML header.
func (j *JRD) MarshalXRD() ([]byte, error) {
	doc := xrdDescriptor{
		Subject:    j.Subject,
		Aliases:    j.Aliases,
		Properties: propertiesToXRD(j.Properties),
	}
	for _, link := range j.Links {
		xl := xrdLink{
			Rel:        link.Rel,
			Type:       link.Type,
			Href:       link.Href,
			Template:   link.Template,
			Properties: propertiesToXRD(link.Properties),
		}
		for lang, value := range link.Titles {
			xl.Titles = append(xl.Titles, xrdTitle{Lang: lang, Value: value})
		}
		doc.Links = append(doc.Links, xl)
	}

	data, err := xml.Marshal(&doc)
	if err != nil {
		return nil, jrdError(err, "encode XRD descriptor")
	}
	return append([]byte(xml.Header), data...), nil
}

func propertiesFromXRD(props []xrdProperty) map[string]*string {
	m := make(map[string]*string, len(props))
	for _, p := range props {
		if p.Nil == "true" {
			m[p.Type] = nil
			continue
		}
		value := p.Value
		m[p.Type] = &value
	}
	return m
}

func propertiesToXRD(props map[string]*string) []xrdProperty {
	out := make([]xrdProperty, 0, len(props))
	for uri, value := range props {
		p := xrdProperty{Type: uri}
		if value == nil {
			p.Nil = "true"
		} else {
			p.Value = *value
		}
		out = append(out, p)
	}
	return out
}
