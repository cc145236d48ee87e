package tier2

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// document is the subset of a landing page the checks look at.
type document struct {
	raw      string
	title    string
	hasTitle bool
	metas    []metaTag
	links    []linkTag
}

type metaTag struct {
	name     string
	property string
	content  string
}

type linkTag struct {
	rel  []string
	href string
}

func parseDocument(body []byte) document {
	doc := document{raw: string(body)}
	z := html.NewTokenizer(bytes.NewReader(body))
	inTitle := false
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			doc.title = strings.TrimSpace(doc.title)
			return doc
		case html.TextToken:
			if inTitle {
				doc.title += string(z.Text())
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); atom.Lookup(name) == atom.Title {
				inTitle = false
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Title:
				if !doc.hasTitle {
					doc.hasTitle = true
					inTitle = tt == html.StartTagToken
				}
			case atom.Meta:
				doc.metas = append(doc.metas, metaTag{
					name:     strings.ToLower(attr(tok, "name")),
					property: strings.ToLower(attr(tok, "property")),
					content:  attr(tok, "content"),
				})
			case atom.Link:
				doc.links = append(doc.links, linkTag{
					rel:  strings.Fields(strings.ToLower(attr(tok, "rel"))),
					href: attr(tok, "href"),
				})
			}
		}
	}
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func (d document) meta(name string) (metaTag, bool) {
	for _, m := range d.metas {
		if m.name == name {
			return m, true
		}
	}
	return metaTag{}, false
}

// ogContent returns the content of a non-empty og: property.
func (d document) ogContent(property string) string {
	for _, m := range d.metas {
		if m.property == property && strings.TrimSpace(m.content) != "" {
			return m.content
		}
	}
	return ""
}

func (d document) hasCanonical() bool {
	for _, l := range d.links {
		for _, r := range l.rel {
			if r == "canonical" {
				return true
			}
		}
	}
	return false
}

func (d document) noindex() bool {
	m, ok := d.meta("robots")
	return ok && strings.Contains(strings.ToLower(m.content), "noindex")
}

func (d document) hasViewport() bool {
	_, ok := d.meta("viewport")
	return ok
}
