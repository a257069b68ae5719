package scraper

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// Source is the raw input to extraction: a parsed HTML document or a flat
// text blob pasted from the page.
type Source struct {
	doc  *goquery.Document
	text string
}

// NewHTMLSource parses markup into a Source.
func NewHTMLSource(r io.Reader) (*Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading HTML: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(norm.NFC.String(string(data))))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return &Source{doc: doc, text: visibleText(doc.Get(0))}, nil
}

// NewTextSource wraps a text blob. Only the flat-text strategy applies to it.
func NewTextSource(text string) *Source {
	return &Source{text: norm.NFC.String(text)}
}

// Document returns the parsed document, or nil for a text source.
func (s *Source) Document() *goquery.Document {
	return s.doc
}

// Text returns the visible text with script and style contents dropped.
// Text nodes are concatenated without separators, the way the page renders
// into copied text.
func (s *Source) Text() string {
	return s.text
}

func visibleText(root *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "template":
				return
			}
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return b.String()
}
