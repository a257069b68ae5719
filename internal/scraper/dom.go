package scraper

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/ytu-events-rss/internal/patterns"
	"golang.org/x/net/html"
)

// Tags that can carry a "Saat :" or "Yer :" field on the page.
const fieldTags = "div, p, span, li"

var (
	boundaryTags = map[string]bool{"div": true, "article": true, "section": true, "li": true}
	headingTags  = map[string]bool{"h1": true, "h2": true, "h3": true, "h4": true, "h5": true}
)

// labelNodes returns the innermost field elements under root whose text
// carries label, in document order.
func labelNodes(set *patterns.Set, root *goquery.Selection, label patterns.Label) []*goquery.Selection {
	var nodes []*goquery.Selection
	root.Find(fieldTags).Each(func(_ int, s *goquery.Selection) {
		if !set.HasLabel(s.Text(), label) {
			return
		}
		inner := s.Find(fieldTags).FilterFunction(func(_ int, d *goquery.Selection) bool {
			return set.HasLabel(d.Text(), label)
		})
		if inner.Length() == 0 {
			nodes = append(nodes, s)
		}
	})
	return nodes
}

// labelledValue reads the value after label from s. When s holds only the
// label ("<span>Saat :</span> 10:00"), up to two ancestors are tried.
func labelledValue(set *patterns.Set, s *goquery.Selection, label patterns.Label) string {
	cur := s
	for i := 0; i < 3 && cur.Length() > 0; i++ {
		if value, ok := set.LabelValue(cur.Text(), label); ok && value != "" {
			return value
		}
		cur = cur.Parent()
	}
	return ""
}

// firstText returns the text of the first element matched by the first
// selector, in priority order, that yields non-empty text.
func firstText(root *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		if text := patterns.CollapseSpace(root.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// firstAttr returns attr of the first element matched by selectors in priority order.
func firstAttr(root *goquery.Selection, selectors []string, attr string) string {
	for _, sel := range selectors {
		if value, ok := root.Find(sel).First().Attr(attr); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// headingText returns the first heading-like element under root whose text
// carries no field label.
func headingText(set *patterns.Set, root *goquery.Selection) string {
	for _, sel := range set.Selectors.Headings {
		var found string
		root.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := patterns.CollapseSpace(s.Text())
			if text == "" || set.ContainsAnyLabel(text) {
				return true
			}
			found = text
			return false
		})
		if found != "" {
			return found
		}
	}
	return ""
}

// precedingHeading walks backwards in document order from n and returns the
// text of the first h1-h5 without a field label.
func precedingHeading(set *patterns.Set, n *html.Node) string {
	return headingBefore(set, n, nil)
}

// headingBefore is precedingHeading that gives up on reaching stop.
func headingBefore(set *patterns.Set, n, stop *html.Node) string {
	for cur := prevInDocument(n); cur != nil && cur != stop; cur = prevInDocument(cur) {
		if cur.Type != html.ElementNode || !headingTags[cur.Data] {
			continue
		}
		text := patterns.CollapseSpace(nodeText(cur))
		if text != "" && !set.ContainsAnyLabel(text) {
			return text
		}
	}
	return ""
}

func prevInDocument(n *html.Node) *html.Node {
	if n.PrevSibling != nil {
		n = n.PrevSibling
		for n.LastChild != nil {
			n = n.LastChild
		}
		return n
	}
	return n.Parent
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// span is an element's extent in the document's concatenated text.
type span struct {
	start, end int
}

// textSpans maps every element under root to the byte range its text covers.
func textSpans(root *html.Node) map[*html.Node]span {
	spans := make(map[*html.Node]span)
	offset := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		start := offset
		if n.Type == html.TextNode {
			offset += len(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode {
			spans[n] = span{start: start, end: offset}
		}
	}
	walk(root)
	return spans
}

// gap is the text distance between two spans, zero when they touch or overlap.
func gap(a, b span) int {
	switch {
	case a.end <= b.start:
		return b.start - a.end
	case b.end <= a.start:
		return a.start - b.end
	default:
		return 0
	}
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}
