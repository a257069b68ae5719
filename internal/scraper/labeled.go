package scraper

import (
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/ytu-events-rss/internal/event"
	"github.com/pfrederiksen/ytu-events-rss/internal/patterns"
	"golang.org/x/net/html"
)

const (
	// How far up from a "Saat :" node an event boundary is searched for.
	maxBoundaryLevels = 3
	// Paragraphs shorter than this are not used as a fallback title.
	minParagraphTitle = 10
	maxParagraphTitle = 100
)

// labeled rebuilds events around "Saat :" nodes when the page has no event
// cards: the nearest ancestor with at least two block children, holding no
// other time node, is the event boundary.
func (x *Extractor) labeled(src *Source) []event.Candidate {
	doc := src.Document()
	if doc == nil {
		return nil
	}
	set := x.patterns
	root := contentArea(set, doc)

	seen := make(map[*html.Node]bool)
	var candidates []event.Candidate
	for _, tn := range labelNodes(set, root, patterns.LabelTime) {
		boundary := x.eventBoundary(tn)
		if boundary == nil || seen[boundary.Get(0)] {
			continue
		}
		seen[boundary.Get(0)] = true

		cand := x.fromBoundary(boundary, tn)
		if cand.Title == "" || set.IsNavArtifact(cand.Title) {
			continue
		}
		candidates = append(candidates, cand)
	}
	return candidates
}

// contentArea returns the main content region, or the whole document.
func contentArea(set *patterns.Set, doc *goquery.Document) *goquery.Selection {
	for _, sel := range set.Selectors.ContentArea {
		if area := doc.Find(sel).First(); area.Length() > 0 {
			return area
		}
	}
	return doc.Selection
}

func (x *Extractor) eventBoundary(tn *goquery.Selection) *goquery.Selection {
	cur := tn
	for i := 0; i < maxBoundaryLevels; i++ {
		cur = cur.Parent()
		if cur.Length() == 0 {
			return nil
		}
		if !boundaryTags[goquery.NodeName(cur)] || cur.ChildrenFiltered("div, p, span").Length() < 2 {
			continue
		}
		if len(labelNodes(x.patterns, cur, patterns.LabelTime)) != 1 {
			// A list holding several events is not one event's boundary.
			return nil
		}
		return cur
	}
	return nil
}

func (x *Extractor) fromBoundary(boundary, tn *goquery.Selection) event.Candidate {
	set := x.patterns
	cand := event.Candidate{
		Time: labelledValue(set, tn, patterns.LabelTime),
		Date: set.FindDate(boundary.Text()),
	}
	if href, ok := boundary.Find("a[href]").First().Attr("href"); ok {
		cand.URL = href
	}
	if venues := labelNodes(set, boundary, patterns.LabelVenue); len(venues) > 0 {
		cand.Location = labelledValue(set, venues[0], patterns.LabelVenue)
	}

	cand.Title = x.boundaryTitle(boundary, tn)
	return cand
}

// boundaryTitle resolves the nearest heading before the time node: first
// inside the boundary, then among the boundary's earlier siblings up to the
// previous event. A heading-like element anywhere in the boundary comes next
// and a substantial paragraph last.
func (x *Extractor) boundaryTitle(boundary, tn *goquery.Selection) string {
	set := x.patterns
	if title := headingBefore(set, tn.Get(0), boundary.Get(0)); title != "" {
		return title
	}

	var title string
	boundary.PrevAll().EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if set.HasLabel(s.Text(), patterns.LabelTime) {
			// Belongs to the previous event.
			return false
		}
		if !headingTags[goquery.NodeName(s)] {
			return true
		}
		text := patterns.CollapseSpace(s.Text())
		if text == "" || set.ContainsAnyLabel(text) || set.IsNavArtifact(text) {
			return true
		}
		title = text
		return false
	})
	if title != "" {
		return title
	}

	if title := headingText(set, boundary); title != "" {
		return title
	}
	return paragraphTitle(set, boundary)
}

// paragraphTitle returns the first substantial paragraph without field labels.
func paragraphTitle(set *patterns.Set, root *goquery.Selection) string {
	var title string
	root.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := patterns.CollapseSpace(p.Text())
		if utf8.RuneCountInString(text) <= minParagraphTitle || set.ContainsAnyLabel(text) {
			return true
		}
		title = truncateRunes(text, maxParagraphTitle)
		return false
	})
	return title
}
