package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/ytu-events-rss/internal/event"
	"github.com/pfrederiksen/ytu-events-rss/internal/patterns"
)

// anchors turns links to event pages into candidates. A link only counts
// when a time or venue sits next to it; bare menu links do not.
func (x *Extractor) anchors(src *Source) []event.Candidate {
	doc := src.Document()
	if doc == nil {
		return nil
	}
	set := x.patterns

	var candidates []event.Candidate
	doc.Find(strings.Join(set.Selectors.EventLinks, ", ")).Each(func(_ int, a *goquery.Selection) {
		title := patterns.CollapseSpace(a.Text())
		if title == "" || set.IsNavArtifact(title) || set.ContainsAnyLabel(title) {
			return
		}
		href, _ := a.Attr("href")
		parent := a.Parent()

		cand := event.Candidate{
			Title:    title,
			URL:      href,
			Date:     x.dateNear(parent),
			Time:     x.valueNear(parent, patterns.LabelTime),
			Location: x.valueNear(parent, patterns.LabelVenue),
		}
		if cand.Time == "" && cand.Location == "" {
			return
		}
		candidates = append(candidates, cand)
	})
	return candidates
}

// valueNear reads a labelled value from el itself or from a field element
// among its siblings.
func (x *Extractor) valueNear(el *goquery.Selection, label patterns.Label) string {
	if el.Length() == 0 {
		return ""
	}
	if nodes := labelNodes(x.patterns, el, label); len(nodes) > 0 {
		return labelledValue(x.patterns, nodes[0], label)
	}
	if value, ok := x.patterns.LabelValue(el.Text(), label); ok {
		return value
	}
	if parent := el.Parent(); parent.Length() > 0 {
		if nodes := labelNodes(x.patterns, parent, label); len(nodes) > 0 {
			return labelledValue(x.patterns, nodes[0], label)
		}
	}
	return ""
}

// dateNear finds a date in el's text, then in its parent's.
func (x *Extractor) dateNear(el *goquery.Selection) string {
	if el.Length() == 0 {
		return ""
	}
	if date := x.patterns.FindDate(el.Text()); date != "" {
		return date
	}
	return x.patterns.FindDate(el.Parent().Text())
}
