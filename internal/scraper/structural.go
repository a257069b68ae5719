package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/ytu-events-rss/internal/event"
)

// structural scans event card containers and reads each field through its
// prioritized selector hints. Containers without a title are dropped.
func (x *Extractor) structural(src *Source) []event.Candidate {
	doc := src.Document()
	if doc == nil {
		return nil
	}
	sel := x.patterns.Selectors

	var candidates []event.Candidate
	doc.Find(strings.Join(sel.Containers, ", ")).Each(func(_ int, c *goquery.Selection) {
		cand := event.Candidate{
			Title:       firstText(c, sel.Title),
			URL:         firstAttr(c, sel.Link, "href"),
			Date:        firstText(c, sel.Date),
			Time:        firstText(c, sel.Time),
			Location:    firstText(c, sel.Location),
			Description: firstText(c, sel.Description),
		}
		if cand.Title == "" {
			return
		}
		candidates = append(candidates, cand)
	})
	return candidates
}
