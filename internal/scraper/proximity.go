package scraper

import (
	"sort"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/ytu-events-rss/internal/event"
	"github.com/pfrederiksen/ytu-events-rss/internal/patterns"
)

// proximity pairs isolated venue nodes with the nearest time node, measured
// as the text distance between them in document order. On a tie the time
// node before the venue wins. A venue whose nearest time node is already
// taken, or a page without time nodes, gives a venue-only candidate.
func (x *Extractor) proximity(src *Source) []event.Candidate {
	doc := src.Document()
	if doc == nil {
		return nil
	}
	set := x.patterns

	timeNodes := labelNodes(set, doc.Selection, patterns.LabelTime)
	venueNodes := labelNodes(set, doc.Selection, patterns.LabelVenue)
	if len(timeNodes) == 0 && len(venueNodes) == 0 {
		return nil
	}
	spans := textSpans(doc.Get(0))

	type positioned struct {
		pos  int
		cand event.Candidate
	}
	groups := make([]positioned, len(timeNodes))
	timeSpans := make([]span, len(timeNodes))
	for i, tn := range timeNodes {
		timeSpans[i] = spans[tn.Get(0)]
		groups[i] = positioned{
			pos: timeSpans[i].start,
			cand: event.Candidate{
				Time:  labelledValue(set, tn, patterns.LabelTime),
				Title: x.titleNear(tn),
				Date:  x.dateNear(tn),
			},
		}
	}

	var standalone []positioned
	for _, vn := range venueNodes {
		location := labelledValue(set, vn, patterns.LabelVenue)
		vs := spans[vn.Get(0)]

		nearest, best := -1, 0
		for i, ts := range timeSpans {
			d := gap(ts, vs)
			if nearest == -1 || d < best || (d == best && ts.end <= vs.start && timeSpans[nearest].end > vs.start) {
				nearest, best = i, d
			}
		}

		if nearest >= 0 && groups[nearest].cand.Location == "" {
			groups[nearest].cand.Location = location
			continue
		}
		standalone = append(standalone, positioned{
			pos: vs.start,
			cand: event.Candidate{
				Location: location,
				Title:    x.titleNear(vn),
				Date:     x.dateNear(vn),
			},
		})
	}

	all := append(groups, standalone...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].pos < all[j].pos })

	candidates := make([]event.Candidate, 0, len(all))
	for _, p := range all {
		cand := p.cand
		if cand.Title == "" {
			_, _, clock := event.ParseClock(cand.Time)
			cand.Title = event.SynthesizeTitle(set, clock, cand.Location)
		}
		candidates = append(candidates, cand)
	}
	return candidates
}

// titleNear looks for a heading among el's parent's descendants, then for
// the nearest earlier heading in the document.
func (x *Extractor) titleNear(el *goquery.Selection) string {
	set := x.patterns
	if parent := el.Parent(); parent.Length() > 0 {
		if title := headingText(set, parent); title != "" && !set.IsNavArtifact(title) {
			return title
		}
	}
	if title := precedingHeading(set, el.Get(0)); !set.IsNavArtifact(title) {
		return title
	}
	return ""
}
