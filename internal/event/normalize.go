package event

import (
	"net/url"
	"strings"
	"time"

	"github.com/pfrederiksen/ytu-events-rss/internal/patterns"
)

// Normalizer converts candidates into finalized records.
type Normalizer struct {
	patterns *patterns.Set
	now      func() time.Time
}

// NewNormalizer creates a Normalizer. A nil now uses time.Now.
func NewNormalizer(set *patterns.Set, now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{patterns: set, now: now}
}

// Normalize fills in a record from c. It never fails: missing fields are left
// empty, and an unparseable date makes PubDate fall back to the processing
// time. That fallback is the only part of the result that depends on when
// Normalize runs.
func (n *Normalizer) Normalize(c Candidate) Record {
	set := n.patterns

	_, _, clock := ParseClock(set.StripLabels(c.Time))
	location := patterns.CollapseSpace(set.StripLabels(c.Location))
	description := strings.TrimSpace(c.Description)

	title := patterns.CollapseSpace(c.Title)
	if title == "" || set.StartsWithLabel(title) {
		title = SynthesizeTitle(set, clock, location)
	}

	r := Record{
		Title:       title,
		URL:         n.ResolveURL(c.URL),
		Time:        clock,
		Location:    location,
		Description: description,
	}

	r.Link = r.URL
	if r.Link == "" {
		r.Link = set.Site.EventsURL
	}

	rawDate := patterns.CollapseSpace(set.StripLabels(c.Date))
	if day, ok := ParseDate(set, rawDate); ok {
		r.Date = FormatDate(day)
		r.PubDate = joinDateClock(day, clock)
	} else {
		r.Date = rawDate
		if r.Date == "" {
			r.Date = DateUnknown
		}
		r.PubDate = n.now().In(Istanbul)
		r.PubDateFallback = true
	}

	r.CombinedDescription = n.combine(r)
	return r
}

// NormalizeAll normalizes every candidate, preserving order.
func (n *Normalizer) NormalizeAll(candidates []Candidate) []Record {
	records := make([]Record, 0, len(candidates))
	for _, c := range candidates {
		records = append(records, n.Normalize(c))
	}
	return records
}

// ResolveURL makes raw absolute against the site origin. Links that are not
// http(s), like javascript: or mailto:, resolve to "".
func (n *Normalizer) ResolveURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "#") {
		return ""
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	resolved := n.patterns.Origin().ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

// combine renders date, time, location and description with their display
// labels, skipping empty ones, separated by blank lines.
func (n *Normalizer) combine(r Record) string {
	display := n.patterns.Display
	var parts []string

	if r.Date != "" && r.Date != DateUnknown {
		parts = append(parts, display.Date+": "+r.Date)
	}
	if r.Time != "" {
		parts = append(parts, display.Time+": "+r.Time)
	}
	if r.Location != "" {
		parts = append(parts, display.Venue+": "+r.Location)
	}
	if r.Description != "" {
		if display.Description != "" {
			parts = append(parts, display.Description+": "+r.Description)
		} else {
			parts = append(parts, r.Description)
		}
	}

	return strings.Join(parts, "\n\n")
}

// SynthesizeTitle builds a title from time and location, like
// "Etkinlik 09:00 - Konferans Salonu", or returns the placeholder when both
// are empty.
func SynthesizeTitle(set *patterns.Set, clock, location string) string {
	words := set.Title
	switch {
	case clock != "" && location != "":
		return words.Prefix + " " + clock + words.Separator + location
	case clock != "":
		return words.Prefix + " " + clock
	case location != "":
		return words.Prefix + words.Separator + location
	default:
		return words.Placeholder
	}
}
