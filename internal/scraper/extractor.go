package scraper

import (
	"time"

	"github.com/pfrederiksen/ytu-events-rss/internal/event"
	"github.com/pfrederiksen/ytu-events-rss/internal/logger"
	"github.com/pfrederiksen/ytu-events-rss/internal/patterns"
)

// Strategy is one way of pulling candidates out of a source.
type Strategy struct {
	Name    string
	Extract func(*Source) []event.Candidate
}

// Extractor runs strategies in priority order and keeps the first non-empty result.
type Extractor struct {
	patterns   *patterns.Set
	now        func() time.Time
	strategies []Strategy
}

// NewExtractor creates an Extractor with the built-in strategies. The clock
// supplies the year for flat-text dates, which carry none. A nil now uses
// time.Now.
func NewExtractor(set *patterns.Set, now func() time.Time) *Extractor {
	if now == nil {
		now = time.Now
	}
	x := &Extractor{patterns: set, now: now}
	x.strategies = []Strategy{
		{Name: "structural", Extract: x.structural},
		{Name: "labeled", Extract: x.labeled},
		{Name: "anchors", Extract: x.anchors},
		{Name: "proximity", Extract: x.proximity},
		{Name: "flattext", Extract: x.flatText},
	}
	return x
}

// Strategies returns the strategies in the order they are tried.
func (x *Extractor) Strategies() []Strategy {
	return x.strategies
}

// Extract returns the candidates of the first strategy that finds any.
// An empty result means no events are listed; it is not an error.
func (x *Extractor) Extract(src *Source) []event.Candidate {
	candidates, _ := x.ExtractNamed(src)
	return candidates
}

// ExtractNamed is Extract that also reports which strategy matched, or "" if none did.
func (x *Extractor) ExtractNamed(src *Source) ([]event.Candidate, string) {
	for _, s := range x.strategies {
		candidates := s.Extract(src)
		if len(candidates) == 0 {
			logger.Debug("strategy found nothing", logger.Fields{"strategy": s.Name})
			continue
		}
		logger.IncrCounter("extract.strategy." + s.Name)
		logger.Debug("strategy matched", logger.Fields{
			"strategy":   s.Name,
			"candidates": len(candidates),
		})
		return candidates, s.Name
	}
	return []event.Candidate{}, ""
}
