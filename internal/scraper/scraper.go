package scraper

import (
	"context"
	"net/http"
	"time"

	"github.com/pfrederiksen/ytu-events-rss/internal/event"
	"github.com/pfrederiksen/ytu-events-rss/internal/logger"
	"github.com/pfrederiksen/ytu-events-rss/internal/patterns"
)

// Scraper runs the whole pipeline: fetch, extract, normalize, deduplicate.
type Scraper struct {
	fetcher    *Fetcher
	extractor  *Extractor
	normalizer *event.Normalizer
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithURL overrides the page URL.
func WithURL(url string) Option {
	return func(s *Scraper) {
		s.fetcher.url = url
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Scraper) {
		s.fetcher.client = client
	}
}

// WithRetry sets the retry bound and the fixed delay between attempts.
func WithRetry(maxRetries uint64, delay time.Duration) Option {
	return func(s *Scraper) {
		s.fetcher.maxRetries = maxRetries
		s.fetcher.delay = delay
	}
}

// WithClock sets the time source used for flat-text years and fallback dates.
func WithClock(now func() time.Time) Option {
	return func(s *Scraper) {
		s.extractor.now = now
		s.normalizer = event.NewNormalizer(s.extractor.patterns, now)
	}
}

// New creates a Scraper for the events page described by set.
func New(set *patterns.Set, opts ...Option) *Scraper {
	s := &Scraper{
		fetcher:    NewFetcher(set.Site.EventsURL),
		extractor:  NewExtractor(set, nil),
		normalizer: event.NewNormalizer(set, nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// URL returns the page being scraped.
func (s *Scraper) URL() string {
	return s.fetcher.URL()
}

// FetchEvents fetches the page and returns its events.
func (s *Scraper) FetchEvents(ctx context.Context) ([]event.Record, error) {
	src, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return s.ParseEvents(src), nil
}

// ParseEvents extracts, normalizes and deduplicates the events in src.
func (s *Scraper) ParseEvents(src *Source) []event.Record {
	start := time.Now()
	candidates, strategy := s.extractor.ExtractNamed(src)
	logger.RecordTiming("pipeline.extract", time.Since(start))

	records := s.normalizer.NormalizeAll(candidates)
	unique := event.Dedupe(records)

	logger.SetGauge("events.deduplicated", float64(len(records)-len(unique)))
	logger.Info("events extracted", logger.Fields{
		"strategy":   strategy,
		"candidates": len(candidates),
		"events":     len(unique),
	})
	return unique
}
