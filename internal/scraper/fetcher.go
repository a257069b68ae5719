package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pfrederiksen/ytu-events-rss/internal/logger"
)

const (
	// UserAgent mimics a desktop browser; the site rejects obvious bots.
	UserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	Timeout    = 30 * time.Second
	MaxRetries = 3
	RetryDelay = 2 * time.Second
)

// ErrUnexpectedStatus is wrapped by every StatusError.
var ErrUnexpectedStatus = errors.New("unexpected status code")

// StatusError reports a non-200 response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d", ErrUnexpectedStatus, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// Fetcher downloads the events page, retrying with a fixed delay.
type Fetcher struct {
	client     *http.Client
	url        string
	userAgent  string
	maxRetries uint64
	delay      time.Duration
}

// NewFetcher creates a Fetcher for url.
func NewFetcher(url string) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: Timeout,
		},
		url:        url,
		userAgent:  UserAgent,
		maxRetries: MaxRetries,
		delay:      RetryDelay,
	}
}

// URL returns the page the fetcher downloads.
func (f *Fetcher) URL() string {
	return f.url
}

// Fetch downloads and parses the page. Network errors, 429 and 5xx responses
// are retried up to maxRetries times; other statuses fail immediately.
func (f *Fetcher) Fetch(ctx context.Context) (*Source, error) {
	var src *Source
	attempt := 0

	operation := func() error {
		attempt++
		logger.IncrCounter("fetch.attempts")
		s, err := f.fetchOnce(ctx)
		if err != nil {
			return err
		}
		src = s
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(f.delay), f.maxRetries), ctx)
	notify := func(err error, wait time.Duration) {
		logger.Warn("fetch failed, retrying", logger.Fields{
			"url":     f.url,
			"attempt": attempt,
			"wait":    wait.String(),
			"error":   err.Error(),
		})
	}

	start := time.Now()
	err := backoff.RetryNotify(operation, b, notify)
	logger.RecordTiming("pipeline.fetch", time.Since(start))
	if err != nil {
		logger.IncrCounter("fetch.failures")
		return nil, fmt.Errorf("fetching %s after %d attempts: %w", f.url, attempt, err)
	}
	return src, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context) (*Source, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "tr-TR,tr;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, statusErr
		}
		return nil, backoff.Permanent(statusErr)
	}

	src, err := NewHTMLSource(resp.Body)
	if err != nil {
		return nil, err
	}
	return src, nil
}
