package event

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateUnknown marks a record whose source carried no date at all.
const DateUnknown = "unknown"

// Istanbul is the fixed +0300 offset used for every emitted timestamp.
var Istanbul = time.FixedZone("+03", 3*60*60)

// Candidate is a partially filled record straight out of an extraction strategy.
type Candidate struct {
	Title       string `json:"title"`
	URL         string `json:"url,omitempty"`
	Date        string `json:"date,omitempty"`
	Time        string `json:"time,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}

// Record is a finalized event ready for the feed.
type Record struct {
	Title               string    `json:"title"`
	URL                 string    `json:"url,omitempty"` // extracted link, absolute; empty when the source had none
	Link                string    `json:"link"`          // URL, or the landing page when URL is empty
	Date                string    `json:"date"`          // DD/MM/YYYY, raw text, or DateUnknown
	Time                string    `json:"time,omitempty"`
	Location            string    `json:"location,omitempty"`
	Description         string    `json:"description,omitempty"`
	CombinedDescription string    `json:"combined_description"`
	PubDate             time.Time `json:"pub_date"`
	PubDateFallback     bool      `json:"pub_date_fallback,omitempty"` // PubDate is the processing time
}

// Candidate converts r back into raw form. Normalizing the result yields the
// same field values, apart from a fallback PubDate.
func (r Record) Candidate() Candidate {
	return Candidate{
		Title:       r.Title,
		URL:         r.URL,
		Date:        r.Date,
		Time:        r.Time,
		Location:    r.Location,
		Description: r.Description,
	}
}

// HasDate reports whether the date field parsed into PubDate.
func (r Record) HasDate() bool {
	return !r.PubDateFallback
}

// GUID returns the item identifier: the record URL when there is one,
// otherwise a URL under prefix built from title, date and time.
func (r Record) GUID(prefix string) (guid string, isPermaLink bool) {
	if r.URL != "" {
		return r.URL, true
	}
	parts := []string{r.Title}
	if r.Date != "" && r.Date != DateUnknown {
		parts = append(parts, r.Date)
	}
	if r.Time != "" {
		parts = append(parts, r.Time)
	}
	slug := strings.ReplaceAll(strings.Join(parts, "-"), " ", "-")
	return prefix + url.PathEscape(slug), false
}

// GenerateID creates a deterministic identifier from the given parts: a
// name-based (SHA-1) UUID in the URL namespace.
func GenerateID(parts ...string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(strings.Join(parts, "|"))).String()
}
