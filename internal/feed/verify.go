package feed

import (
	"bytes"
	"fmt"
	"os"

	"github.com/mmcdole/gofeed"
)

// Summary describes a parsed feed.
type Summary struct {
	Title    string `json:"title"`
	Language string `json:"language"`
	Items    int    `json:"items"`
	Missing  int    `json:"items_missing_guid"`
}

// Verify parses an emitted RSS document and reports what a reader would see.
// Items without a guid are counted, since readers fall back to unstable keys
// for them.
func Verify(data []byte) (*Summary, error) {
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}
	if parsed.FeedType != "rss" {
		return nil, fmt.Errorf("feed type is %q, want rss", parsed.FeedType)
	}

	s := &Summary{
		Title:    parsed.Title,
		Language: parsed.Language,
		Items:    len(parsed.Items),
	}
	for _, item := range parsed.Items {
		if item.GUID == "" {
			s.Missing++
		}
	}
	return s, nil
}

// VerifyFile is Verify on the contents of path.
func VerifyFile(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading feed: %w", err)
	}
	return Verify(data)
}
