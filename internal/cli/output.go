package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/ytu-events-rss/internal/event"
	"github.com/pfrederiksen/ytu-events-rss/internal/feed"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	GeneratedAt    time.Time      `json:"generated_at"`
	Source         string         `json:"source"`
	EventCount     int            `json:"event_count"`
	Feed           string         `json:"feed"`
	Calendar       string         `json:"calendar,omitempty"`
	CalendarEvents int            `json:"calendar_events,omitempty"`
	Events         []event.Record `json:"events"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteSummary writes a verified feed summary in the specified format
func WriteSummary(w io.Writer, summary *feed.Summary, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, summary)
	case FormatText:
		fmt.Fprintf(w, "Feed: %s\n", summary.Title)
		fmt.Fprintf(w, "Language: %s\n", summary.Language)
		fmt.Fprintf(w, "Items: %d\n", summary.Items)
		if summary.Missing > 0 {
			fmt.Fprintf(w, "Items without guid: %d\n", summary.Missing)
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult) error {
	fmt.Fprintf(w, "Found %d events\n", result.EventCount)
	fmt.Fprintf(w, "RSS feed written to %s\n", result.Feed)
	if result.Calendar != "" {
		fmt.Fprintf(w, "Calendar written to %s (%d events)\n", result.Calendar, result.CalendarEvents)
	}

	if len(result.Events) == 0 {
		return nil
	}

	fmt.Fprintf(w, "\nFirst %d events:\n", len(result.Events))
	for i, r := range result.Events {
		fmt.Fprintf(w, "\n%d. %s\n", i+1, r.Title)
		fmt.Fprintf(w, "   URL: %s\n", r.Link)
		fmt.Fprintf(w, "   Date: %s\n", r.Date)
		if r.Time != "" {
			fmt.Fprintf(w, "   Time: %s\n", r.Time)
		}
		if r.Location != "" {
			fmt.Fprintf(w, "   Location: %s\n", r.Location)
		}
		if r.Description != "" {
			fmt.Fprintf(w, "   Description: %s\n", r.Description)
		}
	}

	return nil
}
