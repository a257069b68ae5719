package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pfrederiksen/ytu-events-rss/internal/event"
	"github.com/pfrederiksen/ytu-events-rss/internal/patterns"
)

// PubDateLayout is RFC 822 with the fixed +0300 offset the feed always uses.
const PubDateLayout = "Mon, 02 Jan 2006 15:04:05 -0700"

const generator = "ytu-events-rss"

// Channel holds the fixed channel metadata.
type Channel struct {
	Title       string
	Link        string
	Description string
	Language    string
}

// DefaultChannel returns the channel metadata for the YTU event calendar.
func DefaultChannel(set *patterns.Set) Channel {
	return Channel{
		Title:       "YTU Etkinlik Takvimi",
		Link:        set.Site.EventsURL,
		Description: "Yıldız Teknik Üniversitesi Etkinlik Takvimi",
		Language:    "tr-TR",
	}
}

// Writer renders records as RSS 2.0.
type Writer struct {
	channel    Channel
	guidPrefix string
	now        func() time.Time
}

// NewWriter creates a Writer. A nil now uses time.Now.
func NewWriter(channel Channel, guidPrefix string, now func() time.Time) *Writer {
	if now == nil {
		now = time.Now
	}
	return &Writer{channel: channel, guidPrefix: guidPrefix, now: now}
}

// Render returns the RSS document for records, in the order given.
func (w *Writer) Render(records []event.Record) []byte {
	var buf bytes.Buffer

	buf.WriteString(xml.Header)
	buf.WriteString(`<rss version="2.0">`)
	buf.WriteString("\n  <channel>\n")

	w.writeElement(&buf, "title", w.channel.Title, 4)
	w.writeElement(&buf, "link", w.channel.Link, 4)
	w.writeElement(&buf, "description", w.channel.Description, 4)
	w.writeElement(&buf, "language", w.channel.Language, 4)
	w.writeElement(&buf, "lastBuildDate", formatPubDate(w.now()), 4)
	w.writeElement(&buf, "generator", generator, 4)

	for _, r := range records {
		w.writeItem(&buf, r)
	}

	buf.WriteString("  </channel>\n</rss>\n")
	return buf.Bytes()
}

// WriteFile renders records and replaces path with the result.
func (w *Writer) WriteFile(path string, records []event.Record) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".feed-*.xml")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // nolint:errcheck

	if _, err := tmp.Write(w.Render(records)); err != nil {
		tmp.Close() // nolint:errcheck
		return fmt.Errorf("writing feed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing feed: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("setting feed permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing feed: %w", err)
	}
	return nil
}

// writeItem writes a single RSS item
func (w *Writer) writeItem(buf *bytes.Buffer, r event.Record) {
	buf.WriteString("    <item>\n")

	w.writeElement(buf, "title", r.Title, 6)
	w.writeElement(buf, "link", r.Link, 6)
	w.writeElement(buf, "description", r.CombinedDescription, 6)

	guid, isPermaLink := r.GUID(w.guidPrefix)
	fmt.Fprintf(buf, "      <guid isPermaLink=\"%t\">", isPermaLink)
	xml.EscapeText(buf, []byte(guid)) // nolint:errcheck
	buf.WriteString("</guid>\n")

	w.writeElement(buf, "pubDate", formatPubDate(r.PubDate), 6)

	buf.WriteString("    </item>\n")
}

// writeElement writes an XML element with proper escaping; empty content is skipped
func (w *Writer) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}
	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}
	buf.WriteString("<" + tag + ">")
	xml.EscapeText(buf, []byte(content)) // nolint:errcheck
	buf.WriteString("</" + tag + ">\n")
}

func formatPubDate(t time.Time) string {
	return t.In(event.Istanbul).Format(PubDateLayout)
}
