// Package calendar exports event records as an iCalendar file.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/ytu-events-rss/internal/event"
)

// Timed events are given a fixed length; the page lists start times only.
const eventDuration = 2 * time.Hour

// GenerateICS generates an iCalendar (.ics) document with one VEVENT per
// record whose date parsed. Records whose date fell back to the processing
// time are left out, since the date would be wrong.
func GenerateICS(records []event.Record, guidPrefix string, now time.Time) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//YTU Etkinlik Takvimi//ytu-events-rss//TR\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	ics.WriteString("X-WR-CALNAME:YTU Etkinlik Takvimi\r\n")

	for _, r := range records {
		if !r.HasDate() {
			continue
		}
		writeEvent(&ics, r, guidPrefix, now)
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

// Count returns how many records GenerateICS would export.
func Count(records []event.Record) int {
	n := 0
	for _, r := range records {
		if r.HasDate() {
			n++
		}
	}
	return n
}

func writeEvent(ics *strings.Builder, r event.Record, guidPrefix string, now time.Time) {
	ics.WriteString("BEGIN:VEVENT\r\n")

	// UID - stable across runs as long as the guid is
	guid, _ := r.GUID(guidPrefix)
	ics.WriteString(fmt.Sprintf("UID:%s@yildiz.edu.tr\r\n", event.GenerateID(guid)))

	// DTSTAMP - when this calendar entry was created
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", formatICSTime(now)))

	if r.Time != "" {
		start := r.PubDate
		ics.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatICSTime(start)))
		ics.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatICSTime(start.Add(eventDuration))))
	} else {
		// All-day event; DTEND is exclusive
		day := r.PubDate.In(event.Istanbul)
		ics.WriteString(fmt.Sprintf("DTSTART;VALUE=DATE:%s\r\n", formatICSDate(day)))
		ics.WriteString(fmt.Sprintf("DTEND;VALUE=DATE:%s\r\n", formatICSDate(day.AddDate(0, 0, 1))))
	}

	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(r.Title)))
	if r.CombinedDescription != "" {
		ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(r.CombinedDescription)))
	}
	if r.Location != "" {
		ics.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICS(r.Location)))
	}
	ics.WriteString(fmt.Sprintf("URL:%s\r\n", r.Link))

	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("SEQUENCE:0\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")

	ics.WriteString("END:VEVENT\r\n")
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

func formatICSDate(t time.Time) string {
	return t.Format("20060102")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
