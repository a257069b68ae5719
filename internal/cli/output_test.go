package cli

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/pfrederiksen/ytu-events-rss/internal/event"
	"github.com/pfrederiksen/ytu-events-rss/internal/feed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResult() *OutputResult {
	return &OutputResult{
		GeneratedAt: time.Date(2026, time.October, 14, 12, 0, 0, 0, event.Istanbul),
		Source:      "https://www.yildiz.edu.tr/universite/haberler/ytu-etkinlik-takvimi",
		EventCount:  2,
		Feed:        "ytu_etkinlikler.xml",
		Events: []event.Record{
			{
				Title:       "Robotik Çalıştayı",
				Link:        "https://www.yildiz.edu.tr/etkinlik/robotik",
				Date:        "20/10/2025",
				Time:        "14:00",
				Location:    "Davutpaşa Kampüsü",
				Description: "Kayıt gereklidir",
			},
		},
	}
}

func TestWriteOutput_Text(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteOutput(&buf, testResult(), FormatText))

	want := `Found 2 events
RSS feed written to ytu_etkinlikler.xml

First 1 events:

1. Robotik Çalıştayı
   URL: https://www.yildiz.edu.tr/etkinlik/robotik
   Date: 20/10/2025
   Time: 14:00
   Location: Davutpaşa Kampüsü
   Description: Kayıt gereklidir
`
	assert.Equal(t, want, buf.String())
}

func TestWriteOutput_TextWithoutSample(t *testing.T) {
	result := testResult()
	result.Events = nil
	result.Calendar = "events.ics"
	result.CalendarEvents = 2
	var buf bytes.Buffer

	require.NoError(t, WriteOutput(&buf, result, FormatText))

	assert.Equal(t, "Found 2 events\nRSS feed written to ytu_etkinlikler.xml\nCalendar written to events.ics (2 events)\n", buf.String())
}

func TestWriteOutput_JSON(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteOutput(&buf, testResult(), FormatJSON))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.EqualValues(t, 2, decoded["event_count"])
	assert.Equal(t, "ytu_etkinlikler.xml", decoded["feed"])
	assert.NotContains(t, decoded, "calendar")
	events, ok := decoded["events"].([]interface{})
	require.True(t, ok)
	assert.Len(t, events, 1)
}

func TestWriteOutput_UnknownFormat(t *testing.T) {
	assert.Error(t, WriteOutput(&bytes.Buffer{}, testResult(), OutputFormat("xml")))
	assert.Error(t, WriteSummary(&bytes.Buffer{}, &feed.Summary{}, OutputFormat("xml")))
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteSummary(&buf, &feed.Summary{Title: "YTU Etkinlik Takvimi", Language: "tr-TR", Items: 3, Missing: 1}, FormatText))

	assert.Equal(t, "Feed: YTU Etkinlik Takvimi\nLanguage: tr-TR\nItems: 3\nItems without guid: 1\n", buf.String())
}

func TestSample(t *testing.T) {
	records := make([]event.Record, 3)

	assert.Len(t, sample(records, 5), 3)
	assert.Len(t, sample(records, 2), 2)
	assert.Empty(t, sample(records, 0))
}
