package scraper

import (
	"strings"
	"testing"

	"github.com/pfrederiksen/ytu-events-rss/internal/event"
	"github.com/pfrederiksen/ytu-events-rss/internal/patterns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []event.Candidate
	}{
		{
			name: "merged title and venue",
			text: "16EylLecture Title Conference HallSaat : 09:00",
			want: []event.Candidate{
				{Title: "Lecture Title", Location: "Conference Hall", Date: "16/09/2026", Time: "09:00"},
			},
		},
		{
			name: "venue label after the time",
			text: "03EkiKariyer GünüSaat : 13:00 Yer : Mavi Salon\nDiğer",
			want: []event.Candidate{
				{Title: "Kariyer Günü", Location: "Mavi Salon", Date: "03/10/2026", Time: "13:00"},
			},
		},
		{
			name: "venue label inside the body",
			text: "05KasPanel Yer : B Blok Saat : 10.30",
			want: []event.Candidate{
				{Title: "Panel", Location: "B Blok", Date: "05/11/2026", Time: "10.30"},
			},
		},
		{
			name: "several events",
			text: "16EylA Semineri Saat : 09:00 17EylB Semineri Saat : 10:00",
			want: []event.Candidate{
				{Title: "A Semineri", Date: "16/09/2026", Time: "09:00"},
				{Title: "B Semineri", Date: "17/09/2026", Time: "10:00"},
			},
		},
		{
			name: "keyword too early is part of the title",
			text: "20AraSalon Müziği Gecesi ve SöyleşiSaat : 20:00",
			want: []event.Candidate{
				{Title: "Salon Müziği Gecesi ve Söyleşi", Date: "20/12/2026", Time: "20:00"},
			},
		},
		{
			name: "time runs into the next day",
			text: "16EylA SemineriSaat : 09:0017EylB SemineriSaat : 10:00",
			want: []event.Candidate{
				{Title: "A Semineri", Date: "16/09/2026", Time: "09:00"},
				{Title: "B Semineri", Date: "17/09/2026", Time: "10:00"},
			},
		},
		{
			name: "venue of the next event is not borrowed",
			text: "16EylA SemineriSaat : 09:00 17EylB Yer : Mavi Salon Saat : 10:00",
			want: []event.Candidate{
				{Title: "A Semineri", Date: "16/09/2026", Time: "09:00"},
				{Title: "B", Location: "Mavi Salon", Date: "17/09/2026", Time: "10:00"},
			},
		},
		{
			name: "day must not be the tail of a year",
			text: "2016EylTitleSaat : 09:00",
		},
		{
			name: "impossible day",
			text: "45EylTitleSaat : 09:00",
		},
		{
			name: "nothing to match",
			text: "Bu ay etkinlik bulunmamaktadır.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := NewExtractor(patterns.Default(), fixedNow)

			got := x.flatText(NewTextSource(tt.text))

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFlatText_ThroughExtractor(t *testing.T) {
	x := NewExtractor(patterns.Default(), fixedNow)

	candidates, strategy := x.ExtractNamed(NewTextSource("16EylLecture Title Conference HallSaat : 09:00"))

	assert.Equal(t, "flattext", strategy)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Lecture Title", candidates[0].Title)
}

func TestVenueAfter_CountsRunes(t *testing.T) {
	x := NewExtractor(patterns.Default(), fixedNow)

	// " Yer : " plus 93 two-byte letters is exactly the lookahead in runes;
	// a byte count would stop halfway through the venue.
	text := "x" + " Yer : " + strings.Repeat("ş", venueLookahead-7) + "ğğ"

	assert.Equal(t, strings.Repeat("ş", venueLookahead-7), x.venueAfter(text, 1, len(text)))
}

func TestVenueAfter_StopsAtNextEvent(t *testing.T) {
	x := NewExtractor(patterns.Default(), fixedNow)
	text := "x Yer : Mavi Salon"

	assert.Empty(t, x.venueAfter(text, 1, 5))
	assert.Equal(t, "Mavi Salon", x.venueAfter(text, 1, len(text)))
}

func TestWordStart(t *testing.T) {
	assert.Equal(t, 7, wordStart("Kongre Salonu", 9))
	assert.Equal(t, 0, wordStart("Salonu", 3))
	assert.Equal(t, 8, wordStart("Büyük Şölen", 10))
}
