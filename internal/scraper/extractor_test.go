package scraper

import (
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/ytu-events-rss/internal/event"
	"github.com/pfrederiksen/ytu-events-rss/internal/patterns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time {
	return time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)
}

func htmlSource(t *testing.T, markup string) *Source {
	t.Helper()
	src, err := NewHTMLSource(strings.NewReader(markup))
	require.NoError(t, err)
	return src
}

const structuralPage = `<html><body>
<div class="event-container">
  <h3>Yapay Zeka Semineri</h3>
  <a href="/etkinlik/yapay-zeka">Detay</a>
  <span class="date">16.09.2025</span>
  <span class="time">10:00</span>
  <span class="location">Konferans Salonu</span>
  <p class="description">Açılış konuşması</p>
</div>
<div class="event-container">
  <span class="date">17.09.2025</span>
</div>
</body></html>`

const labeledPage = `<html><body>
<div id="content">
  <div class="item">
    <h4>Robotik Çalıştayı</h4>
    <p>Tarih: 20.10.2025</p>
    <p>Saat : 14:00</p>
    <p>Yer : Davutpaşa Kampüsü</p>
  </div>
  <div class="item">
    <h4>Kariyer Günü</h4>
    <p>Saat : 11:30</p>
    <p>Yer : Oditoryum</p>
  </div>
</div>
</body></html>`

const anchorsPage = `<html><body>
<nav><div><a href="/etkinlikler">Tüm Etkinlikler</a> <a href="/etkinlik?ay=10">Ekim 2025</a></div></nav>
<div id="content">
  <ul>
    <li><a href="/etkinlik/bahar-senligi">Bahar Şenliği</a> Tarih: 01.05.2026 Saat : 12:00 Yer : Merkez Kampüs</li>
  </ul>
</div>
</body></html>`

const proximityPage = `<html><body>
<h2>Güz Dönemi Konserleri</h2>
<ul>
<li>Saat : 19:00</li>
<li>Yer : Kongre Salonu</li>
<li>Yer : Açık Hava Tiyatrosu</li>
</ul>
</body></html>`

func TestExtractor_StrategyOrder(t *testing.T) {
	x := NewExtractor(patterns.Default(), fixedNow)

	var names []string
	for _, s := range x.Strategies() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"structural", "labeled", "anchors", "proximity", "flattext"}, names)
}

func TestExtractor_Structural(t *testing.T) {
	x := NewExtractor(patterns.Default(), fixedNow)

	candidates, strategy := x.ExtractNamed(htmlSource(t, structuralPage))

	assert.Equal(t, "structural", strategy)
	require.Len(t, candidates, 1, "container without a title is dropped")
	assert.Equal(t, event.Candidate{
		Title:       "Yapay Zeka Semineri",
		URL:         "/etkinlik/yapay-zeka",
		Date:        "16.09.2025",
		Time:        "10:00",
		Location:    "Konferans Salonu",
		Description: "Açılış konuşması",
	}, candidates[0])
}

func TestExtractor_Labeled(t *testing.T) {
	x := NewExtractor(patterns.Default(), fixedNow)

	candidates, strategy := x.ExtractNamed(htmlSource(t, labeledPage))

	assert.Equal(t, "labeled", strategy)
	require.Len(t, candidates, 2)

	assert.Equal(t, "Robotik Çalıştayı", candidates[0].Title)
	assert.Equal(t, "14:00", candidates[0].Time)
	assert.Equal(t, "Davutpaşa Kampüsü", candidates[0].Location)
	assert.Equal(t, "20.10.2025", candidates[0].Date)

	assert.Equal(t, "Kariyer Günü", candidates[1].Title)
	assert.Equal(t, "11:30", candidates[1].Time)
	assert.Equal(t, "Oditoryum", candidates[1].Location)
	assert.Empty(t, candidates[1].Date)
}

func TestExtractor_LabeledParagraphTitle(t *testing.T) {
	page := `<html><body><div>
  <p>Mezunlar Buluşması ve Tanışma Kokteyli</p>
  <p>Saat : 18:00</p>
</div></body></html>`
	x := NewExtractor(patterns.Default(), fixedNow)

	candidates, strategy := x.ExtractNamed(htmlSource(t, page))

	assert.Equal(t, "labeled", strategy)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Mezunlar Buluşması ve Tanışma Kokteyli", candidates[0].Title)
	assert.Equal(t, "18:00", candidates[0].Time)
}

func TestExtractor_LabeledHeadingBeforeBoundary(t *testing.T) {
	page := `<html><body><div id="content">
  <h3>Robotik Çalıştayı</h3>
  <div class="item">
    <p>Öğrencilere yönelik uygulamalı bir çalışma</p>
    <p>Saat : 14:00</p>
  </div>
  <h3>Kariyer Günü</h3>
  <div class="item">
    <p>Sektör temsilcileriyle tanışma fırsatı</p>
    <p>Saat : 11:30</p>
  </div>
</div></body></html>`
	x := NewExtractor(patterns.Default(), fixedNow)

	candidates, strategy := x.ExtractNamed(htmlSource(t, page))

	assert.Equal(t, "labeled", strategy)
	require.Len(t, candidates, 2)
	assert.Equal(t, "Robotik Çalıştayı", candidates[0].Title, "heading wins over the blurb")
	assert.Equal(t, "14:00", candidates[0].Time)
	assert.Equal(t, "Kariyer Günü", candidates[1].Title)
	assert.Equal(t, "11:30", candidates[1].Time)
}

func TestExtractor_LabeledDropsNavigationTitles(t *testing.T) {
	page := `<html><body><div id="content">
  <div class="item">
    <h4>Ekim 2025</h4>
    <p>Tarih: 01.10.2025</p>
    <p>Saat : 10:00</p>
  </div>
  <div class="item">
    <h4>Bilim Günü</h4>
    <p>Saat : 15:00</p>
    <p>Yer : Mavi Salon</p>
  </div>
</div></body></html>`
	x := NewExtractor(patterns.Default(), fixedNow)

	candidates, strategy := x.ExtractNamed(htmlSource(t, page))

	assert.Equal(t, "labeled", strategy)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Bilim Günü", candidates[0].Title)
	assert.Equal(t, "Mavi Salon", candidates[0].Location)
}

func TestExtractor_AnchorsDropNavigationTitles(t *testing.T) {
	page := `<html><body><div id="content"><ul>
  <li><a href="/etkinlik?ay=10">Ekim 2025</a> Saat : 09:00</li>
  <li><a href="/etkinlik/bahar-senligi">Bahar Şenliği</a> Saat : 12:00 Yer : Merkez Kampüs</li>
</ul></div></body></html>`
	x := NewExtractor(patterns.Default(), fixedNow)

	candidates, strategy := x.ExtractNamed(htmlSource(t, page))

	assert.Equal(t, "anchors", strategy)
	require.Len(t, candidates, 1, "a filter link next to a time field is still navigation")
	assert.Equal(t, "Bahar Şenliği", candidates[0].Title)
	assert.Equal(t, "12:00", candidates[0].Time)
}

func TestExtractor_Anchors(t *testing.T) {
	x := NewExtractor(patterns.Default(), fixedNow)

	candidates, strategy := x.ExtractNamed(htmlSource(t, anchorsPage))

	assert.Equal(t, "anchors", strategy)
	require.Len(t, candidates, 1, "menu links without time or venue are ignored")
	assert.Equal(t, event.Candidate{
		Title:    "Bahar Şenliği",
		URL:      "/etkinlik/bahar-senligi",
		Date:     "01.05.2026",
		Time:     "12:00",
		Location: "Merkez Kampüs",
	}, candidates[0])
}

func TestExtractor_Proximity(t *testing.T) {
	x := NewExtractor(patterns.Default(), fixedNow)

	candidates, strategy := x.ExtractNamed(htmlSource(t, proximityPage))

	assert.Equal(t, "proximity", strategy)
	require.Len(t, candidates, 2)

	assert.Equal(t, "Güz Dönemi Konserleri", candidates[0].Title)
	assert.Equal(t, "19:00", candidates[0].Time)
	assert.Equal(t, "Kongre Salonu", candidates[0].Location)

	// The time node is already paired, so the second venue stands alone.
	assert.Empty(t, candidates[1].Time)
	assert.Equal(t, "Açık Hava Tiyatrosu", candidates[1].Location)
}

func TestExtractor_ProximitySynthesizedTitle(t *testing.T) {
	page := `<html><body><div><span>Saat : 09:30</span></div><div><span>Yer : Online</span></div></body></html>`
	x := NewExtractor(patterns.Default(), fixedNow)

	candidates, strategy := x.ExtractNamed(htmlSource(t, page))

	assert.Equal(t, "proximity", strategy)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Etkinlik 09:30 - Online", candidates[0].Title)
	assert.Equal(t, "09:30", candidates[0].Time)
	assert.Equal(t, "Online", candidates[0].Location)
}

func TestExtractor_ProximityPrefersEarlierTimeOnTie(t *testing.T) {
	page := `<html><body><ul><li>Saat : 10:00</li><li>Yer : A Salonu</li><li>Saat : 15:00</li></ul></body></html>`
	x := NewExtractor(patterns.Default(), fixedNow)

	candidates, strategy := x.ExtractNamed(htmlSource(t, page))

	assert.Equal(t, "proximity", strategy)
	require.Len(t, candidates, 2)
	assert.Equal(t, "10:00", candidates[0].Time)
	assert.Equal(t, "A Salonu", candidates[0].Location)
	assert.Equal(t, "15:00", candidates[1].Time)
	assert.Empty(t, candidates[1].Location)
}

func TestExtractor_TimeNodeBeatsFlatText(t *testing.T) {
	page := `<html><body><p>16Eyl</p><p>Lecture Title Conference Hall</p><p>Saat : 09:00</p></body></html>`
	x := NewExtractor(patterns.Default(), fixedNow)

	candidates, strategy := x.ExtractNamed(htmlSource(t, page))

	assert.Equal(t, "proximity", strategy)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Etkinlik 09:00", candidates[0].Title)
	assert.Equal(t, "09:00", candidates[0].Time)
}

func TestExtractor_Empty(t *testing.T) {
	x := NewExtractor(patterns.Default(), fixedNow)

	candidates, strategy := x.ExtractNamed(htmlSource(t, `<html><body><p>Henüz etkinlik yok</p></body></html>`))

	assert.NotNil(t, candidates)
	assert.Empty(t, candidates)
	assert.Empty(t, strategy)
}

func TestExtractor_SkipsScriptText(t *testing.T) {
	page := `<html><head><script>var s = "16EylFakeSaat : 09:00";</script></head><body><p>Boş</p></body></html>`
	x := NewExtractor(patterns.Default(), fixedNow)

	assert.Empty(t, x.Extract(htmlSource(t, page)))
}
