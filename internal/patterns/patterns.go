package patterns

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed patterns.yaml
var defaultYAML []byte

// Label identifies one of the field labels printed on the page.
type Label int

const (
	LabelTime Label = iota
	LabelVenue
	LabelDate
)

// Month is one row of the month table.
type Month struct {
	Abbr string `yaml:"abbr"`
	Name string `yaml:"name"`
}

// Selectors holds prioritized CSS selector hints.
type Selectors struct {
	Containers  []string `yaml:"containers"`
	Title       []string `yaml:"title"`
	Link        []string `yaml:"link"`
	Date        []string `yaml:"date"`
	Time        []string `yaml:"time"`
	Location    []string `yaml:"location"`
	Description []string `yaml:"description"`
	ContentArea []string `yaml:"content_area"`
	EventLinks  []string `yaml:"event_links"`
	Headings    []string `yaml:"headings"`
}

// Config mirrors patterns.yaml.
type Config struct {
	Version int `yaml:"version"`
	Site    struct {
		Origin     string `yaml:"origin"`
		EventsURL  string `yaml:"events_url"`
		GUIDPrefix string `yaml:"guid_prefix"`
	} `yaml:"site"`
	Labels struct {
		Time  string `yaml:"time"`
		Venue string `yaml:"venue"`
		Date  string `yaml:"date"`
	} `yaml:"labels"`
	Display struct {
		Date        string `yaml:"date"`
		Time        string `yaml:"time"`
		Venue       string `yaml:"venue"`
		Description string `yaml:"description"`
	} `yaml:"display"`
	Title struct {
		Prefix      string `yaml:"prefix"`
		Separator   string `yaml:"separator"`
		Placeholder string `yaml:"placeholder"`
	} `yaml:"title"`
	Months        []Month   `yaml:"months"`
	DateLayouts   []string  `yaml:"date_layouts"`
	DatePatterns  []string  `yaml:"date_patterns"`
	VenueKeywords []string  `yaml:"venue_keywords"`
	NavTerms      []string  `yaml:"nav_terms"`
	Selectors     Selectors `yaml:"selectors"`
}

// Set is a validated Config with its regexes compiled.
type Set struct {
	Config

	origin       *url.URL
	datePatterns []*regexp.Regexp
	labels       map[Label]*regexp.Regexp
	anyLabel     *regexp.Regexp
	leadingLabel *regexp.Regexp
	flatText     *regexp.Regexp
	monthByAbbr  map[string]int
	monthByName  map[string]int
	navTerms     map[string]bool
}

var loadDefault = sync.OnceValues(func() (*Set, error) {
	return Parse(defaultYAML)
})

// Default returns the tables embedded in the binary.
func Default() *Set {
	set, err := loadDefault()
	if err != nil {
		panic(fmt.Sprintf("patterns: embedded tables are invalid: %v", err))
	}
	return set
}

// Load reads an override file with the same schema as the embedded tables.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading patterns: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates pattern tables.
func Parse(data []byte) (*Set, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing patterns: %w", err)
	}
	return Compile(cfg)
}

// Compile validates cfg and builds the regexes derived from it.
func Compile(cfg Config) (*Set, error) {
	if len(cfg.Months) != 12 {
		return nil, fmt.Errorf("month table has %d entries, want 12", len(cfg.Months))
	}
	if cfg.Labels.Time == "" || cfg.Labels.Venue == "" || cfg.Labels.Date == "" {
		return nil, fmt.Errorf("labels time, venue and date are required")
	}
	if len(cfg.DateLayouts) == 0 {
		return nil, fmt.Errorf("at least one date layout is required")
	}
	origin, err := url.Parse(cfg.Site.Origin)
	if err != nil || origin.Scheme == "" || origin.Host == "" {
		return nil, fmt.Errorf("site origin %q is not an absolute URL", cfg.Site.Origin)
	}

	s := &Set{
		Config:      cfg,
		origin:      origin,
		labels:      make(map[Label]*regexp.Regexp, 3),
		monthByAbbr: make(map[string]int, 12),
		monthByName: make(map[string]int, 12),
		navTerms:    make(map[string]bool, len(cfg.NavTerms)),
	}

	for _, p := range cfg.DatePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("date pattern %q: %w", p, err)
		}
		s.datePatterns = append(s.datePatterns, re)
	}

	names := map[Label]string{
		LabelTime:  cfg.Labels.Time,
		LabelVenue: cfg.Labels.Venue,
		LabelDate:  cfg.Labels.Date,
	}
	quoted := make([]string, 0, len(names))
	for label, name := range names {
		q := regexp.QuoteMeta(name)
		s.labels[label] = regexp.MustCompile(q + `\s*:`)
		quoted = append(quoted, q)
	}
	alt := strings.Join(quoted, "|")
	s.anyLabel = regexp.MustCompile(`(?:` + alt + `)\s*:`)
	s.leadingLabel = regexp.MustCompile(`^\s*(?:` + alt + `)\s*:\s*`)

	abbrs := make([]string, 0, 12)
	for i, m := range cfg.Months {
		if m.Abbr == "" || m.Name == "" {
			return nil, fmt.Errorf("month %d needs both abbr and name", i+1)
		}
		s.monthByAbbr[m.Abbr] = i + 1
		s.monthByName[lowerTR(m.Name)] = i + 1
		abbrs = append(abbrs, regexp.QuoteMeta(m.Abbr))
	}

	// <day><month abbr><free text><time label><HH:MM>. Text nodes are joined
	// without separators, so the day may touch the previous event's time; the
	// caller rejects days that continue an unrelated number.
	s.flatText = regexp.MustCompile(`(?s)(?P<day>\d{2})\s*(?P<month>` + strings.Join(abbrs, "|") +
		`)(?P<body>.+?)` + regexp.QuoteMeta(cfg.Labels.Time) + `\s*:\s*(?P<time>\d{1,2}[:.]\d{2})`)

	for _, term := range cfg.NavTerms {
		s.navTerms[lowerTR(term)] = true
	}

	return s, nil
}

// Origin returns the site origin used to resolve relative links.
func (s *Set) Origin() *url.URL {
	u := *s.origin
	return &u
}

// FindDate returns the first date found in text, trying patterns in order.
func (s *Set) FindDate(text string) string {
	for _, re := range s.datePatterns {
		if match := re.FindString(text); match != "" {
			return match
		}
	}
	return ""
}

// HasLabel reports whether text contains the given field label.
func (s *Set) HasLabel(text string, label Label) bool {
	return s.labels[label].MatchString(text)
}

// LabelIndex returns the byte offsets of the first occurrence of label, or nil.
func (s *Set) LabelIndex(text string, label Label) []int {
	return s.labels[label].FindStringIndex(text)
}

// LabelValue returns the text following label, up to the next label of any kind.
func (s *Set) LabelValue(text string, label Label) (string, bool) {
	loc := s.labels[label].FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	rest := text[loc[1]:]
	if next := s.anyLabel.FindStringIndex(rest); next != nil {
		rest = rest[:next[0]]
	}
	return CollapseSpace(rest), true
}

// StartsWithLabel reports whether s begins with the time or venue label.
func (s *Set) StartsWithLabel(text string) bool {
	text = strings.TrimSpace(text)
	for _, label := range []Label{LabelTime, LabelVenue} {
		if loc := s.labels[label].FindStringIndex(text); loc != nil && loc[0] == 0 {
			return true
		}
	}
	return false
}

// StripLabels removes any label prefixes leaked into a field value.
func (s *Set) StripLabels(value string) string {
	for {
		stripped := s.leadingLabel.ReplaceAllString(value, "")
		if stripped == value {
			return strings.TrimSpace(value)
		}
		value = stripped
	}
}

// ContainsAnyLabel reports whether text carries the time or venue label.
func (s *Set) ContainsAnyLabel(text string) bool {
	return s.HasLabel(text, LabelTime) || s.HasLabel(text, LabelVenue)
}

// FlatText returns the flat-text event regex with named groups day, month, body and time.
func (s *Set) FlatText() *regexp.Regexp {
	return s.flatText
}

// MonthByAbbr maps a short month name to 1..12.
func (s *Set) MonthByAbbr(abbr string) (int, bool) {
	m, ok := s.monthByAbbr[abbr]
	return m, ok
}

// MonthByName maps a full month name, in any case, to 1..12.
func (s *Set) MonthByName(name string) (int, bool) {
	m, ok := s.monthByName[lowerTR(name)]
	return m, ok
}

// IsNavArtifact reports whether title is made only of calendar filter tokens
// and numbers, like "Ekim 2025" or "2024 Yılı".
func (s *Set) IsNavArtifact(title string) bool {
	tokens := strings.FieldsFunc(lowerTR(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(tokens) == 0 {
		return false
	}
	for _, tok := range tokens {
		if s.navTerms[tok] || isDigits(tok) {
			continue
		}
		return false
	}
	return true
}

// CollapseSpace trims s and folds every whitespace run to a single space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// lowerTR lower-cases with Turkish rules, so "I" folds to "ı" and "İ" to "i".
func lowerTR(s string) string {
	return cases.Lower(language.Turkish).String(s)
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
