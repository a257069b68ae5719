package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pfrederiksen/ytu-events-rss/internal/event"
	"github.com/pfrederiksen/ytu-events-rss/internal/patterns"
)

// How many characters past a flat-text match a "Yer :" phrase is looked for.
// Counted in runes, not bytes, so Turkish text gets the same reach.
const venueLookahead = 100

// flatText ignores structure and matches <day><month abbr><text>Saat : HH:MM
// over the visible text. The source carries no year, so the current year is
// used.
func (x *Extractor) flatText(src *Source) []event.Candidate {
	set := x.patterns
	text := src.Text()
	re := set.FlatText()
	dayIdx, monthIdx := re.SubexpIndex("day"), re.SubexpIndex("month")
	bodyIdx, timeIdx := re.SubexpIndex("body"), re.SubexpIndex("time")
	year := x.now().Year()

	matches := flatMatches(re, text)

	var candidates []event.Candidate
	for i, m := range matches {
		group := func(g int) string { return text[m[2*g]:m[2*g+1]] }

		day, _ := strconv.Atoi(group(dayIdx))
		month, _ := set.MonthByAbbr(group(monthIdx))

		title, location := x.splitVenue(patterns.CollapseSpace(group(bodyIdx)))
		if location == "" {
			next := len(text)
			if i+1 < len(matches) {
				next = matches[i+1][0]
			}
			location = x.venueAfter(text, m[1], next)
		}

		candidates = append(candidates, event.Candidate{
			Title:    title,
			Date:     fmt.Sprintf("%02d/%02d/%d", day, month, year),
			Time:     group(timeIdx),
			Location: location,
		})
	}
	return candidates
}

// flatMatches returns the submatch indexes of every acceptable flat-text
// match. A day that continues a longer number ("2016Eyl") is rejected unless
// the digits before it are the time that ended the previous match, and the
// scan resumes one byte later so an event hidden in a rejected body is not
// skipped. Days outside 1..31 are rejected the same way.
func flatMatches(re *regexp.Regexp, text string) [][]int {
	var matches [][]int
	pos, prevEnd := 0, -1
	for pos < len(text) {
		loc := re.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += pos
			}
		}

		start := loc[0]
		day, _ := strconv.Atoi(text[start : start+2])
		if (start > 0 && isASCIIDigit(text[start-1]) && start != prevEnd) || day < 1 || day > 31 {
			pos = start + 1
			continue
		}

		matches = append(matches, loc)
		prevEnd, pos = loc[1], loc[1]
	}
	return matches
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// splitVenue separates merged "<title> <venue>" text. An explicit venue label
// wins. Otherwise every indicator keyword whose right-most occurrence lies
// past the first third of the text proposes a venue running from the start of
// its word to the end; the longest proposal is taken.
func (x *Extractor) splitVenue(body string) (title, location string) {
	set := x.patterns
	if loc := set.LabelIndex(body, patterns.LabelVenue); loc != nil {
		value, _ := set.LabelValue(body, patterns.LabelVenue)
		return strings.TrimSpace(body[:loc[0]]), value
	}

	threshold := len(body) / 3
	best := -1
	for _, kw := range set.VenueKeywords {
		i := strings.LastIndex(body, kw)
		if i < 0 || i < threshold {
			continue
		}
		if start := wordStart(body, i); best == -1 || start < best {
			best = start
		}
	}
	if best < 0 {
		return body, ""
	}
	return strings.TrimSpace(body[:best]), strings.TrimSpace(body[best:])
}

// venueAfter looks for a "Yer :" phrase within venueLookahead characters
// after end, never reaching past next, where the following event begins.
func (x *Extractor) venueAfter(text string, end, next int) string {
	limit := end
	for n := 0; n < venueLookahead && limit < next; n++ {
		_, size := utf8.DecodeRuneInString(text[limit:])
		limit += size
	}
	if limit > next {
		limit = next
	}
	window := text[end:limit]

	loc := x.patterns.LabelIndex(window, patterns.LabelVenue)
	if loc == nil {
		return ""
	}
	rest := window[loc[1]:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	if cut := x.patterns.LabelIndex(rest, patterns.LabelTime); cut != nil {
		rest = rest[:cut[0]]
	}
	return patterns.CollapseSpace(rest)
}

// wordStart moves i back to the first byte of the word containing it.
func wordStart(s string, i int) int {
	for i > 0 {
		r, size := utf8.DecodeLastRuneInString(s[:i])
		if unicode.IsSpace(r) {
			break
		}
		i -= size
	}
	return i
}
