package event

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/ytu-events-rss/internal/patterns"
)

var (
	longDatePattern = regexp.MustCompile(`^(\d{1,2})\s+(\p{L}+)\s+(\d{4})$`)
	clockPattern    = regexp.MustCompile(`(\d{1,2})[:.](\d{2})`)
)

// ParseDate attempts to parse dateText with the configured layouts, then the
// "16 Eylül 2025" long form. A date embedded in longer text is found and
// parsed as a last resort. Returns false if nothing parses.
func ParseDate(set *patterns.Set, dateText string) (time.Time, bool) {
	dateText = patterns.CollapseSpace(dateText)
	if dateText == "" || dateText == DateUnknown {
		return time.Time{}, false
	}

	if t, ok := parseExact(set, dateText); ok {
		return t, true
	}

	// Try a date sitting inside a longer string, e.g. "16.09.2025 Salı"
	if found := set.FindDate(dateText); found != "" && found != dateText {
		return parseExact(set, found)
	}

	return time.Time{}, false
}

func parseExact(set *patterns.Set, dateText string) (time.Time, bool) {
	for _, layout := range set.DateLayouts {
		if t, err := time.ParseInLocation(layout, dateText, Istanbul); err == nil {
			return t, true
		}
	}

	m := longDatePattern.FindStringSubmatch(dateText)
	if m == nil {
		return time.Time{}, false
	}
	month, ok := set.MonthByName(m[2])
	if !ok {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[3])
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, Istanbul)
	if t.Day() != day {
		return time.Time{}, false // e.g. 31 Şubat rolled over
	}
	return t, true
}

// FormatDate renders t as DD/MM/YYYY.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// ParseClock extracts the first H:MM, HH:MM or HH.MM time of day from text.
// Returns "" when no valid time is present.
func ParseClock(text string) (hour, minute int, formatted string) {
	for _, m := range clockPattern.FindAllStringSubmatch(text, -1) {
		h, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		if h > 23 || mm > 59 {
			continue
		}
		return h, mm, fmt.Sprintf("%02d:%02d", h, mm)
	}
	return 0, 0, ""
}

// joinDateClock places the time of day from clock onto day.
func joinDateClock(day time.Time, clock string) time.Time {
	if strings.TrimSpace(clock) == "" {
		return day
	}
	h, m, formatted := ParseClock(clock)
	if formatted == "" {
		return day
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, day.Location())
}
