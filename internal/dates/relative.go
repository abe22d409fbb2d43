package dates

import (
	"strings"
	"time"
)

var relativeDateOffsets = map[string]int{
	"today":     0,
	"tomorrow":  1,
	"yesterday": -1,
}

// NormalizeRelativeDateKeyword normalizes and validates a relative date keyword.
// Returns the canonical keyword and true when valid.
func NormalizeRelativeDateKeyword(value string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if _, ok := relativeDateOffsets[normalized]; !ok {
		return "", false
	}
	return normalized, true
}

// ResolveRelativeDateKeyword resolves today/tomorrow/yesterday to the start
// of the named day relative to now.
func ResolveRelativeDateKeyword(value string, now time.Time) (time.Time, bool) {
	keyword, ok := NormalizeRelativeDateKeyword(value)
	if !ok {
		return time.Time{}, false
	}
	return StartOfDay(now).AddDate(0, 0, relativeDateOffsets[keyword]), true
}

var weekdayNames = []struct {
	abbrev string
	name   string
	day    time.Weekday
}{
	{"sun", "sunday", time.Sunday},
	{"mon", "monday", time.Monday},
	{"tue", "tuesday", time.Tuesday},
	{"wed", "wednesday", time.Wednesday},
	{"thu", "thursday", time.Thursday},
	{"fri", "friday", time.Friday},
	{"sat", "saturday", time.Saturday},
}

// ParseWeekday recognizes a weekday name or abbreviation ("mon", "tues",
// "thurs", "friday"). The value must be a prefix of the full name at least
// three letters long.
func ParseWeekday(value string) (time.Weekday, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if len(v) < 3 {
		return 0, false
	}
	for _, w := range weekdayNames {
		if strings.HasPrefix(v, w.abbrev) && strings.HasPrefix(w.name, v) {
			return w.day, true
		}
	}
	return 0, false
}
