// Package natural implements the free-text semantic parser behind
// chronify.Resolver.
//
// Phrases are resolved by, in order: the exact relative day keywords
// (today/yesterday/tomorrow), github.com/tj/go-naturaldate with the caller's
// temporal bias as its direction, and github.com/olebedev/when as a fallback
// for phrasings naturaldate rejects. Weekday abbreviations are spelled out
// first. A bare clock time or weekday is then moved to the side of the
// reference the bias asks for, and results that name a whole day are
// snapped to its first or last second according to the guess position.
package natural

import (
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/tj/go-naturaldate"

	"github.com/aidanlsb/chronify/internal/chronify"
	"github.com/aidanlsb/chronify/internal/dates"
)

// Parser resolves natural-language phrases. It is safe for concurrent use.
type Parser struct {
	fallback *when.Parser
	logger   *slog.Logger
}

// New creates a Parser. A nil logger discards diagnostics.
func New(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	return &Parser{fallback: w, logger: logger}
}

var _ chronify.SemanticParser = (*Parser)(nil)

// Parse implements chronify.SemanticParser.
func (p *Parser) Parse(phrase string, ref time.Time, opts chronify.ParseOptions) (time.Time, bool) {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	if phrase == "" {
		return time.Time{}, false
	}
	phrase = ExpandWeekdays(phrase)

	if day, ok := dates.ResolveRelativeDateKeyword(phrase, ref); ok {
		return snap(day, opts.Guess), true
	}

	window := opts.AmbiguousHours
	if window <= 0 {
		window = chronify.DefaultAmbiguousHours
	}
	prepared := ApplyAmbiguityWindow(phrase, window)

	t, ok := p.parseNaturalDate(prepared, ref, opts.Bias)
	if !ok {
		t, ok = p.parseWhen(prepared, ref)
	}
	if !ok {
		return time.Time{}, false
	}

	t = alignToBias(phrase, t, ref, opts.Bias)
	if IsDayGranular(phrase) {
		t = snap(t, opts.Guess)
	}
	return t, true
}

func (p *Parser) parseNaturalDate(phrase string, ref time.Time, bias chronify.Bias) (time.Time, bool) {
	direction := naturaldate.Past
	if bias == chronify.BiasFuture {
		direction = naturaldate.Future
	}

	t, err := naturaldate.Parse(phrase, ref, naturaldate.WithDirection(direction))
	if err != nil {
		p.logger.Debug("naturaldate rejected phrase", "phrase", phrase, "error", err)
		return time.Time{}, false
	}
	// naturaldate hands back the reference time for input it ignores.
	if t.Equal(ref) && !nowRegex.MatchString(phrase) {
		return time.Time{}, false
	}
	return t, true
}

func (p *Parser) parseWhen(phrase string, ref time.Time) (time.Time, bool) {
	r, err := p.fallback.Parse(phrase, ref)
	if err != nil {
		p.logger.Debug("when rejected phrase", "phrase", phrase, "error", err)
		return time.Time{}, false
	}
	if r == nil {
		return time.Time{}, false
	}
	return r.Time, true
}

// alignToBias places a bare clock time on the closest matching day before
// or after ref, and a weekday phrase on the closest matching week. Other
// phrases are returned unchanged.
func alignToBias(phrase string, t, ref time.Time, bias chronify.Bias) time.Time {
	if chronify.IsClockOnly(phrase) {
		c := time.Date(ref.Year(), ref.Month(), ref.Day(), t.Hour(), t.Minute(), t.Second(), 0, ref.Location())
		return stepToward(c, ref, bias, 1)
	}
	if day, ok := weekdayPhrase(phrase); ok {
		offset := int(day) - int(ref.Weekday())
		c := time.Date(ref.Year(), ref.Month(), ref.Day()+offset, t.Hour(), t.Minute(), t.Second(), 0, ref.Location())
		return stepToward(c, ref, bias, 7)
	}
	return t
}

func stepToward(c, ref time.Time, bias chronify.Bias, days int) time.Time {
	if bias == chronify.BiasFuture && c.Before(ref) {
		return c.AddDate(0, 0, days)
	}
	if bias == chronify.BiasPast && c.After(ref) {
		return c.AddDate(0, 0, -days)
	}
	return c
}

// weekdayPhrase recognizes "friday", "friday 3pm" and "friday at 3pm".
func weekdayPhrase(phrase string) (time.Weekday, bool) {
	fields := strings.Fields(phrase)
	if len(fields) == 0 {
		return 0, false
	}
	day, ok := dates.ParseWeekday(fields[0])
	if !ok {
		return 0, false
	}
	rest := fields[1:]
	if len(rest) > 0 && rest[0] == "at" {
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return day, true
	}
	return day, chronify.IsClockOnly(strings.Join(rest, " "))
}

// ExpandWeekdays spells out weekday abbreviations ("mon", "thurs") so the
// underlying parsers, which only know full names, see them.
func ExpandWeekdays(phrase string) string {
	return wordRegex.ReplaceAllStringFunc(phrase, func(word string) string {
		if day, ok := dates.ParseWeekday(word); ok {
			return strings.ToLower(day.String())
		}
		return word
	})
}

func snap(t time.Time, guess chronify.Guess) time.Time {
	if guess == chronify.GuessEnd {
		return dates.EndOfDay(t)
	}
	return dates.StartOfDay(t)
}

var (
	nowRegex = regexp.MustCompile(`\bnow\b`)

	wordRegex = regexp.MustCompile(`(?i)\b[a-z]{3,9}\b`)

	// colonTimeRegex captures H:MM and any meridiem directly following it.
	colonTimeRegex = regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})(\s*[ap]\.?m?\b)?`)

	// atHourRegex captures "at H" and any meridiem directly following it.
	atHourRegex = regexp.MustCompile(`(?i)\bat\s+(\d{1,2})\b(\s*[ap]\.?m?\b)?`)

	clockWordsRegex = regexp.MustCompile(`(?i)\d{1,2}:\d{2}|\d\s*[ap]\.?m\b|\d\s*[ap]\b|\bat\s+\d|\b(?:noon|midnight|now|morning|afternoon|evening|tonight|night)\b`)

	offsetWordsRegex = regexp.MustCompile(`(?i)\b(?:ago|from now|later|hours?|hrs?|minutes?|mins?|seconds?|secs?)\b|\bin\s+\d`)
)

// ApplyAmbiguityWindow appends "pm" to bare clock hours in [1, window), so
// with the default window of 8 "5:30" reads as 17:30 while "9:00" stays in
// the morning. Hours written with am/pm, zero-padded ("04:00") or 12 and
// above are left alone.
func ApplyAmbiguityWindow(phrase string, window int) string {
	if window <= 1 {
		return phrase
	}

	var inserts []int
	collect := func(re *regexp.Regexp, hourGroup, meridiemGroup, endGroup int) {
		for _, m := range re.FindAllStringSubmatchIndex(phrase, -1) {
			if m[2*meridiemGroup] >= 0 {
				continue
			}
			end := m[2*endGroup+1]
			if end < len(phrase) && phrase[end] == ':' {
				continue
			}
			hourText := phrase[m[2*hourGroup]:m[2*hourGroup+1]]
			if len(hourText) == 2 && hourText[0] == '0' {
				continue
			}
			hour, err := strconv.Atoi(hourText)
			if err != nil || hour < 1 || hour >= window || hour >= 12 {
				continue
			}
			inserts = append(inserts, end)
		}
	}
	collect(colonTimeRegex, 1, 3, 2)
	collect(atHourRegex, 1, 2, 1)

	if len(inserts) == 0 {
		return phrase
	}
	sort.Ints(inserts)

	var b strings.Builder
	last := 0
	for _, pos := range inserts {
		b.WriteString(phrase[last:pos])
		b.WriteString("pm")
		last = pos
	}
	b.WriteString(phrase[last:])
	return b.String()
}

// IsDayGranular reports whether a phrase names a day without a time of day
// or a relative offset, e.g. "last friday" but not "friday 3pm" or
// "2 hours ago".
func IsDayGranular(phrase string) bool {
	return !clockWordsRegex.MatchString(phrase) && !offsetWordsRegex.MatchString(phrase)
}
