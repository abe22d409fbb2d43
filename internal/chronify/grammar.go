package chronify

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Grammar identifies which grammar recognized an expression.
type Grammar int

const (
	// GrammarFreeText means neither shorthand grammar matched; the phrase
	// goes to the semantic parser.
	GrammarFreeText Grammar = iota
	// GrammarNumeric is a bare integer count of minutes ago.
	GrammarNumeric
	// GrammarInterval is compound day/hour/minute shorthand, e.g. "1d2h30m".
	GrammarInterval
)

func (g Grammar) String() string {
	switch g {
	case GrammarNumeric:
		return "numeric"
	case GrammarInterval:
		return "interval"
	default:
		return "free-text"
	}
}

// Match is the result of classifying an expression. For the numeric and
// interval grammars Offset is how far before the reference clock the
// expression points.
type Match struct {
	Grammar Grammar
	Offset  time.Duration

	// OutOfRange is set when a shorthand expression names an offset larger
	// than a time.Duration can hold. Offset is zero.
	OutOfRange bool
}

var (
	numericRegex = regexp.MustCompile(`^\d+$`)

	// intervalRegex allows whitespace between components and a trailing "ago".
	intervalRegex = regexp.MustCompile(`(?i)^(?:(\d+)d)?\s*(?:(\d+)h)?\s*(?:(\d+)m)?(?:\s*ago)?$`)

	// clockOnlyRegex matches a phrase that is nothing but a time of day.
	clockOnlyRegex = regexp.MustCompile(`(?i)^(?:\d{1,2}:\d{2}(?:\s*[ap]\.?m?\.?)?|\d{1,2}\s*[ap]\.?m?\.?|noon|midnight)$`)
)

// MatchNumeric recognizes a bare integer as minutes.
func MatchNumeric(expr string) (time.Duration, bool) {
	if !numericRegex.MatchString(expr) {
		return 0, false
	}
	return scaled(expr, time.Minute)
}

// MatchInterval recognizes compound day/hour/minute shorthand. At least one
// component must be present; absent components count as zero.
func MatchInterval(expr string) (time.Duration, bool) {
	m := intervalRegex.FindStringSubmatch(expr)
	if m == nil {
		return 0, false
	}

	units := []time.Duration{24 * time.Hour, time.Hour, time.Minute}
	var total time.Duration
	present := false
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		d, ok := scaled(m[i+1], unit)
		if !ok || d > math.MaxInt64-total {
			return 0, false
		}
		total += d
		present = true
	}
	if !present {
		return 0, false
	}
	return total, true
}

// scaled multiplies a non-negative decimal count by unit, failing when the
// product does not fit in a time.Duration.
func scaled(digits string, unit time.Duration) (time.Duration, bool) {
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n < 0 || n > math.MaxInt64/int64(unit) {
		return 0, false
	}
	return time.Duration(n) * unit, true
}

func hasIntervalComponent(expr string) bool {
	m := intervalRegex.FindStringSubmatch(expr)
	return m != nil && (m[1] != "" || m[2] != "" || m[3] != "")
}

// IsClockOnly reports whether expr is only a time of day ("5pm", "17:30", "noon").
func IsClockOnly(expr string) bool {
	return clockOnlyRegex.MatchString(strings.TrimSpace(expr))
}

// Classify runs the shorthand grammars in priority order: numeric, then
// interval. Anything else is free text. An expression shaped like a
// shorthand whose offset overflows still classifies as that grammar, with
// OutOfRange set.
func Classify(expr string) Match {
	expr = strings.TrimSpace(expr)
	if numericRegex.MatchString(expr) {
		offset, ok := MatchNumeric(expr)
		return Match{Grammar: GrammarNumeric, Offset: offset, OutOfRange: !ok}
	}
	if hasIntervalComponent(expr) {
		offset, ok := MatchInterval(expr)
		return Match{Grammar: GrammarInterval, Offset: offset, OutOfRange: !ok}
	}
	return Match{Grammar: GrammarFreeText}
}
