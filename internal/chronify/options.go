package chronify

import (
	"strings"

	"github.com/pkg/errors"
)

// Guess selects which end of an implied span a phrase resolves to.
// "yesterday" with GuessBegin is yesterday 00:00; with GuessEnd, 23:59:59.
type Guess int

const (
	GuessBegin Guess = iota
	GuessEnd
)

func (g Guess) String() string {
	if g == GuessEnd {
		return "end"
	}
	return "begin"
}

// ParseGuess parses "begin" or "end".
func ParseGuess(s string) (Guess, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "begin", "start":
		return GuessBegin, nil
	case "end", "finish":
		return GuessEnd, nil
	default:
		return GuessBegin, errors.Errorf("invalid guess position %q, use begin or end", s)
	}
}

// Bias selects whether ambiguous phrases land in the future or the past.
type Bias int

const (
	BiasPast Bias = iota
	BiasFuture
)

func (b Bias) String() string {
	if b == BiasFuture {
		return "future"
	}
	return "past"
}

// DefaultAmbiguousHours is the window used to decide whether a bare clock
// time without am/pm is morning or afternoon.
const DefaultAmbiguousHours = 8

// ResolveOptions is the disambiguation context for a single resolution.
type ResolveOptions struct {
	// Future assumes ambiguous phrases refer to the future.
	Future bool

	// Guess picks the start or end of an implied span.
	Guess Guess

	// Context is prefixed to phrases that are only a clock time,
	// e.g. "today" turns "5pm" into "today 5pm".
	Context string
}

// Bias returns the temporal bias implied by o.Future.
func (o ResolveOptions) Bias() Bias {
	if o.Future {
		return BiasFuture
	}
	return BiasPast
}

// ParseOptions is what the semantic parser receives for a free-text phrase.
type ParseOptions struct {
	Guess          Guess
	Bias           Bias
	AmbiguousHours int
}
