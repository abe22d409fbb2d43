package chronify

import (
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/aidanlsb/chronify/internal/dates"
)

// TimeRange is a resolved start/finish pair. Finish is nil when the end side
// could not be resolved, which callers treat as open-ended ("now").
//
// Start <= Finish is not enforced: ambiguous natural-language input can
// legitimately produce an inverted range.
type TimeRange struct {
	Start  time.Time
	Finish *time.Time
}

// HasFinish reports whether the range has a resolved end.
func (tr TimeRange) HasFinish() bool {
	return tr.Finish != nil
}

// rangeConnectorRegex matches the first connector between two sides.
// Connectors must be surrounded by whitespace so hyphenated words and ISO
// dates are never split.
var rangeConnectorRegex = regexp.MustCompile(`(?i)\s+(?:to|through|thru|until|til|-+)\s+`)

// rangeContext is used for sides that are only a clock time, so "1pm to 3pm"
// means today.
const rangeContext = "today"

// SplitConnector splits expr at the first range connector.
func SplitConnector(expr string) (left, right string, ok bool) {
	loc := rangeConnectorRegex.FindStringIndex(expr)
	if loc == nil {
		return "", "", false
	}
	return strings.TrimSpace(expr[:loc[0]]), strings.TrimSpace(expr[loc[1]:]), true
}

// SplitRange resolves expr as a time range.
//
// With a connector ("mon 3pm to mon 5pm") the left side resolves with
// GuessBegin and the right with GuessEnd. Without one, the whole expression
// resolves twice, once per guess position.
//
// An unresolvable start is an error wrapping ErrInvalidTimeExpression; an
// unresolvable finish leaves Finish nil.
func (r *Resolver) SplitRange(expr string) (TimeRange, error) {
	left, right, found := SplitConnector(expr)
	if !found {
		left = strings.TrimSpace(expr)
		right = left
	}

	start, ok, err := r.Resolve(left, ResolveOptions{Guess: GuessBegin, Context: rangeContext})
	if err != nil {
		return TimeRange{}, errors.Wrapf(err, "range start %q", left)
	}
	if !ok {
		return TimeRange{}, errors.Wrapf(ErrInvalidTimeExpression, "unrecognized range start %q", left)
	}

	tr := TimeRange{Start: start}
	finish, ok, err := r.Resolve(right, ResolveOptions{Guess: GuessEnd, Context: rangeContext})
	if err == nil && ok {
		tr.Finish = &finish
	}

	finishText := "now"
	if tr.Finish != nil {
		finishText = dates.FormatTimestamp(*tr.Finish)
	}
	r.logger.Debug("date range interpreted",
		"expression", strings.TrimSpace(expr),
		"start", dates.FormatTimestamp(tr.Start),
		"finish", finishText)

	return tr, nil
}
