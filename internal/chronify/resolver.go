// Package chronify interprets human-entered time expressions.
//
// A Resolver turns a single expression into an instant using, in priority
// order, the numeric grammar ("45" = 45 minutes ago), the compound interval
// grammar ("1d2h30m" = that long ago) and finally a pluggable SemanticParser
// for free text ("yesterday 5:30pm"). SplitRange builds time ranges on top of
// Resolve.
//
// Resolvers hold no per-call state and are safe for concurrent use.
package chronify

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/aidanlsb/chronify/internal/dates"
)

// SemanticParser resolves free-text phrases the shorthand grammars don't
// cover. It returns false when it cannot make sense of the phrase.
type SemanticParser interface {
	Parse(phrase string, ref time.Time, opts ParseOptions) (time.Time, bool)
}

type noParser struct{}

func (noParser) Parse(string, time.Time, ParseOptions) (time.Time, bool) {
	return time.Time{}, false
}

// Resolver resolves expressions against a reference clock.
type Resolver struct {
	clock          Clock
	parser         SemanticParser
	ambiguousHours int
	logger         *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithClock sets the reference clock. Defaults to SystemClock.
func WithClock(c Clock) Option {
	return func(r *Resolver) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithParser sets the free-text delegate. Without one, free text never resolves.
func WithParser(p SemanticParser) Option {
	return func(r *Resolver) {
		if p != nil {
			r.parser = p
		}
	}
}

// WithAmbiguousHours overrides DefaultAmbiguousHours.
func WithAmbiguousHours(hours int) Option {
	return func(r *Resolver) {
		if hours > 0 {
			r.ambiguousHours = hours
		}
	}
}

// WithLogger sets the logger for interpretation diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		clock:          SystemClock,
		parser:         noParser{},
		ambiguousHours: DefaultAmbiguousHours,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Now returns the reference clock's current instant.
func (r *Resolver) Now() time.Time {
	return r.clock.Now()
}

// Resolve interprets expr as an instant.
//
// A blank expression, or a numeric or interval shorthand too large to
// represent, is an error wrapping ErrInvalidTimeExpression. A free-text
// phrase the semantic parser cannot handle is not an error: Resolve returns
// ok=false.
func (r *Resolver) Resolve(expr string, opts ResolveOptions) (t time.Time, ok bool, err error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return time.Time{}, false, errors.Wrap(ErrInvalidTimeExpression, "empty expression")
	}

	now := r.clock.Now()

	match := Classify(trimmed)
	if match.OutOfRange {
		return time.Time{}, false, errors.Wrapf(ErrInvalidTimeExpression, "%s offset %q is out of range", match.Grammar, trimmed)
	}
	if match.Grammar != GrammarFreeText {
		t = now.Add(-match.Offset)
		r.logger.Debug("time expression interpreted",
			"expression", trimmed,
			"grammar", match.Grammar.String(),
			"seconds_ago", int64(match.Offset/time.Second),
			"result", t.Format(time.RFC3339))
		return t, true, nil
	}

	phrase := r.delegatePhrase(trimmed, now, opts)
	t, ok = r.parser.Parse(phrase, now, ParseOptions{
		Guess:          opts.Guess,
		Bias:           opts.Bias(),
		AmbiguousHours: r.ambiguousHours,
	})
	if !ok {
		r.logger.Debug("time expression not understood", "expression", trimmed, "phrase", phrase)
		return time.Time{}, false, nil
	}

	r.logger.Debug("time expression interpreted",
		"expression", trimmed,
		"grammar", GrammarFreeText.String(),
		"phrase", phrase,
		"guess", opts.Guess.String(),
		"bias", opts.Bias().String(),
		"result", t.Format(time.RFC3339))
	return t, true, nil
}

// delegatePhrase rewrites a free-text phrase before it reaches the semantic
// parser: a weekday naming the current day becomes "today", and a bare clock
// time is prefixed with the caller's context.
func (r *Resolver) delegatePhrase(phrase string, now time.Time, opts ResolveOptions) string {
	if day, ok := dates.ParseWeekday(phrase); ok && day == now.Weekday() {
		return "today"
	}
	if ctx := strings.TrimSpace(opts.Context); ctx != "" && IsClockOnly(phrase) {
		return ctx + " " + phrase
	}
	return phrase
}
