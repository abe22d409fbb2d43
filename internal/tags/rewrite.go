package tags

import (
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/aidanlsb/chronify/internal/chronify"
	"github.com/aidanlsb/chronify/internal/dates"
)

// InstantResolver resolves a single time expression. *chronify.Resolver
// satisfies it.
type InstantResolver interface {
	Resolve(expr string, opts chronify.ResolveOptions) (time.Time, bool, error)
}

// DateTag is a watched @tag(value) annotation found in text.
type DateTag struct {
	Name string // tag name as written, without @
	Text string // text between the parentheses

	// Start and End are byte offsets of the annotation, from @ through ).
	Start int
	End   int
}

// Raw returns the annotation as it appears in the source text.
func (d DateTag) Raw() string {
	return "@" + d.Name + "(" + d.Text + ")"
}

// Change records what happened to one annotation during a rewrite.
type Change struct {
	Tag         DateTag
	Replacement string // canonical annotation; equals Tag.Raw() when unchanged
	Resolved    bool   // the value was understood
	Rewritten   bool   // the text changed
}

// Rewriter canonicalizes date tags. It is safe for concurrent use.
type Rewriter struct {
	resolver InstantResolver
	skipCode bool
	logger   *slog.Logger
}

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithSkipCode leaves annotations inside markdown code spans and code
// blocks untouched.
func WithSkipCode(skip bool) Option {
	return func(rw *Rewriter) {
		rw.skipCode = skip
	}
}

// WithLogger sets the logger for per-tag diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(rw *Rewriter) {
		if l != nil {
			rw.logger = l
		}
	}
}

// NewRewriter creates a Rewriter that resolves free-form tag values with resolver.
func NewRewriter(resolver InstantResolver, opts ...Option) *Rewriter {
	rw := &Rewriter{
		resolver: resolver,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(rw)
	}
	return rw
}

var pastTagRegex = regexp.MustCompile(`(?i)^(?:done|complete)`)

// FutureBias reports whether a tag's value should be read as a future time.
// Completion tags (done, complete, completed) look into the past.
func FutureBias(tagName string) bool {
	return !pastTagRegex.MatchString(tagName)
}

// Find returns the watched annotations in text, in order.
func (rw *Rewriter) Find(text string, additional ...string) []DateTag {
	re := compileWatchList(WatchList(additional...))
	tagIdx := re.SubexpIndex("tag")
	dateIdx := re.SubexpIndex("date")

	var protected []span
	if rw.skipCode {
		protected = codeSpans([]byte(text))
	}

	var found []DateTag
	for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
		at := m[2*tagIdx] - 1
		if inSpans(protected, at) {
			continue
		}
		found = append(found, DateTag{
			Name:  text[m[2*tagIdx]:m[2*tagIdx+1]],
			Text:  text[m[2*dateIdx]:m[2*dateIdx+1]],
			Start: at,
			End:   m[1],
		})
	}
	return found
}

// Rewrite replaces every resolvable watched annotation with
// @tag(YYYY-MM-DD HH:MM). Annotations that cannot be resolved are left
// exactly as written, so one bad value never blocks the rest.
func (rw *Rewriter) Rewrite(text string, additional ...string) string {
	out, _ := rw.RewriteWithChanges(text, additional...)
	return out
}

// RewriteWithChanges is Rewrite plus a record of every annotation visited.
func (rw *Rewriter) RewriteWithChanges(text string, additional ...string) (string, []Change) {
	found := rw.Find(text, additional...)
	if len(found) == 0 {
		return text, nil
	}

	var b strings.Builder
	b.Grow(len(text))
	changes := make([]Change, 0, len(found))
	last := 0
	for _, tag := range found {
		replacement, ok := rw.canonicalize(tag)
		if !ok {
			replacement = tag.Raw()
		}
		b.WriteString(text[last:tag.Start])
		b.WriteString(replacement)
		last = tag.End

		changes = append(changes, Change{
			Tag:         tag,
			Replacement: replacement,
			Resolved:    ok,
			Rewritten:   replacement != tag.Raw(),
		})
	}
	b.WriteString(text[last:])

	return b.String(), changes
}

func (rw *Rewriter) canonicalize(tag DateTag) (string, bool) {
	value := strings.TrimSpace(tag.Text)

	// Canonical values are copied as written. Reparsing them in a zone would
	// move wall times that fall in a DST gap.
	if dates.IsTimestamp(value) {
		if !dates.IsValidTimestamp(value) {
			rw.logger.Debug("date tag left unchanged", "tag", tag.Name, "value", tag.Text)
			return "", false
		}
		return "@" + tag.Name + "(" + value + ")", true
	}

	t, ok, err := rw.resolver.Resolve(value, chronify.ResolveOptions{
		Guess:  chronify.GuessBegin,
		Future: FutureBias(tag.Name),
	})
	if err != nil || !ok {
		rw.logger.Debug("date tag left unchanged", "tag", tag.Name, "value", tag.Text)
		return "", false
	}
	return format(tag.Name, t), true
}

func format(name string, t time.Time) string {
	return "@" + name + "(" + dates.FormatTimestamp(t) + ")"
}
