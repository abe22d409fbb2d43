// Package dates provides canonical date/timestamp layouts and strict parsing.
//
// This package exists to avoid duplicating absolute-format handling across:
// - the date-tag rewriter (canonical @tag(YYYY-MM-DD HH:MM) values)
// - the CLI --now flag
// - the natural-language delegate (relative day keywords, weekday names)
package dates

import (
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	// DateLayout is the canonical YYYY-MM-DD layout.
	DateLayout = "2006-01-02"

	// TimestampLayout is the canonical YYYY-MM-DD HH:MM layout written into tags.
	TimestampLayout = "2006-01-02 15:04"
)

var (
	// ErrInvalidTimestamp is returned for values that are not a real
	// YYYY-MM-DD HH:MM timestamp.
	ErrInvalidTimestamp = errors.New("invalid timestamp")

	// ErrInvalidReference is returned when a reference-clock value cannot be parsed.
	ErrInvalidReference = errors.New("invalid reference time")
)

var (
	dateRegex      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timestampRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}$`)
)

// IsValidDate checks if a string is a valid YYYY-MM-DD date.
func IsValidDate(s string) bool {
	if !dateRegex.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// IsTimestamp reports whether s has the strict YYYY-MM-DD HH:MM shape.
// It checks shape only; IsValidTimestamp also checks calendar ranges.
func IsTimestamp(s string) bool {
	return timestampRegex.MatchString(s)
}

// IsValidTimestamp reports whether s is a strict YYYY-MM-DD HH:MM timestamp
// naming a real calendar date and clock time. The check is zone-free, so a
// wall time skipped by a DST transition is still valid.
func IsValidTimestamp(s string) bool {
	if !IsTimestamp(s) {
		return false
	}
	_, err := time.Parse(TimestampLayout, s)
	return err == nil
}

// ParseTimestamp parses a strict YYYY-MM-DD HH:MM timestamp in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !IsTimestamp(s) {
		return time.Time{}, errors.Wrapf(ErrInvalidTimestamp, "%q", s)
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(TimestampLayout, s, loc)
	if err != nil {
		return time.Time{}, errors.Wrapf(ErrInvalidTimestamp, "%q", s)
	}
	return t, nil
}

// FormatTimestamp formats t as YYYY-MM-DD HH:MM.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ParseReference parses a reference-clock value. Accepted formats:
// - YYYY-MM-DD HH:MM
// - YYYY-MM-DD (midnight)
// - RFC3339
func ParseReference(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.Wrap(ErrInvalidReference, "empty")
	}
	if loc == nil {
		loc = time.Local
	}

	if t, err := ParseTimestamp(s, loc); err == nil {
		return t, nil
	}
	if IsValidDate(s) {
		return time.ParseInLocation(DateLayout, s, loc)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	return time.Time{}, errors.Wrapf(ErrInvalidReference, "%q, use YYYY-MM-DD HH:MM", s)
}

// StartOfDay returns midnight at the start of t's day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last whole second of t's day (23:59:59).
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
