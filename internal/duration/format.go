package duration

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Style selects how Format renders a duration.
type Style string

const (
	// StyleDHM renders compact shorthand, e.g. "1d2h30m".
	StyleDHM Style = "dhm"
	// StyleHM renders total hours and minutes, e.g. "26:30".
	StyleHM Style = "hm"
	// StyleM renders total minutes, e.g. "1590".
	StyleM Style = "m"
	// StyleClock renders total hours, minutes and seconds, e.g. "26:30:00".
	StyleClock Style = "clock"
	// StyleNatural renders prose, e.g. "1 day, 2 hours, 30 minutes".
	StyleNatural Style = "natural"
)

// Styles lists every supported style in display order.
var Styles = []Style{StyleDHM, StyleHM, StyleM, StyleClock, StyleNatural}

// ParseStyle validates a style name.
func ParseStyle(name string) (Style, error) {
	normalized := Style(strings.ToLower(strings.TrimSpace(name)))
	for _, s := range Styles {
		if s == normalized {
			return s, nil
		}
	}
	return "", errors.Wrapf(ErrInvalidArgument, "unknown duration style %q", name)
}

type parts struct {
	days, hours, minutes, seconds int64
}

func split(d time.Duration) parts {
	total := int64(d / time.Second)
	return parts{
		days:    total / 86400,
		hours:   total % 86400 / 3600,
		minutes: total % 3600 / 60,
		seconds: total % 60,
	}
}

// Format renders d in the given style. Sub-second precision is dropped.
func Format(d time.Duration, style Style) (string, error) {
	if d < 0 {
		return "", errors.Wrapf(ErrInvalidArgument, "negative duration %s", d)
	}

	p := split(d)
	totalHours := p.days*24 + p.hours

	switch style {
	case StyleDHM:
		return formatDHM(p), nil
	case StyleHM:
		return fmt.Sprintf("%02d:%02d", totalHours, p.minutes), nil
	case StyleM:
		return fmt.Sprintf("%d", totalHours*60+p.minutes), nil
	case StyleClock:
		return fmt.Sprintf("%02d:%02d:%02d", totalHours, p.minutes, p.seconds), nil
	case StyleNatural:
		return formatNatural(p), nil
	default:
		return "", errors.Wrapf(ErrInvalidArgument, "unknown duration style %q", style)
	}
}

func formatDHM(p parts) string {
	var b strings.Builder
	if p.days > 0 {
		fmt.Fprintf(&b, "%dd", p.days)
	}
	if p.hours > 0 {
		fmt.Fprintf(&b, "%dh", p.hours)
	}
	if p.minutes > 0 {
		fmt.Fprintf(&b, "%dm", p.minutes)
	}
	if b.Len() == 0 {
		return "0m"
	}
	return b.String()
}

func formatNatural(p parts) string {
	var out []string
	add := func(n int64, unit string) {
		if n == 0 {
			return
		}
		if n == 1 {
			out = append(out, fmt.Sprintf("1 %s", unit))
			return
		}
		out = append(out, fmt.Sprintf("%d %ss", n, unit))
	}
	add(p.days, "day")
	add(p.hours, "hour")
	add(p.minutes, "minute")
	add(p.seconds, "second")

	if len(out) == 0 {
		return "0 minutes"
	}
	return strings.Join(out, ", ")
}
