// Package duration parses and formats elapsed-time quantities.
//
// Durations are whole seconds carried as time.Duration. Parse returns
// zero for input that contains no recognizable quantity.
package duration

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrMalformedDuration is returned when a clock-style duration is not H:M:S shaped.
	ErrMalformedDuration = errors.New("malformed duration")

	// ErrInvalidArgument is returned for negative durations or unknown format styles.
	ErrInvalidArgument = errors.New("invalid argument")
)

var (
	// hoursMinutesRegex matches the HH:MM colon form.
	hoursMinutesRegex = regexp.MustCompile(`^(\d+):(\d{2})$`)

	// quantityRegex matches one amount with an optional unit suffix.
	quantityRegex = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)([hmd])?`)

	// clockRegex matches H:M:S clock durations.
	clockRegex = regexp.MustCompile(`^(\d+):(\d{1,2}):(\d{1,2})$`)
)

// Parse converts duration shorthand into a duration of whole seconds.
//
// Accepted forms:
//   - "HH:MM" (hours and minutes)
//   - one or more amounts with an optional unit: "45", "45m", "1.5h", "1d2h30m"
//
// Amounts without a unit are minutes. Hours and days are rounded to the
// nearest minute. Input with no recognizable quantity yields zero.
func Parse(expr string) time.Duration {
	expr = strings.TrimSpace(expr)

	if m := hoursMinutesRegex.FindStringSubmatch(expr); m != nil {
		hours, _ := strconv.ParseInt(m[1], 10, 64)
		minutes, _ := strconv.ParseInt(m[2], 10, 64)
		return minutesToDuration(hours*60 + minutes)
	}

	var total int64
	for _, m := range quantityRegex.FindAllStringSubmatch(expr, -1) {
		amount, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		unit := strings.ToLower(m[2])
		if unit == "" {
			unit = "m"
		}
		switch unit {
		case "m":
			total += int64(math.Round(amount))
		case "h":
			total += int64(math.Round(amount * 60))
		case "d":
			total += int64(math.Round(amount * 60 * 24))
		}
	}

	return minutesToDuration(total)
}

// ParseClock parses an H:M:S clock-style duration such as "01:30:00".
// Minutes and seconds must be below 60; hours are unbounded.
func ParseClock(expr string) (time.Duration, error) {
	trimmed := strings.TrimSpace(expr)
	m := clockRegex.FindStringSubmatch(trimmed)
	if m == nil {
		return 0, errors.Wrapf(ErrMalformedDuration, "%q is not in H:M:S form", expr)
	}

	hours, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformedDuration, "hours in %q", expr)
	}
	minutes, _ := strconv.ParseInt(m[2], 10, 64)
	seconds, _ := strconv.ParseInt(m[3], 10, 64)
	if minutes >= 60 || seconds >= 60 {
		return 0, errors.Wrapf(ErrMalformedDuration, "minutes and seconds in %q must be below 60", expr)
	}

	return time.Duration(hours*3600+minutes*60+seconds) * time.Second, nil
}

func minutesToDuration(minutes int64) time.Duration {
	return time.Duration(minutes) * time.Minute
}
