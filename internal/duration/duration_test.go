package duration

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Duration
	}{
		{"compound", "1d2h30m", 95400 * time.Second},
		{"minutes suffix", "45m", 2700 * time.Second},
		{"bare number is minutes", "45", 2700 * time.Second},
		{"colon form", "1:30", 90 * time.Minute},
		{"colon form long hours", "26:05", (26*60 + 5) * time.Minute},
		{"uppercase units", "2H15M", 135 * time.Minute},
		{"decimal hours", "1.5h", 90 * time.Minute},
		{"decimal hours rounds to minute", "0.01h", 1 * time.Minute},
		{"decimal days", "0.5d", 12 * time.Hour},
		{"decimal minutes round", "2.6m", 3 * time.Minute},
		{"spaced components", "1h 30m", 90 * time.Minute},
		{"surrounding whitespace", "  10m  ", 10 * time.Minute},
		{"no quantity", "soon", 0},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.input))
		})
	}
}

func TestParseClock(t *testing.T) {
	got, err := ParseClock("01:30:15")
	require.NoError(t, err)
	assert.Equal(t, time.Hour+30*time.Minute+15*time.Second, got)

	got, err = ParseClock(" 100:0:5 ")
	require.NoError(t, err)
	assert.Equal(t, 100*time.Hour+5*time.Second, got)

	for _, bad := range []string{"", "1:30", "1:30:00pm", "a:b:c", "1:75:00", "1:00:60"} {
		_, err := ParseClock(bad)
		require.Error(t, err, "input %q", bad)
		assert.True(t, errors.Is(err, ErrMalformedDuration), "input %q: %v", bad, err)
	}
}

func TestFormat(t *testing.T) {
	d := 95400 * time.Second

	tests := []struct {
		style Style
		want  string
	}{
		{StyleDHM, "1d2h30m"},
		{StyleHM, "26:30"},
		{StyleM, "1590"},
		{StyleClock, "26:30:00"},
		{StyleNatural, "1 day, 2 hours, 30 minutes"},
	}

	for _, tt := range tests {
		t.Run(string(tt.style), func(t *testing.T) {
			got, err := Format(d, tt.style)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatZeroAndSingulars(t *testing.T) {
	got, err := Format(0, StyleDHM)
	require.NoError(t, err)
	assert.Equal(t, "0m", got)

	got, err = Format(0, StyleNatural)
	require.NoError(t, err)
	assert.Equal(t, "0 minutes", got)

	got, err = Format(time.Hour+time.Minute+time.Second, StyleNatural)
	require.NoError(t, err)
	assert.Equal(t, "1 hour, 1 minute, 1 second", got)

	got, err = Format(45*time.Minute, StyleHM)
	require.NoError(t, err)
	assert.Equal(t, "00:45", got)
}

func TestFormatRoundTripsWithParse(t *testing.T) {
	for _, input := range []string{"1d2h30m", "3h", "59m", "2d"} {
		formatted, err := Format(Parse(input), StyleDHM)
		require.NoError(t, err)
		assert.Equal(t, input, formatted)
	}
}

func TestFormatRejectsInvalidArguments(t *testing.T) {
	_, err := Format(-time.Second, StyleDHM)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = Format(time.Second, Style("weeks"))
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestParseStyle(t *testing.T) {
	s, err := ParseStyle(" Clock ")
	require.NoError(t, err)
	assert.Equal(t, StyleClock, s)

	_, err = ParseStyle("fortnights")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}
