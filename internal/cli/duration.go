package cli

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/aidanlsb/chronify/internal/duration"
)

var durationStyle string

// maxSeconds is the largest whole-second count a time.Duration can hold.
const maxSeconds = math.MaxInt64 / int64(time.Second)

type durationView struct {
	Input     string `json:"input"`
	Seconds   int64  `json:"seconds"`
	Style     string `json:"style"`
	Formatted string `json:"formatted"`
}

var durationCmd = &cobra.Command{
	Use:   "duration <expression...>",
	Short: "Parse a duration like 1h30m or 1.5h",
	Long: `Parse a loose duration and print it in a chosen style.

Quantities may carry an m, h or d unit; bare numbers are minutes.
Several quantities add up, and H:MM is hours and minutes. Input with no
quantity at all is zero.

Styles: dhm (1d2h30m), hm (26:30), m (1590), clock (26:30:00),
natural (1 day, 2 hours, 30 minutes).

Examples:
  chronify duration 90
  chronify duration 1.5h
  chronify duration 1d 2h 30m --style natural
  chronify duration 2:15 --style m`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		expr := joinArgs(args)
		return outputDuration(cmd.OutOrStdout(), expr, duration.Parse(expr))
	},
}

var clockCmd = &cobra.Command{
	Use:   "clock <H:M:S>",
	Short: "Parse an H:M:S clock duration",
	Long: `Parse a strict hours:minutes:seconds duration.

Hours are unbounded; minutes and seconds must be below 60. Prints the
total number of seconds unless --style is given.

Examples:
  chronify clock 1:30:00
  chronify clock 26:30:00 --style natural`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		d, err := duration.ParseClock(args[0])
		if err != nil {
			return handleError(out, errorCode(err), err, "Use hours:minutes:seconds, e.g. 1:30:00")
		}

		if !cmd.Flags().Changed("style") {
			if isJSONOutput() {
				outputSuccess(out, map[string]interface{}{
					"input":   args[0],
					"seconds": int64(d / time.Second),
				}, nil)
				return nil
			}
			fmt.Fprintln(out, int64(d/time.Second))
			return nil
		}
		return outputDuration(out, args[0], d)
	},
}

var formatCmd = &cobra.Command{
	Use:   "format <seconds>",
	Short: "Format a number of seconds as a duration",
	Long: `Format a whole number of seconds in a duration style.

Examples:
  chronify format 95400
  chronify format 95400 --style natural`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		seconds, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
		if err != nil {
			return handleError(out, ErrInvalidArgument,
				errors.Wrapf(duration.ErrInvalidArgument, "%q is not a whole number of seconds", args[0]), "")
		}
		if seconds > maxSeconds || seconds < -maxSeconds {
			return handleError(out, ErrInvalidArgument,
				errors.Wrapf(duration.ErrInvalidArgument, "%d seconds is out of range", seconds), "")
		}
		return outputDuration(out, args[0], time.Duration(seconds)*time.Second)
	},
}

func outputDuration(out io.Writer, input string, d time.Duration) error {
	style, err := selectedStyle()
	if err != nil {
		return handleError(out, errorCode(err), err, validStylesHint())
	}

	formatted, err := duration.Format(d, style)
	if err != nil {
		return handleError(out, errorCode(err), err, "")
	}

	if isJSONOutput() {
		outputSuccess(out, durationView{
			Input:     input,
			Seconds:   int64(d / time.Second),
			Style:     string(style),
			Formatted: formatted,
		}, nil)
		return nil
	}

	fmt.Fprintln(out, formatted)
	return nil
}

// selectedStyle returns --style, or the configured default.
func selectedStyle() (duration.Style, error) {
	if strings.TrimSpace(durationStyle) != "" {
		return duration.ParseStyle(durationStyle)
	}
	return cfg.Style()
}

func validStylesHint() string {
	names := make([]string, len(duration.Styles))
	for i, s := range duration.Styles {
		names[i] = string(s)
	}
	return "Valid styles: " + strings.Join(names, ", ")
}

func init() {
	for _, c := range []*cobra.Command{durationCmd, clockCmd, formatCmd} {
		c.Flags().StringVar(&durationStyle, "style", "", "Output style: dhm, hm, m, clock, natural (default from config)")
		rootCmd.AddCommand(c)
	}
}
