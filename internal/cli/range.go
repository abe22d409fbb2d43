package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/chronify/internal/duration"
	"github.com/aidanlsb/chronify/internal/ui"
)

type rangeView struct {
	Expression string       `json:"expression"`
	Start      instantView  `json:"start"`
	Finish     *instantView `json:"finish"`
	OpenEnded  bool         `json:"open_ended"`
	Duration   string       `json:"duration,omitempty"`
	Seconds    *int64       `json:"seconds,omitempty"`
}

var rangeCmd = &cobra.Command{
	Use:   "range <expression...>",
	Short: "Resolve a time range",
	Long: `Resolve an expression into a start and an optional finish.

The sides are split on " to ", " through ", " thru ", " until ", " til "
or " - ". The start resolves to the beginning of what it names and the
finish to its end. Without a connector the whole expression is both
sides, so "yesterday" covers all of yesterday. Bare clock times refer to
today. When the finish cannot be understood the range is open-ended.

Examples:
  chronify range yesterday
  chronify range mon 3pm to mon 5pm
  chronify range 1pm - 3pm
  chronify range 2h`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		expr := joinArgs(args)

		r, err := resolver.SplitRange(expr)
		if err != nil {
			return handleError(out, errorCode(err), err,
				"The start of a range must be a time chronify understands")
		}

		view := rangeView{
			Expression: expr,
			Start:      newTimeView(r.Start),
			OpenEnded:  !r.HasFinish(),
		}

		var warnings []Warning
		if r.HasFinish() {
			finish := newTimeView(*r.Finish)
			view.Finish = &finish

			if span := r.Finish.Sub(r.Start); span >= 0 {
				style, err := cfg.Style()
				if err != nil {
					return handleError(out, ErrConfigInvalid, err, "")
				}
				span = span.Round(time.Second)
				formatted, err := duration.Format(span, style)
				if err != nil {
					return handleError(out, errorCode(err), err, "")
				}
				seconds := int64(span / time.Second)
				view.Duration = formatted
				view.Seconds = &seconds
			}
		} else {
			warnings = append(warnings, Warning{
				Code:    WarnOpenRange,
				Message: "no finish could be resolved; the range runs until now",
			})
		}

		if isJSONOutput() {
			outputSuccessWithWarnings(out, view, warnings, nil)
			return nil
		}

		finish := ui.Hint("now")
		if r.HasFinish() {
			finish = styledTimestamp(*r.Finish)
		}
		line := fmt.Sprintf("%s %s %s", styledTimestamp(r.Start), ui.SymbolArrow, finish)
		if view.Duration != "" {
			line += " " + ui.Hint("("+view.Duration+")")
		}
		fmt.Fprintln(out, line)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rangeCmd)
}
