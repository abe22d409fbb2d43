package cli

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/aidanlsb/chronify/internal/chronify"
	"github.com/aidanlsb/chronify/internal/dates"
	"github.com/aidanlsb/chronify/internal/ui"
)

var (
	resolveFuture  bool
	resolveGuess   string
	resolveContext string
	resolveFormat  string
)

type instantView struct {
	Expression string `json:"expression,omitempty"`
	Grammar    string `json:"grammar,omitempty"`
	Time       string `json:"time"`
	Timestamp  string `json:"timestamp"`
	Unix       int64  `json:"unix"`
}

func newTimeView(t time.Time) instantView {
	return instantView{
		Time:      t.Format(time.RFC3339),
		Timestamp: dates.FormatTimestamp(t),
		Unix:      t.Unix(),
	}
}

func newInstantView(expr string, t time.Time) instantView {
	v := newTimeView(t)
	v.Expression = expr
	v.Grammar = chronify.Classify(expr).Grammar.String()
	return v
}

// formatInstant renders t in one of the --format choices.
func formatInstant(t time.Time, format string) (string, error) {
	switch format {
	case "", "timestamp":
		return dates.FormatTimestamp(t), nil
	case "rfc3339":
		return t.Format(time.RFC3339), nil
	case "unix":
		return fmt.Sprintf("%d", t.Unix()), nil
	default:
		return "", errors.Errorf("unknown format %q (valid: timestamp, rfc3339, unix)", format)
	}
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <expression...>",
	Short: "Resolve a time expression to an instant",
	Long: `Resolve a time expression to an exact instant.

Bare numbers are minutes ago, compact intervals like 1d2h30m are that
long ago, and anything else is read as natural language.

Examples:
  chronify resolve 45
  chronify resolve 1h30m ago
  chronify resolve yesterday 5:30
  chronify resolve friday --future
  chronify resolve last week --guess end
  chronify resolve 5pm --context tomorrow`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		expr := joinArgs(args)

		guess, err := chronify.ParseGuess(resolveGuess)
		if err != nil {
			return handleError(out, ErrInvalidArgument, err, "")
		}
		if _, err := formatInstant(time.Time{}, resolveFormat); err != nil {
			return handleError(out, ErrInvalidArgument, err, "")
		}

		t, ok, err := resolver.Resolve(expr, chronify.ResolveOptions{
			Future:  resolveFuture,
			Guess:   guess,
			Context: resolveContext,
		})
		if err != nil {
			return handleError(out, errorCode(err), err, "")
		}
		if !ok {
			return handleErrorMsg(out, ErrInvalidTimeExpression,
				fmt.Sprintf("could not understand %q", expr),
				"Try '45', '1d2h', 'yesterday 5pm' or run 'chronify docs guide expressions'")
		}

		if isJSONOutput() {
			outputSuccess(out, newInstantView(expr, t), nil)
			return nil
		}

		formatted, _ := formatInstant(t, resolveFormat)
		fmt.Fprintln(out, formatted)
		return nil
	},
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveFuture, "future", false, "Read ambiguous phrases as future times")
	resolveCmd.Flags().StringVar(&resolveGuess, "guess", "begin", "Resolve spans to their begin or end")
	resolveCmd.Flags().StringVar(&resolveContext, "context", "", "Prefix for bare clock times, e.g. tomorrow")
	resolveCmd.Flags().StringVar(&resolveFormat, "format", "timestamp", "Output format: timestamp, rfc3339, unix")
	rootCmd.AddCommand(resolveCmd)
}

// styledTimestamp renders a timestamp with the accent style for humans.
func styledTimestamp(t time.Time) string {
	return ui.Value(dates.FormatTimestamp(t))
}
