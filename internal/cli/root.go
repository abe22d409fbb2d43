package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/aidanlsb/chronify/internal/chronify"
	"github.com/aidanlsb/chronify/internal/config"
	"github.com/aidanlsb/chronify/internal/dates"
	"github.com/aidanlsb/chronify/internal/natural"
	"github.com/aidanlsb/chronify/internal/ui"
)

var (
	// Global flags
	configPath string
	debugLog   bool
	nowFlag    string

	// Resolved values
	resolvedConfigPath string
	cfg                *config.Config
	logger             *slog.Logger
	resolver           *chronify.Resolver
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "chronify",
	Short: "Interpret human time expressions",
	Long: `chronify turns the time phrases people type into exact timestamps.

  45                 45 minutes ago
  1d2h30m            that long ago
  yesterday 5:30     17:30 yesterday
  mon 3pm to 5pm     a time range

It also canonicalizes @start(...), @done(...) and similar date tags in
notes, and parses and formats durations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Config commands must work even when the file is broken.
		if cmd.Name() == "version" || cmd == configCmd || cmd.Parent() == configCmd {
			resolvedConfigPath = config.ResolvePath(configPath)
			return nil
		}
		return setup(cmd)
	},
}

// Execute runs the CLI.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(rootCmd.ErrOrStderr(), ui.Error(err.Error()))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for scripts)")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "Log interpretation details to stderr")
	rootCmd.PersistentFlags().StringVar(&nowFlag, "now", "", "Reference time instead of the wall clock (YYYY-MM-DD HH:MM)")

	// Flag errors happen before any RunE, so route them through handleError
	// to keep the JSON envelope on stdout.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return handleError(cmd.OutOrStdout(), ErrInvalidArgument, err, fmt.Sprintf("Run '%s --help' for usage", cmd.CommandPath()))
	})
}

// setup loads config and builds the logger and resolver shared by commands.
func setup(cmd *cobra.Command) error {
	var err error
	resolvedConfigPath = config.ResolvePath(configPath)
	cfg, err = config.LoadOrDefault(resolvedConfigPath)
	if err != nil {
		return handleError(cmd.OutOrStdout(), ErrConfigInvalid, err, "Run 'chronify config show' to inspect the config file")
	}
	ui.ConfigureTheme(cfg.UI.Accent)
	ui.ConfigureMarkdownCodeTheme(cfg.UI.CodeTheme)

	logger = newLogger(cmd.ErrOrStderr(), debugLog)

	location, err := cfg.Location()
	if err != nil {
		return handleError(cmd.OutOrStdout(), ErrConfigInvalid, err, "")
	}

	clock, err := referenceClock(nowFlag, location)
	if err != nil {
		return handleError(cmd.OutOrStdout(), ErrInvalidArgument, err, "Use --now \"YYYY-MM-DD HH:MM\"")
	}

	resolver = chronify.New(
		chronify.WithClock(clock),
		chronify.WithParser(natural.New(logger)),
		chronify.WithAmbiguousHours(cfg.AmbiguityWindow()),
		chronify.WithLogger(logger),
	)
	return nil
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// referenceClock returns a fixed clock for --now, otherwise the wall clock
// in loc.
func referenceClock(now string, loc *time.Location) (chronify.Clock, error) {
	if strings.TrimSpace(now) == "" {
		return chronify.ClockFunc(func() time.Time { return time.Now().In(loc) }), nil
	}
	t, err := dates.ParseReference(now, loc)
	if err != nil {
		return nil, errors.Wrap(err, "invalid --now value")
	}
	return chronify.FixedClock(t), nil
}

// joinArgs rebuilds an expression split across shell words.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
