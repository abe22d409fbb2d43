package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/chronify/internal/config"
	"github.com/aidanlsb/chronify/internal/ui"
)

type configContext struct {
	cfg          *config.Config
	configPath   string
	configExists bool
}

func loadConfigContextAllowMissing() (*configContext, error) {
	path := config.ResolvePath(configPath)
	_, statErr := os.Stat(path)
	if statErr != nil && !os.IsNotExist(statErr) {
		return nil, statErr
	}

	loaded, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}
	return &configContext{
		cfg:          loaded,
		configPath:   path,
		configExists: statErr == nil,
	}, nil
}

func configData(ctx *configContext) map[string]interface{} {
	skipCode := ctx.cfg.ShouldSkipCode()
	return map[string]interface{}{
		"config_path":     ctx.configPath,
		"exists":          ctx.configExists,
		"date_tags":       ctx.cfg.Tags(),
		"ambiguous_hours": ctx.cfg.AmbiguityWindow(),
		"duration_style":  strings.TrimSpace(ctx.cfg.DurationStyle),
		"timezone":        strings.TrimSpace(ctx.cfg.Timezone),
		"skip_code":       skipCode,
		"ui": map[string]interface{}{
			"accent":     strings.TrimSpace(ctx.cfg.UI.Accent),
			"code_theme": strings.TrimSpace(ctx.cfg.UI.CodeTheme),
		},
	}
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	ctx, err := loadConfigContextAllowMissing()
	if err != nil {
		return handleError(out, ErrConfigInvalid, err, "")
	}

	if isJSONOutput() {
		outputSuccess(out, configData(ctx), nil)
		return nil
	}

	if !ctx.configExists {
		fmt.Fprintf(out, "Config file does not exist: %s\n", ctx.configPath)
		fmt.Fprintln(out, "Run 'chronify config init' to create it.")
		return nil
	}

	fmt.Fprintf(out, "config: %s\n", ctx.configPath)

	table := ui.NewTable(2)
	if tagNames := ctx.cfg.Tags(); len(tagNames) > 0 {
		table.AddRow("date_tags:", strings.Join(tagNames, ", "))
	}
	table.AddRow("ambiguous_hours:", fmt.Sprintf("%d", ctx.cfg.AmbiguityWindow()))
	if v := strings.TrimSpace(ctx.cfg.DurationStyle); v != "" {
		table.AddRow("duration_style:", v)
	}
	if v := strings.TrimSpace(ctx.cfg.Timezone); v != "" {
		table.AddRow("timezone:", v)
	}
	table.AddRow("skip_code:", fmt.Sprintf("%t", ctx.cfg.ShouldSkipCode()))
	if v := strings.TrimSpace(ctx.cfg.UI.Accent); v != "" {
		table.AddRow("ui.accent:", v)
	}
	if v := strings.TrimSpace(ctx.cfg.UI.CodeTheme); v != "" {
		table.AddRow("ui.code_theme:", v)
	}
	fmt.Fprint(out, table.String())
	return nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage chronify config.toml settings",
	Long: `Manage chronify config.toml settings.

Use this to initialize, inspect, and edit the configuration file.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if isJSONOutput() {
			outputSuccess(out, map[string]interface{}{"config_path": resolvedConfigPath}, nil)
			return nil
		}
		fmt.Fprintln(out, resolvedConfigPath)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config.toml if missing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		created, err := config.CreateDefault(resolvedConfigPath)
		if err != nil {
			return handleError(out, ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(out, map[string]interface{}{
				"config_path": resolvedConfigPath,
				"created":     created,
			}, nil)
			return nil
		}

		if created {
			fmt.Fprintln(out, ui.Successf("Created config: %s", ui.FilePath(resolvedConfigPath)))
		} else {
			fmt.Fprintln(out, ui.Info(fmt.Sprintf("Config already exists: %s", ui.FilePath(resolvedConfigPath))))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Set or clear a config value",
	Long: `Set a config value. Omit the value to clear the key.

Keys: date_tags, ambiguous_hours, duration_style, timezone, skip_code,
ui.accent, ui.code_theme

Examples:
  chronify config set duration_style natural
  chronify config set date_tags "due, remind"
  chronify config set timezone`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		ctx, err := loadConfigContextAllowMissing()
		if err != nil {
			return handleError(out, ErrConfigInvalid, err, "Fix or remove the config file first")
		}

		var value string
		if len(args) == 2 {
			value = args[1]
		}
		if err := ctx.cfg.Set(args[0], value); err != nil {
			return handleError(out, ErrInvalidArgument, err, "Valid keys: "+strings.Join(config.Keys, ", "))
		}
		if err := config.SaveTo(ctx.configPath, ctx.cfg); err != nil {
			return handleError(out, ErrFileWriteError, err, "")
		}

		return outputConfigSet(out, ctx, args[0], value)
	},
}

func outputConfigSet(out io.Writer, ctx *configContext, key, value string) error {
	ctx.configExists = true
	if isJSONOutput() {
		data := configData(ctx)
		data["changed"] = key
		outputSuccess(out, data, nil)
		return nil
	}

	if strings.TrimSpace(value) == "" {
		fmt.Fprintln(out, ui.Successf("Cleared %s", key))
	} else {
		fmt.Fprintln(out, ui.Successf("Set %s = %s", key, strings.TrimSpace(value)))
	}
	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
