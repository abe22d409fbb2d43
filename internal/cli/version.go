package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/chronify/internal/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show chronify version and build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		info := buildinfo.Current()

		if isJSONOutput() {
			outputSuccess(out, info, nil)
			return nil
		}

		fmt.Fprintf(out, "chronify %s\n", info.Version)
		fmt.Fprintf(out, "module: %s\n", info.ModulePath)
		if info.Commit != "" {
			fmt.Fprintf(out, "commit: %s\n", info.Commit)
		}
		if info.CommitTime != "" {
			fmt.Fprintf(out, "commit_time: %s\n", info.CommitTime)
		}
		fmt.Fprintf(out, "go: %s\n", info.GoVersion)
		fmt.Fprintf(out, "platform: %s/%s\n", info.GOOS, info.GOARCH)
		fmt.Fprintf(out, "modified: %t\n", info.Modified)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
