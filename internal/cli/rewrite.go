package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/aidanlsb/chronify/internal/atomicfile"
	"github.com/aidanlsb/chronify/internal/tags"
	"github.com/aidanlsb/chronify/internal/ui"
)

var (
	rewriteTags        string
	rewriteInPlace     bool
	rewriteIncludeCode bool

	rewriteStdinIsTerminal = func() bool { return isatty.IsTerminal(os.Stdin.Fd()) }
)

type tagChangeView struct {
	Tag       string `json:"tag"`
	Before    string `json:"before"`
	After     string `json:"after"`
	Rewritten bool   `json:"rewritten"`
}

type rewriteView struct {
	Path      string          `json:"path,omitempty"`
	Rewritten int             `json:"rewritten"`
	Changes   []tagChangeView `json:"changes"`
	Content   string          `json:"content,omitempty"`
}

var rewriteCmd = &cobra.Command{
	Use:   "rewrite [file]",
	Short: "Canonicalize date tags like @start(2 hours ago)",
	Long: `Rewrite watched @tag(value) annotations to @tag(YYYY-MM-DD HH:MM).

Watched tags are start, started, begin, began, done, finished, complete,
completed, waiting, defer and deferred, plus any names from --tags or the
date_tags config key. Values already in canonical form are kept, values
that cannot be understood are left as written, and tags inside markdown
code are skipped unless --include-code is given. done and complete tags
read ambiguous values as past times; everything else as future.

Reads the file, or stdin when no file is given, and writes the result to
stdout unless --in-place is set.

Examples:
  echo "@start(2 hours ago)" | chronify rewrite
  chronify rewrite notes.md --in-place
  chronify rewrite todo.txt --tags "due, remind(er)?"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		var path string
		if len(args) == 1 {
			path = args[0]
		}
		if rewriteInPlace && path == "" {
			return handleErrorMsg(out, ErrMissingArgument, "--in-place needs a file", "Usage: chronify rewrite <file> --in-place")
		}

		rw := tags.NewRewriter(resolver,
			tags.WithSkipCode(cfg.ShouldSkipCode() && !rewriteIncludeCode),
			tags.WithLogger(logger),
		)
		additional := append(cfg.Tags(), tags.SplitTagList(rewriteTags)...)

		var changes []tags.Change
		rewriteText := func(src []byte) ([]byte, error) {
			var result string
			result, changes = rw.RewriteWithChanges(string(src), additional...)
			return []byte(result), nil
		}

		if rewriteInPlace {
			if _, err := atomicfile.Update(path, rewriteText); err != nil {
				return handleError(out, ErrFileWriteError, err, "")
			}
			return outputRewriteReport(out, path, changes)
		}

		src, err := readRewriteInput(cmd.InOrStdin(), path)
		if err != nil {
			return handleError(out, ErrFileReadError, err, "Pass a file or pipe text on stdin")
		}
		result, _ := rewriteText(src)

		if isJSONOutput() {
			view := newRewriteView(path, changes)
			view.Content = string(result)
			outputSuccessWithWarnings(out, view, unresolvedWarnings(changes), &Meta{Count: len(changes)})
			return nil
		}

		_, err = out.Write(result)
		return err
	},
}

func readRewriteInput(stdin io.Reader, path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	if stdin == os.Stdin && rewriteStdinIsTerminal() {
		return nil, errors.New("no input: stdin is a terminal")
	}
	return io.ReadAll(stdin)
}

func newRewriteView(path string, changes []tags.Change) rewriteView {
	view := rewriteView{Path: path, Changes: make([]tagChangeView, 0, len(changes))}
	for _, c := range changes {
		if c.Rewritten {
			view.Rewritten++
		}
		view.Changes = append(view.Changes, tagChangeView{
			Tag:       c.Tag.Name,
			Before:    c.Tag.Text,
			After:     strings.TrimSuffix(strings.TrimPrefix(c.Replacement, "@"+c.Tag.Name+"("), ")"),
			Rewritten: c.Rewritten,
		})
	}
	return view
}

func unresolvedWarnings(changes []tags.Change) []Warning {
	var warnings []Warning
	for _, c := range changes {
		if !c.Resolved {
			warnings = append(warnings, Warning{
				Code:    WarnUnresolvedTag,
				Message: fmt.Sprintf("could not understand %s", c.Tag.Raw()),
			})
		}
	}
	return warnings
}

func outputRewriteReport(out io.Writer, path string, changes []tags.Change) error {
	view := newRewriteView(path, changes)

	if isJSONOutput() {
		outputSuccessWithWarnings(out, view, unresolvedWarnings(changes), &Meta{Count: len(changes)})
		return nil
	}

	if view.Rewritten == 0 {
		fmt.Fprintln(out, ui.Info(fmt.Sprintf("No date tags to rewrite in %s", ui.FilePath(path))))
	} else {
		fmt.Fprintln(out, ui.Successf("Rewrote %s in %s", pluralTags(view.Rewritten), ui.FilePath(path)))
	}

	table := ui.NewTable(2)
	for _, c := range view.Changes {
		if c.Rewritten {
			table.AddRow("  @"+c.Tag, ui.Rewrite(c.Before, c.After))
		}
	}
	fmt.Fprint(out, table.String())

	for _, w := range unresolvedWarnings(changes) {
		fmt.Fprintln(out, ui.Warning(w.Message))
	}
	return nil
}

func pluralTags(n int) string {
	if n == 1 {
		return "1 tag"
	}
	return fmt.Sprintf("%d tags", n)
}

func init() {
	rewriteCmd.Flags().StringVar(&rewriteTags, "tags", "", "Additional tag names, comma-separated")
	rewriteCmd.Flags().BoolVarP(&rewriteInPlace, "in-place", "i", false, "Rewrite the file instead of printing")
	rewriteCmd.Flags().BoolVar(&rewriteIncludeCode, "include-code", false, "Also rewrite tags inside markdown code")
	rootCmd.AddCommand(rewriteCmd)
}
