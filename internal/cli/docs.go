package cli

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	builtindocs "github.com/aidanlsb/chronify/docs"
	"github.com/aidanlsb/chronify/internal/slugs"
	"github.com/aidanlsb/chronify/internal/ui"
)

const docsIndexPath = "index.yaml"

var (
	docsSearchLimit   int
	docsSearchSection string

	docsStdoutIsTerminal = func(w io.Writer) bool { return ui.NewDisplayContext(w).IsTTY }
	docsMarkdownRender = ui.RenderMarkdown
)

type docsSectionView struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	TopicCount int    `json:"topic_count"`
}

type docsTopicView struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

type docsSearchMatchView struct {
	Section string `json:"section"`
	Topic   string `json:"topic"`
	Line    int    `json:"line"`
	Snippet string `json:"snippet"`
}

type docsTopicRecord struct {
	Section string
	ID      string
	Title   string
	FSPath  string
}

// docsIndexFile mirrors index.yaml. List order is display order.
type docsIndexFile struct {
	Sections []docsIndexSection `yaml:"sections"`
}

type docsIndexSection struct {
	ID     string           `yaml:"id"`
	Title  string           `yaml:"title"`
	Topics []docsIndexTopic `yaml:"topics"`
}

type docsIndexTopic struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Path  string `yaml:"path"`
}

var docsCmd = &cobra.Command{
	Use:   "docs [section] [topic]",
	Short: "Read the bundled guides",
	Long: `Browse long-form documentation bundled into the chronify binary.

Examples:
  chronify docs
  chronify docs guide
  chronify docs guide expressions
  chronify docs guide/date-tags
  chronify docs search ago`,
	Args: cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		sections, topics, err := loadDocsFS(builtindocs.FS)
		if err != nil {
			return handleError(out, ErrInternal, err, "Rebuild chronify so bundled docs are available")
		}

		if len(args) == 0 {
			return outputDocsSections(out, sections)
		}
		if len(args) == 1 && strings.ContainsAny(args[0], "/\\") {
			// "guide/expressions" is the same as "guide expressions".
			args = strings.SplitN(slugs.Path(args[0]), "/", 2)
		}

		section, ok := findDocsSection(sections, args[0])
		if !ok {
			ids := docsSectionIDs(sections)
			return handleErrorWithDetails(out, ErrInvalidArgument,
				fmt.Sprintf("unknown docs section: %s", args[0]),
				fmt.Sprintf("Available sections: %s", strings.Join(ids, ", ")),
				map[string]interface{}{"sections": ids})
		}

		if len(args) == 1 {
			return outputDocsTopics(out, section, topics[section.ID])
		}

		topic, ok := findDocsTopic(topics[section.ID], args[1])
		if !ok {
			return handleErrorMsg(out, ErrInvalidArgument,
				fmt.Sprintf("unknown topic %q in section %q", args[1], section.ID),
				fmt.Sprintf("Run 'chronify docs %s' to list topics", section.ID))
		}
		return outputDocsTopicContent(out, topic)
	},
}

var docsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the bundled guides",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		query := joinArgs(args)
		if query == "" {
			return handleErrorMsg(out, ErrMissingArgument, "specify a search query", "Usage: chronify docs search <query>")
		}
		if docsSearchLimit < 1 {
			return handleErrorMsg(out, ErrInvalidArgument, "--limit must be >= 1", "")
		}

		matches, err := searchDocsFS(builtindocs.FS, query, docsSearchSection, docsSearchLimit)
		if err != nil {
			return handleError(out, ErrInvalidArgument, err, "Run 'chronify docs' to list sections")
		}

		if isJSONOutput() {
			outputSuccess(out, map[string]interface{}{
				"query":   query,
				"matches": matches,
			}, &Meta{Count: len(matches)})
			return nil
		}

		if len(matches) == 0 {
			fmt.Fprintf(out, "No docs matched %q.\n", query)
			return nil
		}
		table := ui.NewTable(2)
		for _, m := range matches {
			table.AddRow(ui.Hint(fmt.Sprintf("%s/%s:%d", m.Section, m.Topic, m.Line)), m.Snippet)
		}
		fmt.Fprint(out, table.String())
		return nil
	},
}

func outputDocsSections(out io.Writer, sections []docsSectionView) error {
	if isJSONOutput() {
		outputSuccess(out, map[string]interface{}{"sections": sections}, &Meta{Count: len(sections)})
		return nil
	}

	fmt.Fprintln(out, ui.Header("Documentation sections:"))
	table := ui.NewTable(2)
	for _, s := range sections {
		table.AddRow("  chronify docs "+s.ID, fmt.Sprintf("%s %s", s.Title, ui.Hint(ui.Count(s.TopicCount, "topic", "topics"))))
	}
	fmt.Fprint(out, table.String())
	return nil
}

func outputDocsTopics(out io.Writer, section docsSectionView, topics []docsTopicRecord) error {
	if isJSONOutput() {
		items := make([]docsTopicView, 0, len(topics))
		for _, t := range topics {
			items = append(items, docsTopicView{ID: t.ID, Title: t.Title, Path: path.Join("docs", t.FSPath)})
		}
		outputSuccess(out, map[string]interface{}{
			"section": section.ID,
			"title":   section.Title,
			"topics":  items,
		}, &Meta{Count: len(items)})
		return nil
	}

	fmt.Fprintln(out, ui.Header(fmt.Sprintf("%s topics:", section.Title)))
	table := ui.NewTable(2)
	for _, t := range topics {
		table.AddRow(fmt.Sprintf("  chronify docs %s %s", section.ID, t.ID), t.Title)
	}
	fmt.Fprint(out, table.String())
	return nil
}

func outputDocsTopicContent(out io.Writer, topic docsTopicRecord) error {
	content, err := fs.ReadFile(builtindocs.FS, topic.FSPath)
	if err != nil {
		return handleError(out, ErrFileReadError, err, "")
	}

	if isJSONOutput() {
		outputSuccess(out, map[string]interface{}{
			"section": topic.Section,
			"topic":   topic.ID,
			"title":   topic.Title,
			"content": string(content),
		}, nil)
		return nil
	}

	rendered := string(content)
	if docsStdoutIsTerminal(out) {
		display := ui.NewDisplayContext(out)
		if r, renderErr := docsMarkdownRender(rendered, display.AvailableWidth(ui.MarkdownRenderMargin)); renderErr == nil {
			rendered = r
		}
	}

	fmt.Fprint(out, rendered)
	if !strings.HasSuffix(rendered, "\n") {
		fmt.Fprintln(out)
	}
	return nil
}

// loadDocsFS reads index.yaml and validates every topic it declares.
func loadDocsFS(docsFS fs.FS) ([]docsSectionView, map[string][]docsTopicRecord, error) {
	raw, err := fs.ReadFile(docsFS, docsIndexPath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "read docs index")
	}

	var index docsIndexFile
	if err := yaml.Unmarshal(raw, &index); err != nil {
		return nil, nil, errors.Wrap(err, "parse docs index")
	}
	if len(index.Sections) == 0 {
		return nil, nil, errors.New("docs index has no sections")
	}

	sections := make([]docsSectionView, 0, len(index.Sections))
	topics := make(map[string][]docsTopicRecord, len(index.Sections))

	for _, s := range index.Sections {
		id := slugs.Component(s.ID)
		if id == "" || id != s.ID {
			return nil, nil, errors.Errorf("section id %q must be a slug", s.ID)
		}
		if _, dup := topics[id]; dup {
			return nil, nil, errors.Errorf("duplicate section %q", id)
		}
		if len(s.Topics) == 0 {
			return nil, nil, errors.Errorf("section %q has no topics", id)
		}

		records := make([]docsTopicRecord, 0, len(s.Topics))
		seen := make(map[string]bool)
		for _, t := range s.Topics {
			if slugs.Component(t.ID) != t.ID || t.ID == "" {
				return nil, nil, errors.Errorf("topic id %q in section %q must be a slug", t.ID, id)
			}
			if seen[t.ID] {
				return nil, nil, errors.Errorf("duplicate topic %q in section %q", t.ID, id)
			}
			seen[t.ID] = true

			fsPath, err := resolveDocsTopicPath(id, t.Path)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "topic %q in section %q", t.ID, id)
			}
			if _, err := fs.Stat(docsFS, fsPath); err != nil {
				return nil, nil, errors.Wrapf(err, "topic %q in section %q points to a missing file", t.ID, id)
			}

			title := strings.TrimSpace(t.Title)
			if title == "" {
				title = extractDocsTitleFS(docsFS, fsPath, t.ID)
			}
			records = append(records, docsTopicRecord{
				Section: id,
				ID:      t.ID,
				Title:   title,
				FSPath:  fsPath,
			})
		}

		title := strings.TrimSpace(s.Title)
		if title == "" {
			title = slugs.Title(id)
		}
		sections = append(sections, docsSectionView{
			ID:         id,
			Title:      title,
			TopicCount: len(records),
		})
		topics[id] = records
	}

	return sections, topics, nil
}

func resolveDocsTopicPath(section, rawPath string) (string, error) {
	rel := strings.ReplaceAll(strings.TrimSpace(rawPath), "\\", "/")
	if rel == "" {
		return "", errors.New(`missing required field "path"`)
	}
	clean := path.Clean(rel)
	if strings.HasPrefix(clean, "/") || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", errors.Errorf("topic path %q must be relative to the section directory", rel)
	}
	if path.Ext(clean) != ".md" {
		return "", errors.Errorf("topic path %q must end with .md", rel)
	}
	return path.Join(section, clean), nil
}

func extractDocsTitleFS(docsFS fs.FS, docsPath, fallbackSlug string) string {
	f, err := docsFS.Open(docsPath)
	if err != nil {
		return slugs.Title(fallbackSlug)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "# ") {
			if title := strings.TrimSpace(strings.TrimPrefix(line, "# ")); title != "" {
				return title
			}
		}
	}
	return slugs.Title(fallbackSlug)
}

func findDocsSection(sections []docsSectionView, raw string) (docsSectionView, bool) {
	needle := slugs.Component(raw)
	for _, s := range sections {
		if s.ID == needle {
			return s, true
		}
	}
	return docsSectionView{}, false
}

func findDocsTopic(topics []docsTopicRecord, raw string) (docsTopicRecord, bool) {
	needle := slugs.Component(raw)
	for _, t := range topics {
		if t.ID == needle {
			return t, true
		}
	}
	return docsTopicRecord{}, false
}

func docsSectionIDs(sections []docsSectionView) []string {
	ids := make([]string, len(sections))
	for i, s := range sections {
		ids[i] = s.ID
	}
	return ids
}

func searchDocsFS(docsFS fs.FS, query, sectionFilter string, limit int) ([]docsSearchMatchView, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("empty query")
	}

	sections, topics, err := loadDocsFS(docsFS)
	if err != nil {
		return nil, err
	}

	selected := sections
	if strings.TrimSpace(sectionFilter) != "" {
		section, ok := findDocsSection(sections, sectionFilter)
		if !ok {
			return nil, errors.Errorf("unknown section: %s", sectionFilter)
		}
		selected = []docsSectionView{section}
	}

	queryLower := strings.ToLower(query)
	matches := make([]docsSearchMatchView, 0, limit)
	for _, section := range selected {
		for _, topic := range topics[section.ID] {
			content, err := fs.ReadFile(docsFS, topic.FSPath)
			if err != nil {
				return nil, errors.Wrapf(err, "read %s", topic.FSPath)
			}

			for i, line := range strings.Split(string(content), "\n") {
				if !strings.Contains(strings.ToLower(line), queryLower) {
					continue
				}
				matches = append(matches, docsSearchMatchView{
					Section: section.ID,
					Topic:   topic.ID,
					Line:    i + 1,
					Snippet: shortenDocsSnippet(line, queryLower),
				})
				if len(matches) >= limit {
					return matches, nil
				}
			}
		}
	}
	return matches, nil
}

func shortenDocsSnippet(line, queryLower string) string {
	const maxLen = 100
	snippet := strings.TrimSpace(line)
	if len(snippet) <= maxLen {
		return snippet
	}

	start := strings.Index(strings.ToLower(snippet), queryLower) - 30
	if start < 0 {
		start = 0
	}
	end := start + maxLen
	if end > len(snippet) {
		end = len(snippet)
	}
	out := snippet[start:end]
	if start > 0 {
		out = "..." + out
	}
	if end < len(snippet) {
		out += "..."
	}
	return out
}

func init() {
	docsSearchCmd.Flags().IntVar(&docsSearchLimit, "limit", 20, "Maximum number of matches")
	docsSearchCmd.Flags().StringVar(&docsSearchSection, "section", "", "Only search this section")
	docsCmd.AddCommand(docsSearchCmd)
	rootCmd.AddCommand(docsCmd)
}
