// Package tags rewrites date-bearing @tag(value) annotations in free text.
package tags

import (
	"regexp"
	"strings"
)

// BaseTags are the tag-name patterns always treated as holding a date.
// Each entry is a regular-expression fragment.
var BaseTags = []string{
	`start(?:ed)?`,
	`beg[ia]n`,
	`done`,
	`finished`,
	`completed?`,
	`waiting`,
	`defer(?:red)?`,
}

var (
	tagListSeparator = regexp.MustCompile(`\s*,\s*`)
	namedGroup       = regexp.MustCompile(`\(\?P?<`)
)

// SplitTagList flattens values that may each hold a comma-separated list
// of tag names ("due, remind") into individual names.
func SplitTagList(values ...string) []string {
	var out []string
	for _, v := range values {
		for _, name := range tagListSeparator.Split(strings.TrimSpace(v), -1) {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

// NormalizeTagName turns a caller-supplied tag name into a watch-list
// fragment: the leading @ is dropped and capturing groups become
// non-capturing, so "@remind(er)?" becomes "remind(?:er)?".
func NormalizeTagName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "@")
	return strings.TrimSpace(nonCapturing(name))
}

func nonCapturing(pattern string) string {
	var b strings.Builder
	b.Grow(len(pattern))
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c == '\\' && i+1 < len(pattern) {
			b.WriteByte(c)
			b.WriteByte(pattern[i+1])
			i++
			continue
		}
		b.WriteByte(c)
		if c == '(' && (i+1 >= len(pattern) || pattern[i+1] != '?') {
			b.WriteString("?:")
		}
	}
	return b.String()
}

// WatchList returns BaseTags plus the normalized additional names, with
// duplicates removed. Names may be comma-separated lists. A name that is not
// a valid pattern, or that declares a named group, is matched literally.
func WatchList(additional ...string) []string {
	list := make([]string, 0, len(BaseTags)+len(additional))
	seen := make(map[string]bool)

	add := func(fragment string) {
		key := strings.ToLower(fragment)
		if fragment == "" || seen[key] {
			return
		}
		seen[key] = true
		list = append(list, fragment)
	}

	for _, t := range BaseTags {
		add(t)
	}
	for _, name := range SplitTagList(additional...) {
		fragment := NormalizeTagName(name)
		if _, err := regexp.Compile(`^(?:` + fragment + `)$`); err != nil || namedGroup.MatchString(fragment) {
			fragment = regexp.QuoteMeta(strings.TrimPrefix(strings.TrimSpace(name), "@"))
		}
		add(fragment)
	}
	return list
}

// compileWatchList builds the annotation matcher. The @ must start the text
// or follow whitespace, so addresses like me@done(x) are ignored.
func compileWatchList(list []string) *regexp.Regexp {
	alternatives := make([]string, len(list))
	for i, fragment := range list {
		alternatives[i] = "(?:" + fragment + ")"
	}
	return regexp.MustCompile(`(?i)(?:^|\s)@(?P<tag>` + strings.Join(alternatives, "|") + `)\((?P<date>[^)\n]*)\)`)
}
