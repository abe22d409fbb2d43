package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/aidanlsb/chronify/internal/atomicfile"
	"github.com/aidanlsb/chronify/internal/tags"
)

type persistedConfig struct {
	DateTags       []string             `toml:"date_tags,omitempty"`
	AmbiguousHours *int                 `toml:"ambiguous_hours,omitempty"`
	DurationStyle  *string              `toml:"duration_style,omitempty"`
	Timezone       *string              `toml:"timezone,omitempty"`
	SkipCode       *bool                `toml:"skip_code,omitempty"`
	UI             *persistedUISettings `toml:"ui,omitempty"`
}

type persistedUISettings struct {
	Accent    *string `toml:"accent,omitempty"`
	CodeTheme *string `toml:"code_theme,omitempty"`
}

func nonEmptyPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Keys lists the settable config keys.
var Keys = []string{
	"date_tags",
	"ambiguous_hours",
	"duration_style",
	"timezone",
	"skip_code",
	"ui.accent",
	"ui.code_theme",
}

// Set assigns a single key from its string form. An empty value clears it.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)

	switch strings.ToLower(strings.TrimSpace(key)) {
	case "date_tags":
		c.DateTags = tags.SplitTagList(value)
	case "ambiguous_hours":
		if value == "" {
			c.AmbiguousHours = 0
			break
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return errors.Wrapf(ErrInvalidConfig, "ambiguous_hours must be a number, got %q", value)
		}
		c.AmbiguousHours = n
	case "duration_style":
		c.DurationStyle = value
	case "timezone":
		c.Timezone = value
	case "skip_code":
		if value == "" {
			c.SkipCode = nil
			break
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Wrapf(ErrInvalidConfig, "skip_code must be true or false, got %q", value)
		}
		c.SkipCode = &b
	case "ui.accent":
		c.UI.Accent = value
	case "ui.code_theme":
		c.UI.CodeTheme = value
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown key %q (valid: %s)", key, strings.Join(Keys, ", "))
	}

	return c.Validate()
}

// SaveTo writes the config to a specific path atomically. Unset values are
// omitted so the file stays minimal.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("config path is required")
	}
	if cfg == nil {
		cfg = &Config{}
	}

	out := persistedConfig{
		DurationStyle: nonEmptyPtr(cfg.DurationStyle),
		Timezone:      nonEmptyPtr(cfg.Timezone),
		SkipCode:      cfg.SkipCode,
	}
	if len(cfg.DateTags) > 0 {
		out.DateTags = cfg.DateTags
	}
	if cfg.AmbiguousHours > 0 {
		hours := cfg.AmbiguousHours
		out.AmbiguousHours = &hours
	}

	accent := nonEmptyPtr(cfg.UI.Accent)
	codeTheme := nonEmptyPtr(cfg.UI.CodeTheme)
	if accent != nil || codeTheme != nil {
		out.UI = &persistedUISettings{
			Accent:    accent,
			CodeTheme: codeTheme,
		}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write config %s", path)
	}

	return nil
}
