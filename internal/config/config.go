// Package config handles chronify configuration.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // IANA zone names resolve even without system zoneinfo

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/aidanlsb/chronify/internal/chronify"
	"github.com/aidanlsb/chronify/internal/duration"
	"github.com/aidanlsb/chronify/internal/tags"
)

// ErrInvalidConfig is returned for config values that cannot be used.
var ErrInvalidConfig = errors.New("invalid config")

// Config represents the chronify configuration file.
type Config struct {
	// DateTags are additional tag names the rewriter treats as holding a
	// date. Each entry may itself be a comma-separated list.
	DateTags []string `toml:"date_tags"`

	// AmbiguousHours is the window below which a bare clock hour is read
	// as afternoon. Zero means chronify.DefaultAmbiguousHours.
	AmbiguousHours int `toml:"ambiguous_hours"`

	// DurationStyle is the default output style for durations.
	DurationStyle string `toml:"duration_style"`

	// Timezone is an IANA zone name for the reference clock. Empty means local.
	Timezone string `toml:"timezone"`

	// SkipCode leaves tags inside markdown code untouched. Defaults to true.
	SkipCode *bool `toml:"skip_code"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown rendering.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`

	// CodeTheme sets the Glamour/Chroma theme used for rendered markdown code blocks.
	CodeTheme string `toml:"code_theme"`
}

// Tags returns the configured additional tag names, flattened.
func (c *Config) Tags() []string {
	return tags.SplitTagList(c.DateTags...)
}

// AmbiguityWindow returns the effective ambiguous-hours window.
func (c *Config) AmbiguityWindow() int {
	if c.AmbiguousHours <= 0 {
		return chronify.DefaultAmbiguousHours
	}
	return c.AmbiguousHours
}

// Style returns the default duration style.
func (c *Config) Style() (duration.Style, error) {
	if strings.TrimSpace(c.DurationStyle) == "" {
		return duration.StyleDHM, nil
	}
	style, err := duration.ParseStyle(c.DurationStyle)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidConfig, "duration_style: %v", err)
	}
	return style, nil
}

// Location returns the configured time zone, or time.Local.
func (c *Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Timezone)
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidConfig, "timezone %q: %v", name, err)
	}
	return loc, nil
}

// ShouldSkipCode reports whether rewrites protect markdown code.
func (c *Config) ShouldSkipCode() bool {
	return c.SkipCode == nil || *c.SkipCode
}

// Validate checks every value that has a restricted domain.
func (c *Config) Validate() error {
	if c.AmbiguousHours < 0 || c.AmbiguousHours > 12 {
		return errors.Wrapf(ErrInvalidConfig, "ambiguous_hours must be between 0 and 12, got %d", c.AmbiguousHours)
	}
	if _, err := c.Style(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	return LoadOrDefault(DefaultPath())
}

// LoadOrDefault loads path, or returns a default config if it doesn't exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, errors.Wrapf(ErrInvalidConfig, "failed to parse config %s: %v", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return &config, nil
}

// ResolvePath returns override when set, otherwise DefaultPath.
func ResolvePath(override string) string {
	if p := strings.TrimSpace(override); p != "" {
		return p
	}
	return DefaultPath()
}

// DefaultPath returns the default config file path.
// Checks ~/.config/chronify/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if xdgPath, err := XDGPath(); err == nil {
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "chronify", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}

// XDGPath returns the XDG-style config path (~/.config/chronify/config.toml).
func XDGPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "chronify", "config.toml"), nil
}

const defaultConfig = `# chronify configuration

# Extra tag names whose values "rewrite" canonicalizes, on top of
# start, begin, done, finished, complete, waiting and defer.
# Entries are regular-expression fragments and may be comma-separated.
# date_tags = ["due", "remind(er)?"]

# Bare clock hours below this are read as afternoon ("5:30" -> 17:30).
# ambiguous_hours = 8

# Default duration output: dhm, hm, m, clock or natural.
# duration_style = "dhm"

# IANA time zone for the reference clock (defaults to local time).
# timezone = "Europe/Berlin"

# Leave tags inside markdown code spans and code blocks untouched.
# skip_code = true

# Optional UI accent color. ANSI code (0-255) or hex (#RRGGBB).
# [ui]
# accent = "39"
# code_theme = "monokai"
`

// CreateDefault creates a commented default config file at path if it
// doesn't exist. It returns true when a file was written.
func CreateDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, errors.Wrap(err, "failed to create config directory")
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return false, errors.Wrap(err, "failed to write config file")
	}
	return true, nil
}
