package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultPrompt            = "$ "
	DefaultProgressThreshold = 8 << 20
)

// ColorMode controls colored prompt and diagnostics
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode parses a string into a ColorMode
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorAuto, nil
	case "always", "on", "true":
		return ColorAlways, nil
	case "never", "off", "false":
		return ColorNever, nil
	default:
		return "", fmt.Errorf("unsupported color mode '%s': must be one of: auto, always, never", s)
	}
}

// Config holds the shell settings
type Config struct {
	Home              string
	Path              string
	ConfigFile        string
	Prompt            string
	Color             ColorMode
	ProgressThreshold int64
}

type fileConfig struct {
	Prompt            string `toml:"prompt"`
	Color             string `toml:"color"`
	ProgressThreshold *int64 `toml:"progress_threshold"`
}

// New creates a new Config with values from environment variables or defaults
func New() *Config {
	home := os.Getenv("HOME")
	return &Config{
		Home:              home,
		Path:              os.Getenv("PATH"),
		ConfigFile:        getenv("GOSH_CONFIG", defaultConfigFile(home)),
		Prompt:            DefaultPrompt,
		Color:             ColorAuto,
		ProgressThreshold: DefaultProgressThreshold,
	}
}

// Load overlays the TOML file at path. A missing file leaves the config
// untouched.
func (c *Config) Load(path string) error {
	if path == "" {
		return nil
	}

	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if fc.Prompt != "" {
		c.Prompt = fc.Prompt
	}
	if fc.Color != "" {
		mode, err := ParseColorMode(fc.Color)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		c.Color = mode
	}
	if fc.ProgressThreshold != nil {
		if *fc.ProgressThreshold < 0 {
			return fmt.Errorf("%s: progress_threshold must not be negative", path)
		}
		c.ProgressThreshold = *fc.ProgressThreshold
	}
	c.ConfigFile = path
	return nil
}

// PathDirs splits PATH into its directories
func (c *Config) PathDirs() []string {
	if c.Path == "" {
		return nil
	}
	return strings.Split(c.Path, string(os.PathListSeparator))
}

// UseColor resolves the color mode against whether output is a terminal
func (c *Config) UseColor(isTTY bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return isTTY
	}
}

func defaultConfigFile(home string) string {
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "gosh", "config.toml")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
