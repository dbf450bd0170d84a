package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/leapstack-labs/rustfull/internal/cli/output"
)

// LogLevels lists the accepted log_level values.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.TemplatesDir == "" {
		return fmt.Errorf("templates_dir is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if c.TemplateSuffix == "" {
		return fmt.Errorf("template_suffix is required")
	}
	if !strings.HasPrefix(c.TemplateSuffix, ".") {
		return fmt.Errorf("template_suffix must start with '.', got %q", c.TemplateSuffix)
	}
	if _, err := output.ParseMode(c.OutputFormat); err != nil {
		return err
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	for _, p := range c.Ignore {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid ignore pattern %q", p)
		}
	}

	// Directory existence is checked by the commands that need it so that
	// help and completion work anywhere.
	return nil
}

// ValidateDirectories checks if the templates directory exists.
func (c *Config) ValidateDirectories() error {
	info, err := os.Stat(c.TemplatesDir)
	if os.IsNotExist(err) {
		return fmt.Errorf("templates directory does not exist: %s\nHint: Create the directory or use --templates-dir to specify a different path", c.TemplatesDir)
	}
	if err != nil {
		return fmt.Errorf("templates directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("templates path is not a directory: %s", c.TemplatesDir)
	}
	return nil
}

// ParseLogLevel maps a log_level value to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q (expected one of: %s)", s, strings.Join(LogLevels, ", "))
	}
}

// Level returns the effective log level; Verbose forces debug.
func (c *Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	lvl, _ := ParseLogLevel(c.LogLevel)
	return lvl
}
