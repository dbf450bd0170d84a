// Package config provides configuration management for the rustfull CLI.
//
// Settings are layered: built-in defaults, then rustfull.yaml, then
// RUSTFULL_* environment variables, then explicitly set command-line flags.
package config

// Config holds all CLI configuration options.
type Config struct {
	TemplatesDir   string   `koanf:"templates_dir"`
	OutputDir      string   `koanf:"output_dir"`
	TemplateSuffix string   `koanf:"template_suffix"`
	Ignore         []string `koanf:"ignore"`
	Verbose        bool     `koanf:"verbose"`
	LogLevel       string   `koanf:"log_level"`
	OutputFormat   string   `koanf:"output"`

	// Vars are extra template globals, only settable from the config file.
	Vars map[string]any `koanf:"vars"`

	// ConfigFile is the config file that was loaded, if any.
	ConfigFile string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultTemplatesDir   = "templates"
	DefaultOutputDir      = "."
	DefaultTemplateSuffix = ".tera"
	DefaultLogLevel       = "info"
	DefaultOutput         = "auto" // Auto-detect: TTY=text, non-TTY=markdown

	// EnvPrefix prefixes environment variable overrides.
	EnvPrefix = "RUSTFULL_"
)

// ConfigFileNames are searched, in order, when no config file is given.
var ConfigFileNames = []string{"rustfull.yaml", "rustfull.yml"}

// Defaults returns the default configuration as a koanf key map.
func Defaults() map[string]any {
	return map[string]any{
		"templates_dir":   DefaultTemplatesDir,
		"output_dir":      DefaultOutputDir,
		"template_suffix": DefaultTemplateSuffix,
		"ignore":          []string{},
		"verbose":         false,
		"log_level":       DefaultLogLevel,
		"output":          DefaultOutput,
	}
}
