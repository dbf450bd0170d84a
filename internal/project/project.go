// Package project defines the configuration record a scaffold run is driven
// by: the project name, the chosen frontend and backend stack and the
// optional tooling switches.
package project

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidName is returned for project names that cannot be used as a
// single directory component.
var ErrInvalidName = errors.New("invalid project name")

// Language is the frontend implementation language.
type Language string

// Supported frontend languages.
const (
	TypeScript Language = "TypeScript"
	JavaScript Language = "JavaScript"
	Rust       Language = "Rust"
)

// Languages lists the supported languages in prompt order.
func Languages() []Language {
	return []Language{TypeScript, JavaScript, Rust}
}

func (l Language) String() string { return string(l) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Language) UnmarshalText(text []byte) error {
	v, err := ParseLanguage(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Frontends returns the frameworks available for l.
func (l Language) Frontends() []Frontend {
	switch l {
	case Rust:
		return []Frontend{Dioxus, Yew, Seed, Percy}
	case TypeScript, JavaScript:
		return []Frontend{React, Vue, Svelte}
	default:
		return nil
	}
}

// Frontend is a frontend framework.
type Frontend string

// Supported frontend frameworks.
const (
	Dioxus Frontend = "Dioxus"
	Yew    Frontend = "Yew"
	Seed   Frontend = "Seed"
	Percy  Frontend = "Percy"
	React  Frontend = "React"
	Vue    Frontend = "Vue"
	Svelte Frontend = "Svelte"
)

func (f Frontend) String() string { return string(f) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Frontend) UnmarshalText(text []byte) error {
	v, err := ParseFrontend(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Backend is a backend framework.
type Backend string

// Supported backend frameworks.
const (
	ActixWeb Backend = "Actix Web"
	Rocket   Backend = "Rocket"
	Axum     Backend = "Axum"
	Warp     Backend = "Warp"
	Tide     Backend = "Tide"
	Salvage  Backend = "Salvage"
	Gotham   Backend = "Gotham"
)

// Backends lists the supported backend frameworks in prompt order.
func Backends() []Backend {
	return []Backend{ActixWeb, Rocket, Axum, Warp, Tide, Salvage, Gotham}
}

func (b Backend) String() string { return string(b) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Backend) UnmarshalText(text []byte) error {
	v, err := ParseBackend(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

func allFrontends() []Frontend {
	return append(Rust.Frontends(), TypeScript.Frontends()...)
}

// ParseLanguage matches s against the language display names, ignoring case
// and surrounding whitespace.
func ParseLanguage(s string) (Language, error) {
	return parseChoice(s, "language", Languages())
}

// ParseFrontend matches s against the frontend framework display names.
func ParseFrontend(s string) (Frontend, error) {
	return parseChoice(s, "frontend framework", allFrontends())
}

// ParseBackend matches s against the backend framework display names.
func ParseBackend(s string) (Backend, error) {
	return parseChoice(s, "backend framework", Backends())
}

func parseChoice[T ~string](s, what string, choices []T) (T, error) {
	s = strings.TrimSpace(s)
	for _, c := range choices {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}

	names := make([]string, len(choices))
	for i, c := range choices {
		names[i] = string(c)
	}
	var zero T
	return zero, fmt.Errorf("unknown %s %q (expected one of: %s)", what, s, strings.Join(names, ", "))
}

// ParseTools splits a comma-separated tool list. Entries are trimmed and
// empty entries dropped; order is preserved.
func ParseTools(csv string) []string {
	var tools []string
	for _, part := range strings.Split(csv, ",") {
		if t := strings.TrimSpace(part); t != "" {
			tools = append(tools, t)
		}
	}
	return tools
}

// Features are the optional tooling switches.
type Features struct {
	Linting     bool `koanf:"linting" yaml:"linting"`
	GitInit     bool `koanf:"git_init" yaml:"git_init"`
	EnvConfig   bool `koanf:"env_config" yaml:"env_config"`
	Docker      bool `koanf:"docker" yaml:"docker"`
	AutoInstall bool `koanf:"auto_install" yaml:"auto_install"`
}

// Config is a validated project configuration. Build it with New; the zero
// value is not valid.
type Config struct {
	Name     string
	Language Language
	Frontend Frontend
	Backend  Backend
	Tools    []string
	Features Features
}

// New validates the choices and returns the configuration.
func New(name string, lang Language, frontend Frontend, backend Backend, tools []string, features Features) (Config, error) {
	if err := ValidateName(name); err != nil {
		return Config{}, err
	}
	if !slices.Contains(Languages(), lang) {
		return Config{}, fmt.Errorf("unknown language %q", lang)
	}
	if !slices.Contains(lang.Frontends(), frontend) {
		return Config{}, fmt.Errorf("frontend framework %q is not available for %s", frontend, lang)
	}
	if !slices.Contains(Backends(), backend) {
		return Config{}, fmt.Errorf("unknown backend framework %q", backend)
	}

	return Config{
		Name:     name,
		Language: lang,
		Frontend: frontend,
		Backend:  backend,
		Tools:    slices.Clone(tools),
		Features: features,
	}, nil
}

// ValidateName checks that name can be used as a single directory name.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	return nil
}

// FrontendDirName is the name of the frontend output directory.
func (c Config) FrontendDirName() string { return c.Name + "_frontend" }

// BackendDirName is the name of the backend output directory.
func (c Config) BackendDirName() string { return c.Name + "_backend" }

// SummaryRow is one label/value line of the setup summary.
type SummaryRow struct {
	Label string
	Value string
}

// Summary returns the setup summary shown before confirmation.
func (c Config) Summary() []SummaryRow {
	tools := "None"
	if len(c.Tools) > 0 {
		tools = strings.Join(c.Tools, ", ")
	}

	return []SummaryRow{
		{"Project Name", c.Name},
		{"Frontend Language", c.Language.String()},
		{"Frontend Framework", c.Frontend.String()},
		{"Backend Framework", c.Backend.String()},
		{"Additional Tools", tools},
		{"Linting & Formatting", yesNo(c.Features.Linting)},
		{"Git Initialization", yesNo(c.Features.GitInit)},
		{"Environment Config", yesNo(c.Features.EnvConfig)},
		{"Docker Support", yesNo(c.Features.Docker)},
		{"Auto-install Dependencies", yesNo(c.Features.AutoInstall)},
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
