package config

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/leapstack-labs/rustfull/internal/fs"
	"github.com/leapstack-labs/rustfull/internal/project"
	yamlv3 "gopkg.in/yaml.v3"
)

// Answers is the on-disk form of the wizard's answers. It lets a project be
// generated non-interactively with `rustfull new --answers answers.yaml`.
//
//	name: acme
//	language: Rust
//	frontend: Yew
//	backend: Axum
//	tools: clippy, rustfmt
//	features:
//	  linting: true
type Answers struct {
	Name     string           `koanf:"name" yaml:"name"`
	Language project.Language `koanf:"language" yaml:"language"`
	Frontend project.Frontend `koanf:"frontend" yaml:"frontend"`
	Backend  project.Backend  `koanf:"backend" yaml:"backend"`
	Tools    []string         `koanf:"tools" yaml:"tools,omitempty"`
	Features project.Features `koanf:"features" yaml:"features"`
}

// AnswersFrom converts a project configuration to its answers form.
func AnswersFrom(cfg project.Config) *Answers {
	return &Answers{
		Name:     cfg.Name,
		Language: cfg.Language,
		Frontend: cfg.Frontend,
		Backend:  cfg.Backend,
		Tools:    cfg.Tools,
		Features: cfg.Features,
	}
}

// Project validates the answers and returns the project configuration.
func (a *Answers) Project() (project.Config, error) {
	return project.New(a.Name, a.Language, a.Frontend, a.Backend, a.Tools, a.Features)
}

// LoadAnswers reads and validates an answers file. Choice names are matched
// case-insensitively and tools may be a list or a comma-separated string.
func LoadAnswers(path string) (project.Config, error) {
	ak := koanf.New(".")
	if err := ak.Load(file.Provider(path), yaml.Parser()); err != nil {
		return project.Config{}, fmt.Errorf("error reading answers file %s: %w", path, err)
	}

	var a Answers
	if err := ak.UnmarshalWithConf("", &a, koanf.UnmarshalConf{DecoderConfig: decoderConfig(&a)}); err != nil {
		return project.Config{}, fmt.Errorf("invalid answers file %s: %w", path, err)
	}

	cfg, err := a.Project()
	if err != nil {
		return project.Config{}, fmt.Errorf("invalid answers file %s: %w", path, err)
	}
	return cfg, nil
}

// SaveAnswers writes cfg to path as YAML, atomically.
func SaveAnswers(fsys fs.FS, path string, cfg project.Config) error {
	data, err := yamlv3.Marshal(AnswersFrom(cfg))
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}
	if err := fs.WriteFileAtomic(fsys, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write answers file %s: %w", path, err)
	}
	return nil
}
