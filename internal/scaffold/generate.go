// Package scaffold turns a project configuration and a template tree into a
// project directory on disk.
//
// A run walks the framework template directories, resolves every file to a
// template identifier, renders it against the run variables and writes the
// result to the mirrored path in the output tree. Per-file problems are
// logged and skipped; failures to load templates or to write output abort
// the run.
package scaffold

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	rfs "github.com/leapstack-labs/rustfull/internal/fs"
	"github.com/leapstack-labs/rustfull/internal/project"
	starctx "github.com/leapstack-labs/rustfull/internal/starlark"
	"go.starlark.net/starlark"
)

// Options configures a scaffold run.
type Options struct {
	TemplatesDir string         // template root the set was loaded from
	OutputDir    string         // base directory of the output tree
	Suffix       string         // marker suffix, DefaultSuffix when empty
	Ignore       []string       // doublestar patterns, relative to TemplatesDir
	Vars         map[string]any // extra template globals from the config file
	Logger       *slog.Logger
	FS           rfs.FS
}

// RenderVars returns the template variables for cfg.
func RenderVars(cfg project.Config) starctx.Vars {
	return starctx.Vars{
		ProjectName:       cfg.Name,
		FrontendLanguage:  cfg.Language.String(),
		FrontendFramework: cfg.Frontend.String(),
		BackendFramework:  cfg.Backend.String(),
		Tools:             cfg.Tools,
		Features: starctx.Features{
			Linting:     cfg.Features.Linting,
			GitInit:     cfg.Features.GitInit,
			EnvConfig:   cfg.Features.EnvConfig,
			Docker:      cfg.Features.Docker,
			AutoInstall: cfg.Features.AutoInstall,
		},
	}
}

// newExecutionContext builds the render context for cfg. Extra vars become
// additional globals and may not shadow a predeclared name.
func newExecutionContext(cfg project.Config, vars map[string]any) (*starctx.ExecutionContext, error) {
	var opts []starctx.ContextOption
	if len(vars) > 0 {
		globals := make(starlark.StringDict, len(vars))
		for name, v := range vars {
			sv, err := starctx.GoToStarlark(v)
			if err != nil {
				return nil, fmt.Errorf("var %q: %w", name, err)
			}
			globals[name] = sv
		}
		opts = append(opts, starctx.WithGlobals(globals))
	}
	return starctx.NewExecutionContext(RenderVars(cfg), opts...)
}

// Generate scaffolds cfg from set into opts.OutputDir. The frontend subtree
// is processed to completion before the backend subtree.
//
// A missing framework directory is reported before any output is created.
// The returned error is always fatal (see IsFatal); the report is returned
// alongside it with whatever was written so far.
func Generate(set *TemplateSet, cfg project.Config, opts Options) (*Report, error) {
	start := time.Now()

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	fsys := opts.FS
	if fsys == nil {
		fsys = rfs.NewRealFS()
	}
	suffix := opts.Suffix
	if suffix == "" {
		suffix = set.Suffix()
	}
	base := opts.OutputDir
	if base == "" {
		base = "."
	}

	report := &Report{RunID: uuid.NewString()}
	logger = logger.With("run_id", report.RunID)

	ignore, err := NewIgnoreSet(opts.Ignore)
	if err != nil {
		return report, &BootstrapError{Path: opts.TemplatesDir, Err: err}
	}

	frontendPrefix, backendPrefix := TemplatePrefixes(cfg)
	frontendSrc, backendSrc := SourceDirs(opts.TemplatesDir, cfg)

	for _, dir := range []string{frontendSrc, backendSrc} {
		info, err := fsys.Stat(dir)
		if err != nil {
			return report, &BootstrapError{Path: dir, Err: err}
		}
		if !info.IsDir() {
			return report, &BootstrapError{Path: dir, Err: errors.New("not a directory")}
		}
	}

	frontendWalker := &Walker{Suffix: suffix, Prefix: frontendPrefix, Ignore: ignore, Logger: logger}
	frontendEntries, err := frontendWalker.Walk(frontendSrc)
	if err != nil {
		return report, err
	}
	backendWalker := &Walker{Suffix: suffix, Prefix: backendPrefix, Ignore: ignore, Logger: logger}
	backendEntries, err := backendWalker.Walk(backendSrc)
	if err != nil {
		return report, err
	}

	ctx, err := newExecutionContext(cfg, opts.Vars)
	if err != nil {
		return report, &BootstrapError{Path: opts.TemplatesDir, Err: err}
	}

	layout, err := prepareLayout(fsys, base, cfg.Name)
	if err != nil {
		return report, err
	}
	report.Root = layout.Root

	logger.Info("scaffolding project",
		"name", cfg.Name,
		"frontend", cfg.Frontend,
		"backend", cfg.Backend,
		"root", layout.Root)

	steps := []struct {
		sub     Subtree
		prefix  string
		entries []Entry
	}{
		{Subtree{Name: FrontendDir, Source: frontendSrc, Dest: layout.Frontend}, frontendPrefix, frontendEntries},
		{Subtree{Name: BackendDir, Source: backendSrc, Dest: layout.Backend}, backendPrefix, backendEntries},
	}

	for _, step := range steps {
		p := &Pipeline{
			Set:     set.Sub(step.prefix),
			Context: ctx,
			FS:      fsys,
			Logger:  logger,
		}
		if err := p.Run(step.sub, step.entries, report); err != nil {
			report.Duration = time.Since(start)
			return report, err
		}
	}

	report.Duration = time.Since(start)

	logger.Info("scaffold completed",
		"rendered", len(report.Rendered),
		"skipped", len(report.Skipped),
		"duration_ms", report.Duration.Milliseconds())

	return report, nil
}
