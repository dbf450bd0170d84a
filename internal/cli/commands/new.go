package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/leapstack-labs/rustfull/internal/cli/config"
	"github.com/leapstack-labs/rustfull/internal/cli/output"
	rfs "github.com/leapstack-labs/rustfull/internal/fs"
	"github.com/leapstack-labs/rustfull/internal/project"
	"github.com/leapstack-labs/rustfull/internal/scaffold"
	"github.com/leapstack-labs/rustfull/internal/wizard"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// newOptions holds the flags of the new command.
type newOptions struct {
	name        string
	language    string
	frontend    string
	backend     string
	tools       string
	features    project.Features
	yes         bool
	answers     string
	saveAnswers string
}

// nonInteractiveFlags skip the wizard when any of them is set.
var nonInteractiveFlags = []string{"language", "frontend", "backend", "tools", "lint", "git", "env", "docker", "install"}

// NewNewCommand creates the new command.
func NewNewCommand() *cobra.Command {
	opts := &newOptions{}

	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Generate a new project",
		Long: `Generate a new full-stack project from the template directory.

Without flags an interactive setup asks for every choice. With --yes, an
answers file, or any stack or feature flag, no questions are asked and
unspecified choices take their defaults (TypeScript, React, Axum, no tools,
all features off).

The project is written to <output-dir>/<name>, with the frontend in
<name>_frontend and the backend in <name>_backend. Template files that fail
to render are reported and skipped; the rest of the project is still written.`,
		Example: `  # Interactive setup
  rustfull new

  # Non-interactive
  rustfull new acme --language rust --frontend yew --backend axum --git

  # Replay saved answers
  rustfull new --answers acme.yaml`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.name = args[0]
			}
			return runNew(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.language, "language", "", "Frontend language (TypeScript|JavaScript|Rust)")
	f.StringVar(&opts.frontend, "frontend", "", "Frontend framework")
	f.StringVar(&opts.backend, "backend", "", "Backend framework")
	f.StringVar(&opts.tools, "tools", "", "Comma-separated additional tools or libraries")
	f.BoolVar(&opts.features.Linting, "lint", false, "Enable linting and formatting")
	f.BoolVar(&opts.features.GitInit, "git", false, "Initialize a git repository")
	f.BoolVar(&opts.features.EnvConfig, "env", false, "Configure environment variables")
	f.BoolVar(&opts.features.Docker, "docker", false, "Include Docker support")
	f.BoolVar(&opts.features.AutoInstall, "install", false, "Run the package install command")
	f.BoolVarP(&opts.yes, "yes", "y", false, "Accept defaults without asking")
	f.StringVar(&opts.answers, "answers", "", "Read choices from a YAML answers file")
	f.StringVar(&opts.saveAnswers, "save-answers", "", "Write the chosen configuration to a YAML answers file")

	_ = cmd.RegisterFlagCompletionFunc("language", completeChoices(project.Languages()))
	_ = cmd.RegisterFlagCompletionFunc("frontend", completeChoices(project.Rust.Frontends(), project.TypeScript.Frontends()))
	_ = cmd.RegisterFlagCompletionFunc("backend", completeChoices(project.Backends()))
	_ = cmd.MarkFlagFilename("answers", "yaml", "yml")

	return cmd
}

func completeChoices[T ~string](lists ...[]T) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	var names []string
	for _, l := range lists {
		for _, c := range l {
			names = append(names, string(c))
		}
	}
	return func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}

func runNew(cmd *cobra.Command, opts *newOptions) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cc.Renderer

	// Templates are loaded before any question so a broken template
	// directory fails fast.
	set, err := cc.LoadTemplates()
	if err != nil {
		return err
	}
	if cc.Cfg.Level() <= slog.LevelDebug && r.EffectiveMode() != output.ModeJSON {
		renderRegistered(r, set)
	}

	cfg, err := collectProject(cmd, cc, opts)
	if errors.Is(err, wizard.ErrAborted) {
		r.Println("Exiting setup.")
		return nil
	}
	if err != nil {
		return err
	}

	if opts.saveAnswers != "" {
		if err := config.SaveAnswers(rfs.NewRealFS(), opts.saveAnswers, cfg); err != nil {
			return err
		}
		cc.Logger.Info("saved answers", "path", opts.saveAnswers)
	}

	report, err := scaffold.Generate(set, cfg, scaffold.Options{
		TemplatesDir: cc.Cfg.TemplatesDir,
		OutputDir:    cc.Cfg.OutputDir,
		Suffix:       cc.Cfg.TemplateSuffix,
		Ignore:       cc.Cfg.Ignore,
		Vars:         cc.Cfg.Vars,
		Logger:       cc.Logger,
	})
	if err != nil {
		return err
	}

	return renderReport(r, cfg, report)
}

// collectProject returns the project configuration from an answers file,
// from flags, or from the interactive wizard, in that order of preference.
func collectProject(cmd *cobra.Command, cc *CommandContext, opts *newOptions) (project.Config, error) {
	if opts.answers != "" {
		cfg, err := config.LoadAnswers(opts.answers)
		if err != nil {
			return project.Config{}, err
		}
		if opts.name != "" {
			if err := project.ValidateName(opts.name); err != nil {
				return project.Config{}, err
			}
			cfg.Name = opts.name
		}
		return cfg, nil
	}

	interactive := !opts.yes
	for _, name := range nonInteractiveFlags {
		if cmd.Flags().Changed(name) {
			interactive = false
		}
	}
	if !interactive {
		return projectFromFlags(opts)
	}

	in, closeIn, err := newLineReader(cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return project.Config{}, err
	}
	defer closeIn()

	w := &wizard.Wizard{In: in, Out: cc.Renderer, Name: opts.name}
	return w.Run()
}

// newLineReader uses readline on a terminal and a plain line scanner
// otherwise.
func newLineReader(in io.Reader, out io.Writer) (wizard.LineReader, func(), error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // G115: fd fits in int
		rl, err := wizard.NewReadline(f, out)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize prompt: %w", err)
		}
		return rl, func() { _ = rl.Close() }, nil
	}
	return wizard.NewLineScanner(in, out), func() {}, nil
}

func projectFromFlags(opts *newOptions) (project.Config, error) {
	if opts.name == "" {
		return project.Config{}, fmt.Errorf("%w: pass the project name as an argument", project.ErrInvalidName)
	}

	cfg, err := wizard.Defaults(opts.name)
	if err != nil {
		return project.Config{}, err
	}

	lang := cfg.Language
	if opts.language != "" {
		if lang, err = project.ParseLanguage(opts.language); err != nil {
			return project.Config{}, err
		}
	}

	frontend := cfg.Frontend
	switch {
	case opts.frontend != "":
		if frontend, err = project.ParseFrontend(opts.frontend); err != nil {
			return project.Config{}, err
		}
	case lang != cfg.Language:
		frontend = lang.Frontends()[0]
	}

	backend := cfg.Backend
	if opts.backend != "" {
		if backend, err = project.ParseBackend(opts.backend); err != nil {
			return project.Config{}, err
		}
	}

	return project.New(opts.name, lang, frontend, backend, project.ParseTools(opts.tools), opts.features)
}

// renderRegistered lists the identifiers of a freshly loaded set.
func renderRegistered(r *output.Renderer, set *scaffold.TemplateSet) {
	r.Header(2, "Registered templates")
	for _, name := range set.Names() {
		r.StatusLine(name, "", "")
	}
	r.Println()
}

func renderReport(r *output.Renderer, cfg project.Config, report *scaffold.Report) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(scaffoldOutput(cfg, report))
	}

	r.Header(1, "Project "+cfg.Name)
	for _, o := range report.Rendered {
		r.StatusLine(relTo(report.Root, o.Destination), "success", "")
	}
	for _, o := range report.Skipped {
		r.StatusLine(o.Source, "skipped", o.Err.Error())
	}
	r.Println()

	r.Success(fmt.Sprintf("Project created at %s (%s in %s)",
		report.Root, report.Summary(), report.Duration.Round(time.Millisecond)))
	if report.HasSkipped() {
		r.Warning(fmt.Sprintf("%d template files were skipped, see the errors above", len(report.Skipped)))
	}
	return nil
}

func scaffoldOutput(cfg project.Config, report *scaffold.Report) output.ScaffoldOutput {
	out := output.ScaffoldOutput{
		RunID:      report.RunID,
		Root:       report.Root,
		Rendered:   len(report.Rendered),
		Skipped:    len(report.Skipped),
		DurationMS: report.Duration.Milliseconds(),
		Files:      make([]output.FileOutcome, 0, len(report.Rendered)+len(report.Skipped)),
		Config: output.ProjectSettings{
			Name:     cfg.Name,
			Language: cfg.Language.String(),
			Frontend: cfg.Frontend.String(),
			Backend:  cfg.Backend.String(),
			Tools:    cfg.Tools,
		},
	}
	if out.Config.Tools == nil {
		out.Config.Tools = []string{}
	}

	for _, o := range report.Rendered {
		out.Files = append(out.Files, output.FileOutcome{
			Subtree:     o.Subtree,
			Source:      o.Source,
			Destination: o.Destination,
			Status:      string(o.Kind),
		})
	}
	for _, o := range report.Skipped {
		out.Files = append(out.Files, output.FileOutcome{
			Subtree: o.Subtree,
			Source:  o.Source,
			Status:  string(o.Kind),
			Error:   o.Err.Error(),
		})
	}
	return out
}

func relTo(root, p string) string {
	if rel, err := filepath.Rel(root, p); err == nil {
		return rel
	}
	return p
}
