package commands

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/leapstack-labs/rustfull/internal/cli/output"
	rfs "github.com/leapstack-labs/rustfull/internal/fs"
	"github.com/leapstack-labs/rustfull/internal/scaffold"
	"github.com/spf13/cobra"
)

// NewTemplatesCommand creates the templates command.
func NewTemplatesCommand() *cobra.Command {
	var (
		watch    bool
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the templates in the template directory",
		Long: `Load the template directory and list every template identifier.

Loading parses every template, so this also checks templates for syntax
errors. With --watch the directory is reloaded whenever a file changes.`,
		Example: `  # List templates
  rustfull templates

  # As JSON
  rustfull templates -o json

  # Reload on every change
  rustfull templates --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if watch {
				return runTemplatesWatch(cmd, debounce)
			}
			return runTemplatesList(cmd)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload and re-list templates when files change")
	cmd.Flags().DurationVar(&debounce, "debounce", scaffold.DefaultDebounce, "Quiet period before reloading in watch mode")

	cmd.AddCommand(newTemplatesInitCommand())

	return cmd
}

func runTemplatesList(cmd *cobra.Command) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	set, err := cc.LoadTemplates()
	if err != nil {
		return err
	}
	return renderTemplateList(cc.Renderer, cc.Cfg.TemplatesDir, set)
}

func runTemplatesWatch(cmd *cobra.Command, debounce time.Duration) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cc.Renderer

	set, err := cc.LoadTemplates()
	if err != nil {
		return err
	}
	if err := renderTemplateList(r, cc.Cfg.TemplatesDir, set); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.Muted("Watching for changes. Press Ctrl+C to stop.")

	return scaffold.WatchTemplates(ctx, scaffold.WatchOptions{
		Root:     cc.Cfg.TemplatesDir,
		Suffix:   cc.Cfg.TemplateSuffix,
		Ignore:   cc.Cfg.Ignore,
		Debounce: debounce,
		Logger:   cc.Logger,
	}, func(set *scaffold.TemplateSet, err error) {
		if err != nil {
			r.Error(err.Error())
			return
		}
		if err := renderTemplateList(r, cc.Cfg.TemplatesDir, set); err != nil {
			r.Error(err.Error())
		}
	})
}

func renderTemplateList(r *output.Renderer, root string, set *scaffold.TemplateSet) error {
	names := set.Names()

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(output.TemplateListOutput{
			Root:      root,
			Suffix:    set.Suffix(),
			Templates: names,
		})
	}

	r.Header(1, "Templates")
	if len(names) == 0 {
		r.Muted(fmt.Sprintf("No templates found in %s", root))
		return nil
	}

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, splitIdentifier(name))
	}
	r.Table([]string{"Subtree", "Framework", "Path"}, rows)
	r.Println()
	r.Muted(fmt.Sprintf("%d templates in %s", len(names), root))

	return nil
}

// splitIdentifier splits "frontend/react/src/main.js" into its subtree,
// framework and remaining path.
func splitIdentifier(id string) []string {
	parts := strings.SplitN(id, "/", 3)
	for len(parts) < 3 {
		parts = append([]string{""}, parts...)
	}
	return parts
}

func newTemplatesInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write the built-in starter templates",
		Long: `Write the built-in starter templates to dir (default: the configured
templates directory). There is one template directory for every supported
frontend and backend framework. Existing files are kept unless --force is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
			r := cc.Renderer

			dir := cc.Cfg.TemplatesDir
			if len(args) == 1 {
				dir = args[0]
			}

			suffix := cc.Cfg.TemplateSuffix
			written, err := copyStarter(rfs.NewRealFS(), dir, suffix, force)
			if err != nil {
				return fmt.Errorf("failed to write starter templates: %w", err)
			}

			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(output.TemplateListOutput{Root: dir, Suffix: suffix, Templates: written})
			}

			all, err := listStarterFiles(suffix)
			if err != nil {
				return err
			}
			if skipped := len(all) - len(written); skipped > 0 {
				r.Warning(fmt.Sprintf("%d existing files kept (use --force to overwrite)", skipped))
			}
			r.Success(fmt.Sprintf("Wrote %d starter templates to %s", len(written), dir))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")

	return cmd
}
