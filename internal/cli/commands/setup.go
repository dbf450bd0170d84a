package commands

import (
	"log/slog"

	"github.com/leapstack-labs/rustfull/internal/cli/config"
	"github.com/leapstack-labs/rustfull/internal/cli/output"
	"github.com/leapstack-labs/rustfull/internal/scaffold"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the config, logger and renderer the root
// command stored on cmd's context. A command executed on its own loads
// config from the file and environment layers.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	ctx := cmd.Context()

	cfg := config.GetConfig(ctx)
	if cfg == nil {
		var err error
		if cfg, err = config.LoadConfig("", nil); err != nil {
			return nil, err
		}
	}

	r := output.GetRenderer(ctx)
	if r == nil {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(ctx),
		Renderer: r,
	}, nil
}

// LoadTemplates bootstraps the template set from the configured directory.
func (c *CommandContext) LoadTemplates() (*scaffold.TemplateSet, error) {
	if err := c.Cfg.ValidateDirectories(); err != nil {
		return nil, &scaffold.BootstrapError{Path: c.Cfg.TemplatesDir, Err: err}
	}

	return scaffold.LoadTemplateSet(c.Cfg.TemplatesDir, c.Cfg.TemplateSuffix, c.Cfg.Ignore, c.Logger)
}
