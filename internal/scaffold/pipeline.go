package scaffold

import (
	"log/slog"
	"path/filepath"

	rfs "github.com/leapstack-labs/rustfull/internal/fs"
	starctx "github.com/leapstack-labs/rustfull/internal/starlark"
)

// Subtree pairs a template source directory with its output directory.
type Subtree struct {
	Name   string
	Source string
	Dest   string
}

// Pipeline renders walked entries and writes them to a destination tree.
type Pipeline struct {
	// Set resolves walker identifiers; it must be the view for the subtree.
	Set     *TemplateSet
	Context *starctx.ExecutionContext
	FS      rfs.FS
	Logger  *slog.Logger
}

// Run processes entries in order. Unresolvable entries and render failures
// are logged, recorded on report and skipped. The first write failure is
// returned as a *WriteError and stops the run.
func (p *Pipeline) Run(sub Subtree, entries []Entry, report *Report) error {
	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	fsys := p.FS
	if fsys == nil {
		fsys = rfs.NewRealFS()
	}

	for _, e := range entries {
		if e.Err != nil {
			logger.Warn("skipping entry", "subtree", sub.Name, "path", e.Err.Path, "reason", e.Err.Reason)
			report.record(Outcome{
				Subtree: sub.Name,
				Source:  e.Source,
				Kind:    OutcomeUnresolvable,
				Err:     e.Err,
			})
			continue
		}

		dest := DestinationPath(sub.Dest, e.Identifier)

		out, err := p.Set.Render(e.Identifier, p.Context)
		if err != nil {
			renderErr := &RenderError{Identifier: e.Identifier, Err: err}
			logger.Error("failed to render template", "subtree", sub.Name, "template", e.Identifier, "error", err)
			report.record(Outcome{
				Subtree:    sub.Name,
				Source:     e.Source,
				Identifier: e.Identifier,
				Kind:       OutcomeRenderFailed,
				Err:        renderErr,
			})
			continue
		}

		if err := fsys.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return &WriteError{Op: "mkdir", Path: filepath.Dir(dest), Err: err}
		}

		mode := e.Mode
		if mode == 0 {
			mode = 0o644
		}
		if err := rfs.WriteFileAtomic(fsys, dest, []byte(out), mode); err != nil {
			return &WriteError{Op: "write", Path: dest, Err: err}
		}

		logger.Debug("rendered template", "subtree", sub.Name, "template", e.Identifier, "dest", dest)
		report.record(Outcome{
			Subtree:     sub.Name,
			Source:      e.Source,
			Identifier:  e.Identifier,
			Destination: dest,
			Kind:        OutcomeRendered,
		})
	}

	return nil
}
