package scaffold

import (
	"path"
	"path/filepath"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	rfs "github.com/leapstack-labs/rustfull/internal/fs"
	"github.com/leapstack-labs/rustfull/internal/project"
)

// Template subtree names under the template root.
const (
	FrontendDir = "frontend"
	BackendDir  = "backend"
)

// Layout is the output directory tree of a project.
type Layout struct {
	Root     string // <base>/<name>
	Frontend string // <base>/<name>/<name>_frontend
	Backend  string // <base>/<name>/<name>_backend
}

// NewLayout computes the layout for name under base without touching disk.
func NewLayout(base, name string) Layout {
	root := filepath.Join(base, name)
	return Layout{
		Root:     root,
		Frontend: filepath.Join(root, name+"_frontend"),
		Backend:  filepath.Join(root, name+"_backend"),
	}
}

// PrepareLayout creates the output tree for name under base. Existing
// directories are kept.
func PrepareLayout(base, name string) (Layout, error) {
	return prepareLayout(rfs.NewRealFS(), base, name)
}

func prepareLayout(fsys rfs.FS, base, name string) (Layout, error) {
	layout := NewLayout(base, name)
	for _, dir := range []string{layout.Root, layout.Frontend, layout.Backend} {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return Layout{}, &WriteError{Op: "mkdir", Path: dir, Err: err}
		}
	}
	return layout, nil
}

// FrameworkDir is the directory name of a framework's templates: the
// display name lower-cased, e.g. "Actix Web" -> "actix web".
func FrameworkDir(displayName string) string {
	return cases.Lower(language.Und).String(displayName)
}

// TemplatePrefixes returns the set prefixes, relative to the template root,
// of the frontend and backend templates for cfg.
func TemplatePrefixes(cfg project.Config) (frontend, backend string) {
	return path.Join(FrontendDir, FrameworkDir(cfg.Frontend.String())),
		path.Join(BackendDir, FrameworkDir(cfg.Backend.String()))
}

// SourceDirs returns the template source directories for cfg under root.
func SourceDirs(root string, cfg project.Config) (frontend, backend string) {
	fe, be := TemplatePrefixes(cfg)
	return filepath.Join(root, filepath.FromSlash(fe)), filepath.Join(root, filepath.FromSlash(be))
}
