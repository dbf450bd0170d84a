package scaffold

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"

	starctx "github.com/leapstack-labs/rustfull/internal/starlark"
	"github.com/leapstack-labs/rustfull/internal/template"
)

// DefaultSuffix marks files under the template root as renderable templates.
const DefaultSuffix = ".tera"

// TemplateSet is an immutable collection of parsed templates keyed by
// identifier: the slash-separated path relative to the template root with
// the marker suffix stripped.
//
// A set is never modified after it is loaded; reloading means building a
// new set.
type TemplateSet struct {
	suffix    string
	prefix    string
	templates map[string]*template.Template
}

// LoadTemplateSet parses every file carrying suffix under root. Files
// without the suffix are static assets and are not registered. Any
// unreadable path or parse error fails the whole load with a
// *BootstrapError; no partial set is returned.
func LoadTemplateSet(root, suffix string, ignore []string, logger *slog.Logger) (*TemplateSet, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if suffix == "" {
		suffix = DefaultSuffix
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, &BootstrapError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &BootstrapError{Path: root, Err: errors.New("not a directory")}
	}

	ignored, err := NewIgnoreSet(ignore)
	if err != nil {
		return nil, &BootstrapError{Path: root, Err: err}
	}

	fsys := os.DirFS(root)
	paths, err := doublestar.Glob(fsys, "**/*", doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, &BootstrapError{Path: root, Err: err}
	}
	slices.Sort(paths)

	set := &TemplateSet{suffix: suffix, templates: make(map[string]*template.Template)}

	for _, p := range paths {
		if ignored.Match(p) {
			logger.Debug("ignoring template path", "path", p)
			continue
		}
		if !utf8.ValidString(p) || !strings.HasSuffix(p, suffix) || len(p) == len(suffix) {
			continue
		}

		content, err := iofs.ReadFile(fsys, p)
		if err != nil {
			return nil, &BootstrapError{Path: path.Join(root, p), Err: err}
		}

		tmpl, err := template.ParseString(string(content), p)
		if err != nil {
			return nil, &BootstrapError{Path: path.Join(root, p), Err: err}
		}

		id := strings.TrimSuffix(p, suffix)
		set.templates[id] = tmpl
		logger.Debug("registered template", "identifier", id)
	}

	logger.Info("template set loaded", "root", root, "templates", len(set.templates))

	return set, nil
}

// NewTemplateSet builds a set from in-memory sources keyed by identifier.
func NewTemplateSet(sources map[string]string, suffix string) (*TemplateSet, error) {
	if suffix == "" {
		suffix = DefaultSuffix
	}

	set := &TemplateSet{suffix: suffix, templates: make(map[string]*template.Template, len(sources))}
	for id, src := range sources {
		tmpl, err := template.ParseString(src, id+suffix)
		if err != nil {
			return nil, &BootstrapError{Path: id + suffix, Err: err}
		}
		set.templates[id] = tmpl
	}

	return set, nil
}

// Suffix returns the marker suffix the set was loaded with.
func (s *TemplateSet) Suffix() string { return s.suffix }

// Sub returns a read-only view of the templates under prefix, which may use
// OS separators. Identifiers in the view are relative to prefix.
func (s *TemplateSet) Sub(prefix string) *TemplateSet {
	prefix = strings.Trim(filepath.ToSlash(prefix), "/")
	if prefix == "" {
		return s
	}
	return &TemplateSet{
		suffix:    s.suffix,
		prefix:    path.Join(s.prefix, prefix),
		templates: s.templates,
	}
}

func (s *TemplateSet) key(id string) string {
	if s.prefix == "" {
		return id
	}
	return s.prefix + "/" + id
}

// Lookup returns the template registered under id.
func (s *TemplateSet) Lookup(id string) (*template.Template, bool) {
	tmpl, ok := s.templates[s.key(id)]
	return tmpl, ok
}

// Names returns the sorted identifiers visible in the set.
func (s *TemplateSet) Names() []string {
	var names []string
	for id := range s.templates {
		if s.prefix == "" {
			names = append(names, id)
			continue
		}
		if rest, ok := strings.CutPrefix(id, s.prefix+"/"); ok {
			names = append(names, rest)
		}
	}
	slices.Sort(names)
	return names
}

// Len returns the number of templates visible in the set.
func (s *TemplateSet) Len() int {
	return len(s.Names())
}

// Render renders the template registered under id.
func (s *TemplateSet) Render(id string, ctx *starctx.ExecutionContext) (string, error) {
	tmpl, ok := s.Lookup(id)
	if !ok {
		return "", fmt.Errorf("template %q not found", id)
	}
	return template.Render(tmpl, ctx)
}
