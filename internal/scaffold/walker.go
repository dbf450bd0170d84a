package scaffold

import (
	iofs "io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Entry is one file found under a walked template subtree.
type Entry struct {
	// Source is the file path on disk.
	Source string
	// Rel is the slash-separated path relative to the walked root.
	Rel string
	// Identifier is Rel without the marker suffix. Empty when Err is set.
	Identifier string
	// Mode holds the permission bits of the source file.
	Mode iofs.FileMode
	// Err is set when the entry cannot be resolved to an identifier.
	Err *UnresolvableEntryError
}

// Walker enumerates the files of a template subtree.
type Walker struct {
	Suffix string
	// Prefix is the slash-separated path of the walked root relative to the
	// template root. Ignore patterns are matched against Prefix/Rel, the
	// same paths LoadTemplateSet matches them against.
	Prefix string
	Ignore *IgnoreSet
	Logger *slog.Logger
}

// Walk enumerates all files under root with the default marker suffix.
func Walk(root string) ([]Entry, error) {
	return (&Walker{Suffix: DefaultSuffix}).Walk(root)
}

// Walk returns every file under root in lexical order. Directories are
// descended into but not returned. A failure to open root is a
// *BootstrapError; failures on nested entries are recorded on the entry.
func (w *Walker) Walk(root string) ([]Entry, error) {
	logger := w.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	suffix := w.Suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}

	var entries []Entry

	err := filepath.WalkDir(root, func(p string, d iofs.DirEntry, walkErr error) error {
		if p == root {
			if walkErr != nil {
				return walkErr
			}
			if !d.IsDir() {
				return &iofs.PathError{Op: "walk", Path: root, Err: iofs.ErrInvalid}
			}
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		slashRel := filepath.ToSlash(rel)

		if ignorePath := path.Join(w.Prefix, slashRel); w.Ignore.Match(ignorePath) {
			logger.Debug("ignoring entry", "path", ignorePath)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if walkErr != nil {
			entries = append(entries, Entry{
				Source: p,
				Rel:    slashRel,
				Err:    &UnresolvableEntryError{Path: slashRel, Reason: ReasonUnreadable, Err: walkErr},
			})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		entry := Entry{Source: p, Rel: slashRel, Mode: 0o644}
		if info, err := d.Info(); err == nil {
			entry.Mode = info.Mode().Perm()
		}

		entry.Identifier, entry.Err = resolve(rel, suffix)
		entries = append(entries, entry)

		return nil
	})
	if err != nil {
		return nil, &BootstrapError{Path: root, Err: err}
	}

	return entries, nil
}

// ResolveEntry turns a path relative to a walked root into a template
// identifier: OS separators are normalized to '/' and the marker suffix is
// stripped. Paths that are not valid UTF-8 or lack the suffix yield an
// *UnresolvableEntryError.
func ResolveEntry(rel, suffix string) (string, error) {
	id, err := resolve(rel, suffix)
	if err != nil {
		return "", err
	}
	return id, nil
}

func resolve(rel, suffix string) (string, *UnresolvableEntryError) {
	if !utf8.ValidString(rel) {
		return "", &UnresolvableEntryError{Path: strings.ToValidUTF8(rel, "�"), Reason: ReasonNonText}
	}

	normalized := filepath.ToSlash(rel)
	if !strings.HasSuffix(normalized, suffix) || len(normalized) == len(suffix) {
		return "", &UnresolvableEntryError{Path: normalized, Reason: ReasonMissingSuffix}
	}

	return strings.TrimSuffix(normalized, suffix), nil
}

// DestinationPath maps an identifier to its output path under destRoot.
func DestinationPath(destRoot, identifier string) string {
	return filepath.Join(destRoot, filepath.FromSlash(identifier))
}
