package commands

import (
	"embed"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	rfs "github.com/leapstack-labs/rustfull/internal/fs"
	"github.com/leapstack-labs/rustfull/internal/scaffold"
)

//go:embed all:starter
var starterFS embed.FS

const starterRoot = "starter"

// copyStarter copies the embedded starter templates into targetDir and
// returns the relative paths written. Existing files are kept unless force
// is set. Paths are mapped by starterPath.
func copyStarter(fsys rfs.FS, targetDir, suffix string, force bool) ([]string, error) {
	var written []string

	err := fs.WalkDir(starterFS, starterRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath := strings.TrimPrefix(strings.TrimPrefix(p, starterRoot), "/")
		if relPath == "" {
			return nil
		}

		relPath = starterPath(relPath, suffix)
		targetPath := filepath.Join(targetDir, filepath.FromSlash(relPath))

		if d.IsDir() {
			return fsys.MkdirAll(targetPath, 0o750)
		}

		// Skip existing files
		if !force {
			if _, err := fsys.Stat(targetPath); err == nil {
				return nil
			}
		}

		content, err := starterFS.ReadFile(p)
		if err != nil {
			return err
		}
		if err := rfs.WriteFileAtomic(fsys, targetPath, content, 0o644); err != nil {
			return err
		}
		written = append(written, relPath)
		return nil
	})

	return written, err
}

// starterPath maps an embedded path to its path on disk: special files are
// renamed and the marker suffix becomes suffix.
func starterPath(p, suffix string) string {
	p = renameSpecialFiles(p)
	if suffix != "" && suffix != scaffold.DefaultSuffix && strings.HasSuffix(p, scaffold.DefaultSuffix) {
		p = strings.TrimSuffix(p, scaffold.DefaultSuffix) + suffix
	}
	return p
}

// renameSpecialFiles handles files that need renaming (e.g., dotfiles).
func renameSpecialFiles(p string) string {
	dir, base := path.Split(p)

	switch {
	case base == "gitignore" || strings.HasPrefix(base, "gitignore."):
		return dir + "." + base
	default:
		return p
	}
}

// listStarterFiles returns the relative paths of the embedded starter
// templates as copyStarter writes them.
func listStarterFiles(suffix string) ([]string, error) {
	var files []string

	err := fs.WalkDir(starterFS, starterRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		files = append(files, starterPath(strings.TrimPrefix(p, starterRoot+"/"), suffix))
		return nil
	})

	return files, err
}
