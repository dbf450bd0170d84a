package fs

import (
	"os"
	"path/filepath"
)

// TempPattern is the name pattern of in-flight temp files.
const TempPattern = ".rustfull-tmp-*"

// WriteFileAtomic writes data to path atomically using a temp file + rename.
// The temp file is created in the same directory as path so the rename stays
// on one filesystem. On failure the destination is left as it was.
// The caller must ensure the parent directory exists.
func WriteFileAtomic(fs FS, path string, data []byte, perm os.FileMode) error {
	tmpPath, w, err := fs.CreateTemp(filepath.Dir(path), TempPattern)
	if err != nil {
		return err
	}

	success := false
	defer func() {
		if !success {
			_ = fs.Remove(tmpPath)
		}
	}()

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return err
	}

	if err := w.Close(); err != nil {
		return err
	}

	if err := fs.Chmod(tmpPath, perm); err != nil {
		return err
	}

	if err := fs.Rename(tmpPath, path); err != nil {
		return err
	}

	success = true
	return nil
}
