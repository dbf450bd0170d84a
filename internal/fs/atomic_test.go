package fs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic_Basic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Cargo.toml")
	fs := NewRealFS()

	data := []byte("[package]\nname = \"acme\"\n")
	require.NoError(t, WriteFileAtomic(fs, path, data, 0o644))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(got))

	assertNoTempFiles(t, dir)
}

func TestWriteFileAtomic_Overwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.rs")
	fs := NewRealFS()

	require.NoError(t, WriteFileAtomic(fs, path, []byte("old content that is longer"), 0o644))
	require.NoError(t, WriteFileAtomic(fs, path, []byte("new"), 0o644))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))

	assertNoTempFiles(t, dir)
}

func TestWriteFileAtomic_Permissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.sh")
	fs := NewRealFS()

	require.NoError(t, WriteFileAtomic(fs, path, []byte("#!/bin/sh\n"), 0o755))

	info, err := fs.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestWriteFileAtomic_RenameFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")

	realFS := NewRealFS()
	stub := &failingRenameFS{FS: realFS}

	err := WriteFileAtomic(stub, path, []byte("<html></html>"), 0o644)
	require.Error(t, err)

	_, statErr := realFS.Stat(path)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "destination must not exist after a failed write")

	assertNoTempFiles(t, dir)
}

func TestWriteFileAtomic_MissingParent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing", "file.txt")

	err := WriteFileAtomic(NewRealFS(), path, []byte("x"), 0o644)
	assert.Error(t, err)
}

// failingRenameFS wraps an FS and fails on Rename operations.
type failingRenameFS struct {
	FS
}

func (f *failingRenameFS) Rename(_, _ string) error {
	return errors.New("simulated rename failure")
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	prefix := strings.TrimSuffix(TempPattern, "*")
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), prefix), "temp file left behind: %s", e.Name())
	}
}
