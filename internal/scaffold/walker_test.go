package scaffold

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/rustfull/internal/testutil"
)

func TestResolveEntry(t *testing.T) {
	tests := []struct {
		name    string
		rel     string
		want    string
		wantErr string
	}{
		{name: "flat", rel: "index.html.tera", want: "index.html"},
		{name: "nested", rel: "src/components/App.tsx.tera", want: "src/components/App.tsx"},
		{name: "os separator", rel: filepath.Join("src", "main.rs.tera"), want: "src/main.rs"},
		{name: "dotfile", rel: ".gitignore.tera", want: ".gitignore"},
		{name: "double suffix", rel: "a.tera.tera", want: "a.tera"},
		{name: "no suffix", rel: "logo.svg", wantErr: ReasonMissingSuffix},
		{name: "suffix only", rel: ".tera", wantErr: ReasonMissingSuffix},
		{name: "suffix mid-name", rel: "a.tera.bak", wantErr: ReasonMissingSuffix},
		{name: "non-text", rel: "bad\xff.tera", wantErr: ReasonNonText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveEntry(tt.rel, ".tera")
			if tt.wantErr != "" {
				require.Error(t, err)
				var unresolvable *UnresolvableEntryError
				require.True(t, errors.As(err, &unresolvable), "expected *UnresolvableEntryError, got %T", err)
				assert.Equal(t, tt.wantErr, unresolvable.Reason)
				assert.False(t, IsFatal(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDestinationPath(t *testing.T) {
	dest := DestinationPath(filepath.Join("out", "demo_frontend"), "src/App.tsx")
	assert.Equal(t, filepath.Join("out", "demo_frontend", "src", "App.tsx"), dest)
}

func TestWalk(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		"index.html.tera":          "",
		"src/App.tsx.tera":         "",
		"src/components/a.ts.tera": "",
		"public/logo.svg":          "",
	})
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))

	entries, err := Walk(root)
	require.NoError(t, err)

	var rels []string
	for _, e := range entries {
		rels = append(rels, e.Rel)
	}
	assert.Equal(t, []string{"index.html.tera", "public/logo.svg", "src/App.tsx.tera", "src/components/a.ts.tera"}, rels)

	assert.Equal(t, "index.html", entries[0].Identifier)
	assert.Nil(t, entries[0].Err)
	assert.Equal(t, filepath.Join(root, "index.html.tera"), entries[0].Source)

	require.NotNil(t, entries[1].Err)
	assert.Equal(t, ReasonMissingSuffix, entries[1].Err.Reason)
	assert.Empty(t, entries[1].Identifier)

	assert.Equal(t, "src/components/a.ts", entries[3].Identifier)
}

func TestWalker_Ignore(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		"main.rs.tera":        "",
		".DS_Store":           "",
		"target/debug/x.tera": "",
		"src/.DS_Store":       "",
		"src/lib.rs.tera":     "",
	})

	ignore, err := NewIgnoreSet([]string{"**/.DS_Store", "target"})
	require.NoError(t, err)

	w := &Walker{Suffix: ".tera", Ignore: ignore, Logger: testutil.NewTestLogger(t)}
	entries, err := w.Walk(root)
	require.NoError(t, err)

	var ids []string
	for _, e := range entries {
		require.Nil(t, e.Err, e.Rel)
		ids = append(ids, e.Identifier)
	}
	assert.Equal(t, []string{"main.rs", "src/lib.rs"}, ids)
}

func TestResolveEntry_BackslashInName(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("backslash is a separator on windows")
	}

	got, err := ResolveEntry(`src\main.rs.tera`, ".tera")
	require.NoError(t, err)
	assert.Equal(t, `src\main.rs`, got)
}

func TestWalker_IgnoreRelativeToTemplateRoot(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		"README.md.tera":   "",
		"src/App.tsx.tera": "",
	})

	ignore, err := NewIgnoreSet([]string{"frontend/react/README.md.tera"})
	require.NoError(t, err)

	w := &Walker{Suffix: ".tera", Prefix: "frontend/react", Ignore: ignore, Logger: testutil.NewTestLogger(t)}
	entries, err := w.Walk(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "src/App.tsx", entries[0].Identifier)

	// Without the prefix the same pattern names a different file.
	entries, err = (&Walker{Suffix: ".tera", Ignore: ignore}).Walk(root)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestWalker_CustomSuffix(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{"a.txt.tmpl": "", "b.txt.tera": ""})

	entries, err := (&Walker{Suffix: ".tmpl"}).Walk(root)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a.txt", entries[0].Identifier)
	assert.NotNil(t, entries[1].Err)
}

func TestWalk_RootErrors(t *testing.T) {
	_, err := Walk(filepath.Join(t.TempDir(), "missing"))
	var bootstrapErr *BootstrapError
	require.True(t, errors.As(err, &bootstrapErr), "expected *BootstrapError, got %T", err)

	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{"file.tera": ""})
	_, err = Walk(filepath.Join(root, "file.tera"))
	require.True(t, errors.As(err, &bootstrapErr))
}

func TestWalk_UnreadableSubdir(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits not enforced")
	}

	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		"a.txt.tera":        "",
		"locked/b.txt.tera": "",
		"z.txt.tera":        "",
	})
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	entries, err := Walk(root)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "a.txt", entries[0].Identifier)
	require.NotNil(t, entries[1].Err)
	assert.Equal(t, ReasonUnreadable, entries[1].Err.Reason)
	assert.Equal(t, "z.txt", entries[2].Identifier)
}
