package scaffold

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rfs "github.com/leapstack-labs/rustfull/internal/fs"
	"github.com/leapstack-labs/rustfull/internal/project"
	"github.com/leapstack-labs/rustfull/internal/testutil"
)

func demoConfig(t *testing.T) project.Config {
	t.Helper()
	cfg, err := project.New("demo", project.TypeScript, project.React, project.Axum, nil, project.Features{})
	require.NoError(t, err)
	return cfg
}

func loadFixture(t *testing.T, files map[string]string) (string, *TemplateSet) {
	t.Helper()
	root := t.TempDir()
	testutil.WriteFiles(t, root, files)
	set, err := LoadTemplateSet(root, ".tera", nil, testutil.NewTestLogger(t))
	require.NoError(t, err)
	return root, set
}

func TestGenerate_ScenarioA(t *testing.T) {
	root, set := loadFixture(t, map[string]string{
		"frontend/react/index.html.tera": "<h1>{{ project_name }}</h1><p>{{ frontend_framework }} + {{ backend_framework }}</p>",
		"backend/axum/main.rs.tera":      "// {{ project_name }} {{ frontend_framework }} {{ backend_framework }}",
		"backend/rocket/main.rs.tera":    "rocket",
	})
	out := t.TempDir()

	report, err := Generate(set, demoConfig(t), Options{
		TemplatesDir: root,
		OutputDir:    out,
		Logger:       testutil.NewTestLogger(t),
	})
	require.NoError(t, err)

	assert.Equal(t, "<h1>demo</h1><p>React + Axum</p>", testutil.ReadFile(t, out, "demo/demo_frontend/index.html"))
	assert.Equal(t, "// demo React Axum", testutil.ReadFile(t, out, "demo/demo_backend/main.rs"))

	assert.Equal(t, filepath.Join(out, "demo"), report.Root)
	assert.Len(t, report.Rendered, 2)
	assert.Empty(t, report.Skipped)
	assert.Equal(t, "2 rendered, 0 skipped", report.Summary())
	assert.False(t, report.HasSkipped())

	_, err = uuid.Parse(report.RunID)
	assert.NoError(t, err, "run id should be a uuid")

	assert.Equal(t, "frontend", report.Rendered[0].Subtree, "frontend is processed before backend")
	assert.Equal(t, "backend", report.Rendered[1].Subtree)
}

func TestGenerate_ScenarioB(t *testing.T) {
	root, set := loadFixture(t, map[string]string{
		"frontend/react/App.tsx.tera":    "export const name = '{{ project_name }}';",
		"frontend/react/broken.tsx.tera": "{{ undefined_component }}",
		"frontend/react/main.tsx.tera":   "// {{ frontend_framework }}",
		"backend/axum/main.rs.tera":      "fn main() {}",
	})
	out := t.TempDir()
	logger, logs := testutil.NewCaptureLogger(t)

	report, err := Generate(set, demoConfig(t), Options{TemplatesDir: root, OutputDir: out, Logger: logger})
	require.NoError(t, err)

	assert.True(t, testutil.Exists(t, out, "demo/demo_frontend/App.tsx"))
	assert.True(t, testutil.Exists(t, out, "demo/demo_frontend/main.tsx"))
	assert.False(t, testutil.Exists(t, out, "demo/demo_frontend/broken.tsx"))
	assert.True(t, testutil.Exists(t, out, "demo/demo_backend/main.rs"))

	require.Len(t, report.Skipped, 1)
	var renderErr *RenderError
	require.True(t, errors.As(report.Skipped[0].Err, &renderErr))
	assert.Equal(t, "broken.tsx", renderErr.Identifier)
	assert.Equal(t, "3 rendered, 1 skipped", report.Summary())
	assert.True(t, report.HasSkipped())

	assert.Contains(t, logs.String(), "template=broken.tsx")
	assert.Contains(t, logs.String(), "run_id="+report.RunID)
}

func TestGenerate_ScenarioC(t *testing.T) {
	out := t.TempDir()
	missing := filepath.Join(t.TempDir(), "templates")

	_, err := LoadTemplateSet(missing, ".tera", nil, nil)
	require.Error(t, err)
	assert.True(t, IsFatal(err))

	set, err := NewTemplateSet(map[string]string{}, ".tera")
	require.NoError(t, err)

	_, err = Generate(set, demoConfig(t), Options{TemplatesDir: missing, OutputDir: out})
	require.Error(t, err)

	var bootstrapErr *BootstrapError
	require.True(t, errors.As(err, &bootstrapErr), "expected *BootstrapError, got %T", err)
	assert.True(t, IsFatal(err))
	assert.False(t, testutil.Exists(t, out, "demo"), "no output tree on bootstrap failure")
}

func TestGenerate_MissingFrameworkDir(t *testing.T) {
	root, set := loadFixture(t, map[string]string{
		"frontend/react/index.html.tera": "x",
		"backend/rocket/main.rs.tera":    "y",
	})
	out := t.TempDir()

	_, err := Generate(set, demoConfig(t), Options{TemplatesDir: root, OutputDir: out})
	require.Error(t, err)

	var bootstrapErr *BootstrapError
	require.True(t, errors.As(err, &bootstrapErr))
	assert.Equal(t, filepath.Join(root, "backend", "axum"), bootstrapErr.Path)
	assert.False(t, testutil.Exists(t, out, "demo"), "frontend must not be written before the backend dir is checked")
}

func TestGenerate_Mirroring(t *testing.T) {
	files := map[string]string{
		"frontend/react/package.json.tera":              `{"name": "{{ kebab_case(project_name) }}"}`,
		"frontend/react/src/components/Header.tsx.tera": "header",
		"frontend/react/src/index.tsx.tera":             "index",
		"frontend/react/public/favicon.ico":             "binary",
		"backend/axum/Cargo.toml.tera":                  `name = "{{ snake_case(project_name) }}"`,
		"backend/axum/src/routes/health.rs.tera":        "health",
		"backend/axum/src/main.rs.tera":                 "main",
	}
	root, set := loadFixture(t, files)
	out := t.TempDir()

	report, err := Generate(set, demoConfig(t), Options{TemplatesDir: root, OutputDir: out})
	require.NoError(t, err)

	var got []string
	err = filepath.WalkDir(filepath.Join(out, "demo"), func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, _ := filepath.Rel(out, p)
		got = append(got, filepath.ToSlash(rel))
		return nil
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"demo/demo_frontend/package.json",
		"demo/demo_frontend/src/components/Header.tsx",
		"demo/demo_frontend/src/index.tsx",
		"demo/demo_backend/Cargo.toml",
		"demo/demo_backend/src/routes/health.rs",
		"demo/demo_backend/src/main.rs",
	}, got)

	require.Len(t, report.Skipped, 1)
	assert.Equal(t, OutcomeUnresolvable, report.Skipped[0].Kind)
	assert.True(t, strings.HasSuffix(report.Skipped[0].Source, "favicon.ico"))
}

func TestGenerate_ContextStability(t *testing.T) {
	files := map[string]string{}
	setFiles := []string{"a", "b/c", "d/e/f", "z"}
	for _, name := range setFiles {
		files["frontend/react/"+name+".txt.tera"] = "{{ project_name }}|{{ frontend_framework }}|{{ backend_framework }}"
		files["backend/axum/"+name+".txt.tera"] = "{{ project_name }}|{{ frontend_framework }}|{{ backend_framework }}"
	}
	root, set := loadFixture(t, files)
	out := t.TempDir()

	report, err := Generate(set, demoConfig(t), Options{TemplatesDir: root, OutputDir: out})
	require.NoError(t, err)
	require.Len(t, report.Rendered, 2*len(setFiles))

	for _, o := range report.Rendered {
		data, err := os.ReadFile(o.Destination)
		require.NoError(t, err)
		assert.Equal(t, "demo|React|Axum", string(data), o.Destination)
	}
}

func TestGenerate_Rerun(t *testing.T) {
	root, set := loadFixture(t, map[string]string{
		"frontend/react/index.html.tera": "{{ project_name }}",
		"backend/axum/main.rs.tera":      "{{ backend_framework }}",
	})
	out := t.TempDir()
	opts := Options{TemplatesDir: root, OutputDir: out}

	first, err := Generate(set, demoConfig(t), opts)
	require.NoError(t, err)
	second, err := Generate(set, demoConfig(t), opts)
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.Summary(), second.Summary())
	assert.Equal(t, "demo", testutil.ReadFile(t, out, "demo/demo_frontend/index.html"))
}

func TestGenerate_FeaturesAndTools(t *testing.T) {
	cfg, err := project.New("shop", project.Rust, project.Yew, project.ActixWeb,
		[]string{"clippy", "trunk"}, project.Features{Docker: true})
	require.NoError(t, err)

	root, set := loadFixture(t, map[string]string{
		"frontend/yew/README.md.tera":       "{* for t in tools: *}- {{ t }}\n{* endfor *}",
		"backend/actix web/Dockerfile.tera": "{* if features.docker: *}FROM rust{* else: *}none{* endif *}",
	})
	out := t.TempDir()

	_, err = Generate(set, cfg, Options{TemplatesDir: root, OutputDir: out})
	require.NoError(t, err)

	assert.Equal(t, "- clippy\n- trunk\n", testutil.ReadFile(t, out, "shop/shop_frontend/README.md"))
	assert.Equal(t, "FROM rust", testutil.ReadFile(t, out, "shop/shop_backend/Dockerfile"))
}

func TestGenerate_WriteFailure(t *testing.T) {
	root, set := loadFixture(t, map[string]string{
		"frontend/react/index.html.tera": "x",
		"backend/axum/main.rs.tera":      "y",
	})
	out := t.TempDir()

	report, err := Generate(set, demoConfig(t), Options{
		TemplatesDir: root,
		OutputDir:    out,
		FS:           &failingFS{FS: rfs.NewRealFS(), failRename: true},
	})
	require.Error(t, err)

	var writeErr *WriteError
	require.True(t, errors.As(err, &writeErr))
	require.NotNil(t, report)
	assert.Empty(t, report.Rendered)
}

func TestGenerate_Ignore(t *testing.T) {
	root, set := loadFixture(t, map[string]string{
		"frontend/react/index.html.tera": "x",
		"frontend/react/.DS_Store":       "junk",
		"backend/axum/main.rs.tera":      "y",
	})
	out := t.TempDir()

	report, err := Generate(set, demoConfig(t), Options{TemplatesDir: root, OutputDir: out, Ignore: []string{"**/.DS_Store"}})
	require.NoError(t, err)
	assert.Empty(t, report.Skipped)
	assert.Equal(t, "2 rendered, 0 skipped", report.Summary())
}

func TestGenerate_IgnoreMatchesTemplateSet(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		"frontend/react/index.html.tera": "x",
		"frontend/react/README.md.tera":  "{{ project_name }}",
		"backend/axum/main.rs.tera":      "y",
	})
	ignore := []string{"frontend/react/README.md.tera"}

	set, err := LoadTemplateSet(root, ".tera", ignore, testutil.NewTestLogger(t))
	require.NoError(t, err)
	_, ok := set.Lookup("frontend/react/README.md")
	require.False(t, ok)

	out := t.TempDir()
	logger, logs := testutil.NewCaptureLogger(t)
	report, err := Generate(set, demoConfig(t), Options{
		TemplatesDir: root,
		OutputDir:    out,
		Ignore:       ignore,
		Logger:       logger,
	})
	require.NoError(t, err)
	assert.Empty(t, report.Skipped)
	assert.Equal(t, "2 rendered, 0 skipped", report.Summary())
	assert.NotContains(t, logs.String(), "level=ERROR")
	assert.False(t, testutil.Exists(t, out, "demo/demo_frontend/README.md"))
}

func TestGenerate_BackslashInFileName(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("backslash is a separator on windows")
	}

	root, set := loadFixture(t, map[string]string{
		"frontend/react/a\\b.txt.tera": "{{ project_name }}",
		"backend/axum/main.rs.tera":    "y",
	})
	out := t.TempDir()

	report, err := Generate(set, demoConfig(t), Options{TemplatesDir: root, OutputDir: out})
	require.NoError(t, err)
	assert.Empty(t, report.Skipped)
	assert.Equal(t, "demo", testutil.ReadFile(t, filepath.Join(out, "demo", "demo_frontend"), "a\\b.txt"))
}

func TestRenderVars(t *testing.T) {
	cfg, err := project.New("shop", project.JavaScript, project.Vue, project.Warp,
		[]string{"vite"}, project.Features{Linting: true, AutoInstall: true})
	require.NoError(t, err)

	vars := RenderVars(cfg)
	assert.Equal(t, "shop", vars.ProjectName)
	assert.Equal(t, "JavaScript", vars.FrontendLanguage)
	assert.Equal(t, "Vue", vars.FrontendFramework)
	assert.Equal(t, "Warp", vars.BackendFramework)
	assert.Equal(t, []string{"vite"}, vars.Tools)
	assert.True(t, vars.Features.Linting)
	assert.True(t, vars.Features.AutoInstall)
	assert.False(t, vars.Features.Docker)
}

func TestGenerate_ExtraVars(t *testing.T) {
	root, set := loadFixture(t, map[string]string{
		"frontend/react/LICENSE.tera": "{{ license }} {{ authors[0] }} {{ meta['year'] }}",
		"backend/axum/main.rs.tera":   "{{ project_name }}",
	})
	out := t.TempDir()

	_, err := Generate(set, demoConfig(t), Options{
		TemplatesDir: root,
		OutputDir:    out,
		Vars: map[string]any{
			"license": "MIT",
			"authors": []any{"ada", "grace"},
			"meta":    map[string]any{"year": 2024},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "MIT ada 2024", testutil.ReadFile(t, out, "demo/demo_frontend/LICENSE"))
}

func TestGenerate_ExtraVarsCannotShadowBuiltins(t *testing.T) {
	root, set := loadFixture(t, map[string]string{
		"frontend/react/a.tera": "a",
		"backend/axum/b.tera":   "b",
	})
	out := t.TempDir()

	_, err := Generate(set, demoConfig(t), Options{
		TemplatesDir: root,
		OutputDir:    out,
		Vars:         map[string]any{"project_name": "other"},
	})

	var be *BootstrapError
	require.ErrorAs(t, err, &be)
	assert.Contains(t, err.Error(), "conflicts with builtin")
	assert.False(t, testutil.Exists(t, out, "demo"), "nothing is written on a bad var")
}
