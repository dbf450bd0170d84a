package starlark

import (
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Predeclared returns the globals visible to every template of a run:
// project_name, frontend_language, frontend_framework, backend_framework,
// tools, features and the case-conversion helpers. The returned dict is
// frozen.
func Predeclared(vars Vars) starlark.StringDict {
	tools := make([]starlark.Value, len(vars.Tools))
	for i, t := range vars.Tools {
		tools[i] = starlark.String(t)
	}

	globals := starlark.StringDict{
		"project_name":       starlark.String(vars.ProjectName),
		"frontend_language":  starlark.String(vars.FrontendLanguage),
		"frontend_framework": starlark.String(vars.FrontendFramework),
		"backend_framework":  starlark.String(vars.BackendFramework),
		"tools":              starlark.NewList(tools),
		"features":           vars.Features.ToStarlark(),
		"snake_case":         starlark.NewBuiltin("snake_case", caseBuiltin(SnakeCase)),
		"kebab_case":         starlark.NewBuiltin("kebab_case", caseBuiltin(KebabCase)),
		"pascal_case":        starlark.NewBuiltin("pascal_case", caseBuiltin(PascalCase)),
	}
	globals.Freeze()

	return globals
}

func caseBuiltin(fn func(string) string) func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var s string
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &s); err != nil {
			return nil, err
		}
		return starlark.String(fn(s)), nil
	}
}

// words splits an identifier-like string on separators and lower-to-upper
// case transitions: "my-App name" -> [my App name].
func words(s string) []string {
	var (
		out []string
		cur []rune
	)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}

	var prev rune
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
		prev = r
	}
	flush()

	return out
}

// SnakeCase converts s to snake_case, e.g. for Rust crate names.
func SnakeCase(s string) string {
	return strings.ToLower(strings.Join(words(s), "_"))
}

// KebabCase converts s to kebab-case, e.g. for npm package names.
func KebabCase(s string) string {
	return strings.ToLower(strings.Join(words(s), "-"))
}

// PascalCase converts s to PascalCase, e.g. for type or component names.
func PascalCase(s string) string {
	title := cases.Title(language.Und)
	var b strings.Builder
	for _, w := range words(s) {
		b.WriteString(title.String(w))
	}
	return b.String()
}
