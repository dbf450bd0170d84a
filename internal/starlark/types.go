// Package starlark evaluates template expressions with Starlark against the
// variables of a scaffold run.
package starlark

import (
	"fmt"
	"maps"
	"slices"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// Vars holds the values a scaffold run exposes to templates.
//
// ProjectName, FrontendFramework and BackendFramework are always present as
// the project_name, frontend_framework and backend_framework globals.
type Vars struct {
	ProjectName       string
	FrontendLanguage  string
	FrontendFramework string
	BackendFramework  string
	Tools             []string
	Features          Features
}

// Features mirrors the optional tooling switches chosen for the project.
// Exposed as the "features" global.
type Features struct {
	Linting     bool
	GitInit     bool
	EnvConfig   bool
	Docker      bool
	AutoInstall bool
}

// ToStarlark converts Features to a Starlark struct value.
func (f Features) ToStarlark() starlark.Value {
	return starlarkstruct.FromStringDict(starlark.String("features"), starlark.StringDict{
		"linting":      starlark.Bool(f.Linting),
		"git_init":     starlark.Bool(f.GitInit),
		"env_config":   starlark.Bool(f.EnvConfig),
		"docker":       starlark.Bool(f.Docker),
		"auto_install": starlark.Bool(f.AutoInstall),
	})
}

// GoToStarlark converts a value decoded from the config file's vars
// section into a Starlark value. Scalars map to their Starlark counterparts,
// lists to lists and maps to dicts with keys inserted in sorted order, so a
// template iterating a dict renders the same output on every run.
func GoToStarlark(v any) (starlark.Value, error) {
	switch val := v.(type) {
	case nil:
		return starlark.None, nil
	case string:
		return starlark.String(val), nil
	case bool:
		return starlark.Bool(val), nil
	case int:
		return starlark.MakeInt(val), nil
	case int64:
		return starlark.MakeInt64(val), nil
	case uint64:
		return starlark.MakeUint64(val), nil
	case float64:
		return starlark.Float(val), nil
	case []string:
		items := make([]starlark.Value, len(val))
		for i, s := range val {
			items[i] = starlark.String(s)
		}
		return starlark.NewList(items), nil
	case []any:
		items := make([]starlark.Value, len(val))
		for i, item := range val {
			sv, err := GoToStarlark(item)
			if err != nil {
				return nil, fmt.Errorf("list index %d: %w", i, err)
			}
			items[i] = sv
		}
		return starlark.NewList(items), nil
	case map[string]any:
		dict := starlark.NewDict(len(val))
		for _, key := range slices.Sorted(maps.Keys(val)) {
			sv, err := GoToStarlark(val[key])
			if err != nil {
				return nil, fmt.Errorf("dict key %q: %w", key, err)
			}
			if err := dict.SetKey(starlark.String(key), sv); err != nil {
				return nil, fmt.Errorf("dict key %q: %w", key, err)
			}
		}
		return dict, nil
	default:
		return nil, fmt.Errorf("unsupported var type %T", v)
	}
}
