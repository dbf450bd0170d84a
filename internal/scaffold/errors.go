package scaffold

import (
	"errors"
	"fmt"
)

// Reasons an entry of the template tree cannot be turned into an identifier.
const (
	ReasonNonText       = "non-text path"
	ReasonMissingSuffix = "missing marker suffix"
	ReasonUnreadable    = "unreadable entry"
)

// BootstrapError is returned when the template set or a template source
// directory cannot be loaded. It is fatal: no output is produced.
type BootstrapError struct {
	Path string
	Err  error
}

func (e *BootstrapError) Error() string {
	return fmt.Sprintf("template bootstrap failed: %s: %v", e.Path, e.Err)
}

func (e *BootstrapError) Unwrap() error { return e.Err }

// UnresolvableEntryError describes a walked file that has no template
// identifier. The entry is skipped and the run continues.
type UnresolvableEntryError struct {
	Path   string
	Reason string
	Err    error
}

func (e *UnresolvableEntryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unresolvable entry %q: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("unresolvable entry %q: %s", e.Path, e.Reason)
}

func (e *UnresolvableEntryError) Unwrap() error { return e.Err }

// RenderError is a failure to render one template. Nothing is written for
// that template and the run continues.
type RenderError struct {
	Identifier string
	Err        error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %q: %v", e.Identifier, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// WriteError is a failure to create an output directory or file. It aborts
// the run; files already written stay on disk.
type WriteError struct {
	Op   string // "mkdir" or "write"
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// IsFatal reports whether err aborts a scaffold run.
func IsFatal(err error) bool {
	var bootstrapErr *BootstrapError
	var writeErr *WriteError
	return errors.As(err, &bootstrapErr) || errors.As(err, &writeErr)
}
