package scaffold

import (
	"fmt"
	"time"
)

// OutcomeKind classifies what happened to one walked entry.
type OutcomeKind string

// Outcome kinds.
const (
	OutcomeRendered     OutcomeKind = "rendered"
	OutcomeUnresolvable OutcomeKind = "unresolvable"
	OutcomeRenderFailed OutcomeKind = "render_failed"
)

// Outcome records the result for one walked entry.
type Outcome struct {
	Subtree     string // "frontend" or "backend"
	Source      string
	Identifier  string
	Destination string
	Kind        OutcomeKind
	Err         error
}

// Report summarizes a scaffold run.
type Report struct {
	RunID    string
	Root     string
	Rendered []Outcome
	Skipped  []Outcome
	Duration time.Duration
}

// HasSkipped returns true if any entry was skipped.
func (r *Report) HasSkipped() bool {
	return len(r.Skipped) > 0
}

// Summary returns a human-readable summary.
func (r *Report) Summary() string {
	return fmt.Sprintf("%d rendered, %d skipped", len(r.Rendered), len(r.Skipped))
}

func (r *Report) record(o Outcome) {
	if o.Kind == OutcomeRendered {
		r.Rendered = append(r.Rendered, o)
		return
	}
	r.Skipped = append(r.Skipped, o)
}
