package scaffold

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// IgnoreSet matches slash-separated paths, relative to the template root or
// a walked subtree, against doublestar patterns such as "**/.DS_Store".
type IgnoreSet struct {
	patterns []string
}

// NewIgnoreSet validates patterns and returns the set. A nil or empty list
// ignores nothing.
func NewIgnoreSet(patterns []string) (*IgnoreSet, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid ignore pattern %q", p)
		}
	}
	return &IgnoreSet{patterns: patterns}, nil
}

// Match reports whether rel matches any pattern.
func (s *IgnoreSet) Match(rel string) bool {
	if s == nil {
		return false
	}
	for _, p := range s.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
