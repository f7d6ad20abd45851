package browser

import (
	"strings"

	"github.com/gobwas/glob"
)

// Filter matches file names against a set of glob patterns
type Filter struct {
	patterns []string
	g        glob.Glob
}

// NewFilter compiles patterns such as "*.nib". No patterns means no filter.
func NewFilter(patterns ...string) (*Filter, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	g, err := glob.Compile("{" + strings.Join(patterns, ",") + "}")
	if err != nil {
		return nil, err
	}
	return &Filter{patterns: patterns, g: g}, nil
}

// Match reports whether name passes. A nil filter passes everything.
func (f *Filter) Match(name string) bool {
	if f == nil {
		return true
	}
	return f.g.Match(name)
}

// Patterns returns the source patterns
func (f *Filter) Patterns() []string {
	if f == nil {
		return nil
	}
	return f.patterns
}
