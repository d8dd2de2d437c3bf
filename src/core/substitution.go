package core

import "regexp"

// A Substitution is one ordered `(pattern, replacement)` rewrite rule.
// See spec.md §3 and §4.B.
//
// Substitution lists are built fresh per test run from a handful of
// entries and applied immediately, so there's no benefit to deferring
// compilation — the Pattern is compiled once, eagerly, when the
// Substitution is constructed.
type Substitution struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// NewSubstitution compiles pattern and pairs it with replacement. It
// panics on an invalid pattern, since these patterns are either static
// literals or user/config-supplied strings validated well before a RUN
// line is processed.
func NewSubstitution(pattern, replacement string) Substitution {
	return Substitution{Pattern: regexp.MustCompile(pattern), Replacement: replacement}
}
