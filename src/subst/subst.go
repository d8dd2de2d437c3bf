// Package subst implements the ordered regex substitution engine that
// rewrites a RUN line before it's handed to the shell parser: an ordered
// list of (pattern, replacement) pairs folded over a string with
// successive ReplaceAllString calls. Replacement backslashes are never
// escaped, on any host (see Apply).
package subst

import (
	"runtime"

	"github.com/please-build/dtcore/src/core"
)

// Apply sequentially rewrites every match of every substitution in order,
// folding an ordered table over a command string. See spec.md §4.B.
//
// §4.B's Windows rule ("escape backslashes in the replacement text so the
// regex-replace primitive treats them as literal") is written against
// tools whose replace primitive gives backslash a backreference-like
// meaning (e.g. Python's re.sub). Go's regexp.ReplaceAllString has no
// such behaviour — it only treats `$` specially — so a Windows path
// backslash in replacement text is already passed through literally
// without any escaping. Escaping it here would instead double every
// backslash in the output, which is the bug §4.B exists to prevent.
// isWindows is accepted to keep the call shape spec-aligned and because
// a future caller needing Windows-only replacement behaviour (e.g. `$`
// literal escaping) has an obvious place to add it.
func Apply(line string, substitutions []core.Substitution, isWindows bool) string {
	_ = isWindows
	for _, s := range substitutions {
		line = s.Pattern.ReplaceAllString(line, s.Replacement)
	}
	return line
}

// HostIsWindows reports whether this process runs on Windows, for callers
// that haven't been handed an explicit core.Config.IsWindows flag to pass
// to Apply.
func HostIsWindows() bool {
	return runtime.GOOS == "windows"
}
