// Package report implements the Result Formatter (spec.md §4.G): it
// renders a core.Result into the fixed human-readable report text, and
// aggregates many results into a suite summary for callers driving more
// than one test file.
package report

import (
	"fmt"
	"strings"

	"github.com/please-build/dtcore/src/core"
)

// StatusFromExitCode maps a process exit code to a core.Status the way
// spec.md §4.G's "exitCode == 0 → PASS else FAIL" rule requires.
func StatusFromExitCode(exitCode int) core.Status {
	if exitCode == 0 {
		return core.StatusPass
	}
	return core.StatusFail
}

// Format renders res into the fixed report skeleton spec.md §4.G
// specifies: the script that ran, its exit code, and its captured
// stdout/stderr when non-empty.
func Format(res core.Result) string {
	var b strings.Builder
	b.WriteString("Script:\n--\n")
	b.WriteString(res.Script)
	if !strings.HasSuffix(res.Script, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString("--\n")
	fmt.Fprintf(&b, "Exit Code: %d\n\n", res.Exec.ExitCode)

	if res.Exec.Stdout != "" {
		b.WriteString("Command Output (stdout):\n--\n")
		b.WriteString(res.Exec.Stdout)
		if !strings.HasSuffix(res.Exec.Stdout, "\n") {
			b.WriteByte('\n')
		}
		b.WriteString("--\n")
	}
	if res.Exec.Stderr != "" {
		b.WriteString("Command Output (stderr):\n--\n")
		b.WriteString(res.Exec.Stderr)
		if !strings.HasSuffix(res.Exec.Stderr, "\n") {
			b.WriteByte('\n')
		}
		b.WriteString("--\n")
	}
	return b.String()
}
