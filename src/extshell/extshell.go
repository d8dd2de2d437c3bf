// Package extshell implements the External Executor, spec.md §4.F: it
// writes the assembled script to disk and spawns a host shell to run it,
// for callers that want a real shell's semantics (job control, globbing,
// variable expansion) rather than the narrower internal interpreter in
// src/interp.
package extshell

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/please-build/dtcore/src/core"
)

// scriptExt picks the on-disk extension for the assembled script:
// ".script.bat" when running under Windows CMD semantics, ".script" for
// POSIX shells.
func scriptExt(cfg *core.Config) string {
	if cfg.IsWindows && cfg.BashPath == "" {
		return ".script.bat"
	}
	return ".script"
}

// Write renders lines into the script body appropriate for cfg and saves
// it to tmpBase plus the chosen extension, per spec.md §4.F's temp-layout
// rule (`<execbase>.script[.bat]`). It returns the path written.
func Write(lines []string, tmpBase string, cfg *core.Config) (string, error) {
	path := tmpBase + scriptExt(cfg)
	var body string
	if cfg.IsWindows && cfg.BashPath == "" {
		body = JoinWindows(lines)
	} else {
		body = JoinPOSIX(lines, cfg.PipeFail)
	}
	if err := os.WriteFile(path, []byte(body), 0755); err != nil {
		return "", err
	}
	return path, nil
}

// JoinWindows joins lines the way CMD needs: each command followed by an
// explicit ERRORLEVEL check so the batch aborts as soon as one fails,
// since CMD doesn't stop on error by default the way `set -e` does.
func JoinWindows(lines []string) string {
	return strings.Join(lines, "\nif %ERRORLEVEL% NEQ 0 EXIT\n")
}

// JoinPOSIX joins lines the way a POSIX shell needs: `set -o pipefail;`
// first when configured, then each command wrapped in its own `{ ...; }`
// group and chained with `&&` so the script stops at the first failure
// while still running every command in the *same* shell process (a brace
// group, unlike a subshell, shares file descriptors and cwd with the
// invoking script).
func JoinPOSIX(lines []string, pipeFail bool) string {
	var b strings.Builder
	if pipeFail {
		b.WriteString("set -o pipefail;\n")
	}
	wrapped := make([]string, len(lines))
	for i, line := range lines {
		wrapped[i] = fmt.Sprintf("{ %s; }", line)
	}
	b.WriteString(strings.Join(wrapped, " &&\n"))
	return b.String()
}

// invocation builds the argv used to run scriptPath under the host shell
// spec.md §4.F names: `cmd /c script` on Windows with no bash configured,
// otherwise `bash script` when a bash path is known, falling back to
// `/bin/sh script`. When valgrind is configured, its argv is prepended to
// wrap the whole shell invocation once, the same way the original
// TestRunner's executeScript prepends litConfig.valgrindArgs to the outer
// [bashPath, script] argv rather than re-running valgrind per RUN line.
func invocation(scriptPath string, cfg *core.Config) []string {
	var base []string
	switch {
	case cfg.IsWindows && cfg.BashPath == "":
		base = []string{"cmd", "/c", scriptPath}
	case cfg.BashPath != "":
		base = []string{cfg.BashPath, scriptPath}
	default:
		base = []string{"/bin/sh", scriptPath}
	}
	if cfg.UseValgrind && len(cfg.ValgrindArgs) > 0 {
		return append(append([]string{}, cfg.ValgrindArgs...), base...)
	}
	return base
}

// Run writes lines to a script under tmpBase and spawns the host shell
// named by invocation to execute it in execDir, capturing its stdout,
// stderr and exit code as a single core.ExecutionResult, per spec.md
// §4.F. The script file is left on disk afterward, inside the directory
// the test sees as `%T` (beside, not at, the `%t` path); it is the
// caller's responsibility to clean up the Output directory.
func Run(lines []string, tmpBase, execDir string, cfg *core.Config) (core.ExecutionResult, error) {
	scriptPath, err := Write(lines, tmpBase, cfg)
	if err != nil {
		return core.ExecutionResult{}, err
	}

	argv := invocation(scriptPath, cfg)
	if !filepath.IsAbs(argv[0]) {
		if resolved, lerr := core.LookPath(argv[0], execDir, os.Getenv("PATH")); lerr == nil {
			argv[0] = resolved
		}
	}

	c := exec.Command(argv[0], argv[1:]...)
	c.Dir = execDir
	c.Env = cfg.Environment

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	runErr := c.Run()
	exit := 0
	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			exit = exitErr.ExitCode()
		} else {
			return core.ExecutionResult{Command: shellquote.Join(argv...)}, runErr
		}
	}

	return core.ExecutionResult{
		Command:  shellquote.Join(argv...),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exit,
	}, nil
}
