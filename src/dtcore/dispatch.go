// Package dtcore is the top-level dispatcher, spec.md §4.G: it wires the
// Script Assembler, the two executors and the Result Formatter into the
// six-step sequence a caller (a test-suite scheduler, external to this
// core) drives one test file through.
package dtcore

import (
	"os"
	"strings"

	"github.com/please-build/dtcore/src/core"
	"github.com/please-build/dtcore/src/extshell"
	"github.com/please-build/dtcore/src/interp"
	"github.com/please-build/dtcore/src/report"
	"github.com/please-build/dtcore/src/script"
	"github.com/please-build/dtcore/src/shsyntax"
)

// RunTest executes the test source file at loc under cfg and returns its
// core.Result, following spec.md §4.G's dispatcher steps in order:
// config.unsupported short-circuit, assembly, no-execute short-circuit,
// tmpdir creation, executor dispatch. The result is not formatted here;
// Format renders it.
func RunTest(loc core.SourceLocation, cfg *core.Config, extraSubstitutions []core.Substitution) core.Result {
	if cfg.Unsupported {
		return core.Result{Location: loc, Status: core.StatusUnsupported, Diagnostic: "test suite is marked unsupported"}
	}

	assembled, err := script.Assemble(loc, cfg, extraSubstitutions)
	if err != nil {
		return resultFromAssembleError(loc, err)
	}
	scriptText := strings.Join(assembled.Lines, "\n")

	if cfg.NoExecute {
		return core.Result{Location: loc, Status: core.StatusPass, Script: scriptText}
	}

	if err := os.MkdirAll(assembled.ExecDir, 0755); err != nil {
		return core.Result{Location: loc, Status: core.StatusUnresolved, Script: scriptText, Diagnostic: err.Error()}
	}
	if err := ensureTmpDir(loc); err != nil {
		return core.Result{Location: loc, Status: core.StatusUnresolved, Script: scriptText, Diagnostic: err.Error()}
	}

	exec, execErr := runScript(assembled, cfg)

	res := core.Result{
		Location: loc,
		Script:   scriptText,
		Exec:     exec,
	}
	if execErr != nil {
		if _, ok := execErr.(*interp.Interrupted); ok {
			res.Status = core.StatusUnresolved
			res.Diagnostic = "interrupted"
			return res
		}
		res.Diagnostic = execErr.Error()
	}

	status := report.StatusFromExitCode(exec.ExitCode)
	if status == core.StatusFail && expectedToFail(assembled.Xfails, cfg) {
		status = core.StatusXFail
	}
	res.Status = status
	return res
}

// Format renders res through the Result Formatter, spec.md §4.G's final
// dispatcher step.
func Format(res core.Result) string {
	return report.Format(res)
}

func ensureTmpDir(loc core.SourceLocation) error {
	return os.MkdirAll(loc.TmpDir(), 0755)
}

func resultFromAssembleError(loc core.SourceLocation, err error) core.Result {
	switch e := err.(type) {
	case *script.UnresolvedError:
		return core.Result{Location: loc, Status: core.StatusUnresolved, Diagnostic: e.Message}
	case *script.UnsupportedError:
		return core.Result{Location: loc, Status: core.StatusUnsupported, Diagnostic: e.Message}
	default:
		return core.Result{Location: loc, Status: core.StatusUnresolved, Diagnostic: err.Error()}
	}
}

// runScript invokes whichever executor cfg selects and folds its result
// down to the single core.ExecutionResult the report carries: the
// internal executor's per-command results collapse to the last command
// spawned (its stdout/stderr/exit are what a pipeline "produces"), while
// the external executor already returns exactly one.
func runScript(assembled *script.Assembled, cfg *core.Config) (core.ExecutionResult, error) {
	if cfg.UseExternalShell {
		return extshell.Run(assembled.Lines, assembled.TmpBase, assembled.ExecDir, cfg)
	}

	var last core.ExecutionResult
	var overallExit int
	for _, line := range assembled.Lines {
		node, perr := shsyntax.Parse(line, cfg.PipeFail)
		if perr != nil {
			last.Command = line
			last.Stderr = perr.Error()
			last.ExitCode = 127
			return last, &interp.InternalShellError{Message: perr.Error()}
		}
		executor := interp.New(cfg)
		exit, results, rerr := executor.Run(node, assembled.ExecDir)
		overallExit = exit
		if len(results) > 0 {
			last = results[len(results)-1]
		}
		if rerr != nil {
			last.ExitCode = overallExit
			return last, rerr
		}
		if exit != 0 {
			last.ExitCode = overallExit
			return last, nil
		}
	}
	last.ExitCode = overallExit
	return last, nil
}

// expectedToFail reports whether xfails (the comma-split, trimmed names
// collected from XFAIL directives) marks this test as expected to fail
// under cfg: either "*" (always) or any named feature cfg has available.
func expectedToFail(xfails []string, cfg *core.Config) bool {
	for _, x := range xfails {
		if x == "*" || cfg.Feature(x) {
			return true
		}
	}
	return false
}
