package report

import (
	"testing"

	"github.com/please-build/dtcore/src/core"
	"github.com/stretchr/testify/assert"
)

func TestStatusFromExitCode(t *testing.T) {
	assert.Equal(t, core.StatusPass, StatusFromExitCode(0))
	assert.Equal(t, core.StatusFail, StatusFromExitCode(1))
	assert.Equal(t, core.StatusFail, StatusFromExitCode(127))
}

func TestFormatBasicPass(t *testing.T) {
	res := core.Result{
		Script: "echo hello",
		Exec:   core.ExecutionResult{ExitCode: 0, Stdout: "hello\n"},
	}
	got := Format(res)
	assert.Equal(t, "Script:\n--\necho hello\n--\nExit Code: 0\n\nCommand Output (stdout):\n--\nhello\n--\n", got)
}

func TestFormatOmitsEmptyStreams(t *testing.T) {
	res := core.Result{Script: "true", Exec: core.ExecutionResult{ExitCode: 0}}
	got := Format(res)
	assert.NotContains(t, got, "Command Output")
}

func TestFormatIncludesStderrWhenPresent(t *testing.T) {
	res := core.Result{
		Script: "false",
		Exec:   core.ExecutionResult{ExitCode: 1, Stderr: "boom\n"},
	}
	got := Format(res)
	assert.Contains(t, got, "Command Output (stderr):\n--\nboom\n--\n")
	assert.Contains(t, got, "Exit Code: 1")
}
