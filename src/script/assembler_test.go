package script

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/please-build/dtcore/src/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, content string) core.SourceLocation {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return core.NewSourceLocation(path)
}

func defaultConfig() *core.Config {
	return &core.Config{
		AvailableFeatures: map[string]bool{"cpu": true},
	}
}

func TestAssembleBasicRun(t *testing.T) {
	loc := writeSource(t, "// RUN: echo hello\n")
	a, err := Assemble(loc, defaultConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"echo hello"}, a.Lines)
}

func TestAssembleLineContinuation(t *testing.T) {
	loc := writeSource(t, "// RUN: echo a \\\n// RUN: b c\n")
	a, err := Assemble(loc, defaultConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"echo a b c"}, a.Lines)
}

func TestAssembleLineNumberToken(t *testing.T) {
	loc := writeSource(t, "line1\nline2\n// RUN: echo %(line)\n// RUN: echo %(line+2)\n// RUN: echo %(line-1)\n")
	a, err := Assemble(loc, defaultConfig(), nil)
	require.NoError(t, err)
	require.Len(t, a.Lines, 3)
	assert.Equal(t, "echo 3", a.Lines[0])
	assert.Equal(t, "echo 6", a.Lines[1])
	assert.Equal(t, "echo 4", a.Lines[2])
}

func TestAssembleRequiresMismatch(t *testing.T) {
	loc := writeSource(t, "// REQUIRES: gpu\n// RUN: true\n")
	_, err := Assemble(loc, defaultConfig(), nil)
	require.Error(t, err)
	var unsupported *UnsupportedError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "Test requires the following features: gpu", unsupported.Message)
}

func TestAssembleRequiresSatisfied(t *testing.T) {
	loc := writeSource(t, "// REQUIRES: cpu\n// RUN: true\n")
	a, err := Assemble(loc, defaultConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"true"}, a.Lines)
}

func TestAssembleNoRunLine(t *testing.T) {
	loc := writeSource(t, "no directives at all\n")
	_, err := Assemble(loc, defaultConfig(), nil)
	require.Error(t, err)
	var unresolved *UnresolvedError
	require.True(t, errors.As(err, &unresolved))
	assert.Equal(t, "Test has no run line!", unresolved.Message)
}

func TestAssembleUnterminatedContinuation(t *testing.T) {
	loc := writeSource(t, "// RUN: echo a \\\n")
	_, err := Assemble(loc, defaultConfig(), nil)
	require.Error(t, err)
	var unresolved *UnresolvedError
	require.True(t, errors.As(err, &unresolved))
	assert.Equal(t, `Test has unterminated run lines (with '\')`, unresolved.Message)
}

func TestAssemblePositionalSubstitutions(t *testing.T) {
	loc := writeSource(t, "// RUN: cc %s -o %t\n")
	a, err := Assemble(loc, defaultConfig(), nil)
	require.NoError(t, err)
	require.Len(t, a.Lines, 1)
	assert.Contains(t, a.Lines[0], loc.Path)
	assert.Contains(t, a.Lines[0], loc.TmpBase()+".tmp")
}

func TestAssembleEndStopsScanning(t *testing.T) {
	loc := writeSource(t, "// RUN: echo a\n// END.\n// RUN: echo b\n")
	a, err := Assemble(loc, defaultConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"echo a"}, a.Lines)
}

func TestAssemblePercentEscaping(t *testing.T) {
	loc := writeSource(t, "// RUN: echo 50%%\n")
	a, err := Assemble(loc, defaultConfig(), nil)
	require.NoError(t, err)
	require.Len(t, a.Lines, 1)
	assert.NotContains(t, a.Lines[0], "#_MARKER_#")
	assert.Equal(t, "echo 50%", a.Lines[0])
}

func TestAssembleXfails(t *testing.T) {
	loc := writeSource(t, "// XFAIL: linux, windows\n// RUN: false\n")
	a, err := Assemble(loc, defaultConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"linux", "windows"}, a.Xfails)
}
