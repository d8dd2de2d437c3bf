package directive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/please-build/dtcore/src/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestScanBasicRun(t *testing.T) {
	path := writeTemp(t, "// RUN: echo hello\n")
	ds, err := All(path)
	require.NoError(t, err)
	require.Len(t, ds, 1)
	assert.Equal(t, 1, ds[0].Line)
	assert.Equal(t, core.KindRun, ds[0].Kind)
	assert.Equal(t, " echo hello", ds[0].Rest)
}

func TestScanLineContinuation(t *testing.T) {
	path := writeTemp(t, "// RUN: echo a \\\n// RUN: b c\n")
	ds, err := All(path)
	require.NoError(t, err)
	require.Len(t, ds, 2)
	assert.Equal(t, 1, ds[0].Line)
	assert.Equal(t, 2, ds[1].Line)
}

func TestScanLineNumbersAcrossBlankLines(t *testing.T) {
	path := writeTemp(t, "line1\n\n// RUN: echo hi\n\nline5\n// XFAIL: *\n")
	ds, err := All(path)
	require.NoError(t, err)
	require.Len(t, ds, 2)
	assert.Equal(t, 3, ds[0].Line)
	assert.Equal(t, core.KindRun, ds[0].Kind)
	assert.Equal(t, 6, ds[1].Line)
	assert.Equal(t, core.KindXFail, ds[1].Kind)
}

func TestScanRequiresAndEnd(t *testing.T) {
	path := writeTemp(t, "// REQUIRES: gpu, linux\n// RUN: true\n// END.\n")
	ds, err := All(path)
	require.NoError(t, err)
	require.Len(t, ds, 3)
	assert.Equal(t, core.KindRequires, ds[0].Kind)
	assert.Equal(t, " gpu, linux", ds[0].Rest)
	assert.Equal(t, core.KindEnd, ds[2].Kind)
}

func TestScanIgnoresUnrelatedText(t *testing.T) {
	path := writeTemp(t, "int main() { return 0; }\n// RUN: run-me\nsome other text\n")
	ds, err := All(path)
	require.NoError(t, err)
	require.Len(t, ds, 1)
	assert.Equal(t, core.KindRun, ds[0].Kind)
}

func TestScanEmptySource(t *testing.T) {
	path := writeTemp(t, "no directives here at all\n")
	ds, err := All(path)
	require.NoError(t, err)
	assert.Empty(t, ds)
}
