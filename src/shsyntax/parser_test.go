package shsyntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleCommand(t *testing.T) {
	n, err := Parse("echo hello", false)
	require.NoError(t, err)
	require.NotNil(t, n.Pipe)
	require.Len(t, n.Pipe.Commands, 1)
	assert.Equal(t, []string{"echo", "hello"}, n.Pipe.Commands[0].Args)
}

func TestParsePipeline(t *testing.T) {
	n, err := Parse("echo hi | tr a-z A-Z", true)
	require.NoError(t, err)
	require.NotNil(t, n.Pipe)
	require.Len(t, n.Pipe.Commands, 2)
	assert.Equal(t, []string{"echo", "hi"}, n.Pipe.Commands[0].Args)
	assert.Equal(t, []string{"tr", "a-z", "A-Z"}, n.Pipe.Commands[1].Args)
	assert.True(t, n.Pipe.PipeErr)
}

func TestParseAndAndSequence(t *testing.T) {
	n, err := Parse("true && echo ok", false)
	require.NoError(t, err)
	require.NotNil(t, n.Seq)
	assert.Equal(t, OpAndAnd, n.Seq.Op)
}

func TestParseOrOrSequence(t *testing.T) {
	n, err := Parse("false || echo fallback", false)
	require.NoError(t, err)
	require.NotNil(t, n.Seq)
	assert.Equal(t, OpOrOr, n.Seq.Op)
}

func TestParseSemicolonSequence(t *testing.T) {
	n, err := Parse("echo a; echo b", false)
	require.NoError(t, err)
	require.NotNil(t, n.Seq)
	assert.Equal(t, OpSemicolon, n.Seq.Op)
}

func TestParseRejectsBackground(t *testing.T) {
	_, err := Parse("sleep 5 &", false)
	assert.Error(t, err)
}

func TestParseRejectsSubshell(t *testing.T) {
	_, err := Parse("(echo hi)", false)
	assert.Error(t, err)
}

func TestParseRejectsCommandSubstitution(t *testing.T) {
	_, err := Parse("echo $(date)", false)
	assert.Error(t, err)
}

func TestParseRedirectStdoutToFile(t *testing.T) {
	n, err := Parse("echo hi > out.txt", false)
	require.NoError(t, err)
	require.Len(t, n.Pipe.Commands[0].Redirects, 1)
	r := n.Pipe.Commands[0].Redirects[0]
	assert.Equal(t, RedirectOut, r.Kind)
	assert.Equal(t, 1, r.Fd)
	assert.Equal(t, "out.txt", r.Path)
	assert.False(t, r.Append)
}

func TestParseRedirectDupStderrToStdout(t *testing.T) {
	n, err := Parse("cmd 2>&1", false)
	require.NoError(t, err)
	require.Len(t, n.Pipe.Commands[0].Redirects, 1)
	r := n.Pipe.Commands[0].Redirects[0]
	assert.Equal(t, RedirectDupFd, r.Kind)
	assert.Equal(t, 2, r.Fd)
	assert.Equal(t, 1, r.SrcFd)
}

func TestParseNegate(t *testing.T) {
	n, err := Parse("! grep foo file.txt", false)
	require.NoError(t, err)
	require.NotNil(t, n.Pipe)
	assert.True(t, n.Pipe.Negate)
}

func TestParseQuotedArgs(t *testing.T) {
	n, err := Parse(`echo "hello world"`, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"echo", "hello world"}, n.Pipe.Commands[0].Args)
}
