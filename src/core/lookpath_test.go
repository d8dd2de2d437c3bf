package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookPathFindsInDir(t *testing.T) {
	dir := t.TempDir()
	tool := filepath.Join(dir, "mytool")
	assert.NoError(t, os.WriteFile(tool, []byte("#!/bin/sh\n"), 0755))

	found, err := LookPath("mytool", dir, "")
	assert.NoError(t, err)
	assert.Equal(t, tool, found)
}

func TestLookPathFindsOnPath(t *testing.T) {
	dir := t.TempDir()
	tool := filepath.Join(dir, "mytool")
	assert.NoError(t, os.WriteFile(tool, []byte("#!/bin/sh\n"), 0755))

	found, err := LookPath("mytool", "", dir)
	assert.NoError(t, err)
	assert.Equal(t, tool, found)
}

func TestLookPathNotFound(t *testing.T) {
	_, err := LookPath("no-such-tool-ever", "", t.TempDir())
	assert.Error(t, err)
}

func TestLookPathSkipsNonExecutable(t *testing.T) {
	dir := t.TempDir()
	tool := filepath.Join(dir, "notexec")
	assert.NoError(t, os.WriteFile(tool, []byte("data"), 0644))

	_, err := LookPath("notexec", dir, "")
	assert.Error(t, err)
}
