package core

import (
	"path/filepath"
	"strings"
)

// A SourceLocation describes where a test file lives and where its
// execution artifacts should be written. See spec.md §3.
type SourceLocation struct {
	// Path is the test source file itself.
	Path string
	// ExecDir is the directory the test is considered to execute from.
	// It is usually the same as the source directory, but callers running
	// out of a build output tree may point it elsewhere.
	ExecDir string
	// ExecBase is the basename used to derive temporary artifact paths.
	ExecBase string
}

// NewSourceLocation builds a SourceLocation for a test file, deriving
// ExecDir/ExecBase from the source path the way lit does by default
// (execdir == sourcedir).
func NewSourceLocation(path string) SourceLocation {
	dir := filepath.Dir(path)
	return SourceLocation{
		Path:     path,
		ExecDir:  dir,
		ExecBase: filepath.Base(path),
	}
}

// SourceDir returns the directory containing the test source file.
func (l SourceLocation) SourceDir() string {
	return filepath.Dir(l.Path)
}

// TmpDir returns the directory temporary test artifacts are written under.
func (l SourceLocation) TmpDir() string {
	return filepath.Join(l.ExecDir, "Output")
}

// TmpBase returns the base path (within TmpDir) that %t/%T are derived from.
func (l SourceLocation) TmpBase() string {
	return filepath.Join(l.TmpDir(), l.ExecBase)
}

// Slashed normalizes backslashes to forward slashes, used for the %/s-style
// substitution variants.
func Slashed(s string) string {
	return strings.ReplaceAll(s, "\\", "/")
}
