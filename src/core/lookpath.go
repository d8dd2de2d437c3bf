package core

import (
	"os"
	"path/filepath"
	"strings"
)

// LookPath resolves name to an executable path, searching dir first (so a
// test suite can shadow a system binary with one next to the test file)
// and then each entry of path, a PATH-style list separated by
// os.PathListSeparator. It mirrors the search order lit uses for %{bash}
// and similar tool substitutions.
func LookPath(name, dir, path string) (string, error) {
	if dir != "" {
		candidate := filepath.Join(dir, name)
		if isExecutableFile(candidate) {
			return candidate, nil
		}
	}
	for _, d := range splitPathList(path) {
		if d == "" {
			d = "."
		}
		candidate := filepath.Join(d, name)
		if isExecutableFile(candidate) {
			return candidate, nil
		}
	}
	return "", os.ErrNotExist
}

func isExecutableFile(path string) bool {
	stat, err := os.Stat(path)
	if err != nil || stat.IsDir() {
		return false
	}
	return stat.Mode()&0111 != 0
}

func splitPathList(pathList string) []string {
	if pathList == "" {
		return nil
	}
	return strings.Split(pathList, string(os.PathListSeparator))
}
