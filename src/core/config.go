package core

// A Config describes the externally-supplied environment a test runs
// under: the substitution table, feature set and shell dialect. See
// spec.md §6 "External Interfaces".
//
// A single struct threaded through every stage of the pipeline rather
// than a grab-bag of globals.
type Config struct {
	// Environment is the environment variable set (KEY=VALUE pairs)
	// subprocesses are launched with.
	Environment []string
	// Substitutions is the ordered list of `%`-style substitutions applied
	// to each RUN line before it's parsed as a shell command.
	Substitutions []Substitution
	// AvailableFeatures is the set of feature names a REQUIRES directive
	// may reference. A test whose REQUIRES names a feature not in this set
	// is UNSUPPORTED.
	AvailableFeatures map[string]bool
	// Unsupported, if true, marks every test UNSUPPORTED regardless of its
	// REQUIRES directives (e.g. the whole suite disabled on this platform).
	Unsupported bool
	// IsWindows selects cmd.exe/.bat semantics over bash/.script semantics
	// in the external executor, and /dev/null emulation in the internal
	// executor.
	IsWindows bool
	// BashPath is the path to the bash binary the external executor runs
	// the script with; the internal executor does not use it.
	BashPath string
	// UseValgrind, when true, prepends ValgrindArgs once to the external
	// executor's shell invocation; the internal executor does not use it.
	UseValgrind  bool
	ValgrindArgs []string
	// PipeFail controls whether `bash -o pipefail` semantics are honoured;
	// disabling it restores plain last-command-exit-code behaviour.
	PipeFail bool
	// NoExecute short-circuits the dispatcher right after script assembly,
	// returning the assembled script without running it. Used for `-a`/dry
	// run style invocations.
	NoExecute bool
	// UseExternalShell routes execution through src/extshell (a real host
	// shell) instead of src/interp (this core's own AST walker). Per
	// spec.md §6, both are valid executeCommand collaborators; this field
	// is the dispatcher's selector between them.
	UseExternalShell bool
}

// Feature reports whether name is present in AvailableFeatures.
func (c *Config) Feature(name string) bool {
	return c.AvailableFeatures[name]
}
