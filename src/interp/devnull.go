package interp

import (
	"os"

	"github.com/hashicorp/go-multierror"
)

// devNullHandler substitutes a tracked, freshly created empty temp file
// for "/dev/null" on hosts that don't have a working null device (notably
// Windows, which spells it "NUL"), per spec.md §4.E.2's "/dev/null
// portability" rule. POSIX hosts pass paths through unchanged.
type devNullHandler struct {
	isWindows bool
	tmpDir    string
	created   []string
}

func newDevNullHandler(isWindows bool, tmpDir string) *devNullHandler {
	return &devNullHandler{isWindows: isWindows, tmpDir: tmpDir}
}

// rewritePath returns path, substituted for a fresh temp file if path is
// "/dev/null" and this host can't honor it directly.
func (d *devNullHandler) rewritePath(path string) (string, error) {
	if path != "/dev/null" || !d.isWindows {
		return path, nil
	}
	f, err := os.CreateTemp(d.tmpDir, "devnull-*")
	if err != nil {
		return "", err
	}
	name := f.Name()
	f.Close()
	d.created = append(d.created, name)
	return name, nil
}

// rewriteArgs applies rewritePath to any bare "/dev/null" argument, since
// spec.md §4.E.2 requires the substitution both in redirect paths and as
// a literal argv entry.
func (d *devNullHandler) rewriteArgs(args []string) ([]string, error) {
	if !d.isWindows {
		return args, nil
	}
	out := make([]string, len(args))
	for i, a := range args {
		r, err := d.rewritePath(a)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

// cleanup removes every temp file this handler created, returning every
// removal failure folded together rather than stopping at the first one,
// so a caller logging the result sees the full picture. Called on every
// exit path from a pipeline invocation, per §5's resource-ownership rule.
func (d *devNullHandler) cleanup() error {
	var errs error
	for _, name := range d.created {
		if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
			errs = multierror.Append(errs, err)
		}
	}
	return errs
}
