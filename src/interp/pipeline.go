package interp

import (
	"bytes"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
	"gopkg.in/op/go-logging.v1"

	"github.com/please-build/dtcore/src/core"
	"github.com/please-build/dtcore/src/shsyntax"
)

var log = logging.MustGetLogger("interp")

// An Executor walks a parsed shsyntax.Node and runs it without invoking a
// host shell, per spec.md §4.E. It owns no state across invocations;
// every call to Run is independent, matching spec.md §5's "no global
// mutable state beyond a process-wide PATH lookup" rule.
type Executor struct {
	cfg *core.Config
}

// New returns an Executor bound to cfg's environment (including its PATH)
// and IsWindows setting. Pipefail is taken from each parsed Pipeline's
// PipeErr, not from cfg.
func New(cfg *core.Config) *Executor {
	return &Executor{cfg: cfg}
}

// Run executes node in cwd and returns the aggregate exit code together
// with one core.ExecutionResult per command actually launched, in
// encounter order, per spec.md §4.E.3.
func (e *Executor) Run(node shsyntax.Node, cwd string) (int, []core.ExecutionResult, error) {
	switch {
	case node.Pipe != nil:
		return e.runPipeline(*node.Pipe, cwd)
	case node.Seq != nil:
		return e.runSequence(*node.Seq, cwd)
	default:
		return 127, nil, &InternalShellError{Message: "empty command"}
	}
}

func (e *Executor) runSequence(s shsyntax.Sequence, cwd string) (int, []core.ExecutionResult, error) {
	switch s.Op {
	case shsyntax.OpSemicolon:
		lhsExit, lhsResults, lhsErr := e.Run(s.LHS, cwd)
		if lhsErr != nil {
			if _, ok := lhsErr.(*Interrupted); ok {
				return lhsExit, lhsResults, lhsErr
			}
		}
		rhsExit, rhsResults, rhsErr := e.Run(s.RHS, cwd)
		return rhsExit, append(lhsResults, rhsResults...), rhsErr
	case shsyntax.OpAndAnd:
		lhsExit, lhsResults, lhsErr := e.Run(s.LHS, cwd)
		if lhsErr != nil {
			return lhsExit, lhsResults, lhsErr
		}
		if lhsExit != 0 {
			return lhsExit, lhsResults, nil
		}
		rhsExit, rhsResults, rhsErr := e.Run(s.RHS, cwd)
		return rhsExit, append(lhsResults, rhsResults...), rhsErr
	case shsyntax.OpOrOr:
		lhsExit, lhsResults, lhsErr := e.Run(s.LHS, cwd)
		if lhsErr != nil {
			if _, ok := lhsErr.(*InternalShellError); !ok {
				return lhsExit, lhsResults, lhsErr
			}
			// An InternalShellError already folds into lhsExit == 127, a
			// plain nonzero exit as far as `||` is concerned, so fall
			// through to the usual "run RHS on nonzero LHS" handling
			// instead of short-circuiting on the Go error value.
			lhsErr = nil
		}
		if lhsExit == 0 {
			return lhsExit, lhsResults, lhsErr
		}
		rhsExit, rhsResults, rhsErr := e.Run(s.RHS, cwd)
		return rhsExit, append(lhsResults, rhsResults...), rhsErr
	default:
		return 127, nil, &InternalShellError{Message: "unsupported shell operator: '&'"}
	}
}

// commandIO is the resolved plumbing for one spawned command.
type commandIO struct {
	cmd                 *exec.Cmd
	stdoutReaderForNext *os.File // read end handed to the next command's stdin; nil for the last command
	finalStdout         io.Reader
	finalStderr         io.Reader
	relabelStderrAsOut  bool
	divertedStderr      *os.File // non-final command's stderr, diverted to a temp file
	parentCloseAfterSpawn []*os.File
}

func (e *Executor) runPipeline(p shsyntax.Pipeline, cwd string) (int, []core.ExecutionResult, error) {
	dn := newDevNullHandler(e.cfg.IsWindows, os.TempDir())
	defer func() {
		if err := dn.cleanup(); err != nil {
			log.Warningf("failed to clean up /dev/null substitute file(s): %s", err)
		}
	}()
	pathEnv := extractPath(e.cfg.Environment)

	n := len(p.Commands)
	cmds := make([]*commandIO, 0, n)
	var input *os.File // read end feeding the next command's stdin

	cleanupFiles := func() {
		var errs error
		for _, c := range cmds {
			if c.divertedStderr != nil {
				c.divertedStderr.Close()
				if err := os.Remove(c.divertedStderr.Name()); err != nil && !os.IsNotExist(err) {
					errs = multierror.Append(errs, err)
				}
			}
		}
		if errs != nil {
			log.Warningf("failed to clean up diverted stderr temp file(s): %s", errs)
		}
	}
	defer cleanupFiles()

	for i, cmdSpec := range p.Commands {
		isLast := i == n-1
		table := newTable()
		applyRedirects(table, cmdSpec.Redirects)

		args, err := dn.rewriteArgs(cmdSpec.Args)
		if err != nil {
			failed := &InternalShellError{Message: err.Error()}
			return 127, appendFailedCommand(cmds, cmdSpec.Args, failed), failed
		}
		resolved, err := core.LookPath(args[0], cwd, pathEnv)
		if err != nil {
			failed := notFoundError(args[0])
			return 127, appendFailedCommand(cmds, args, failed), failed
		}

		c := exec.Command(resolved, args[1:]...)
		c.Dir = cwd
		c.Env = e.cfg.Environment

		cio := &commandIO{cmd: c}

		// stdin
		switch stdinSlot := table[0]; {
		case stdinSlot.kind == slotFile:
			path, rerr := dn.rewritePath(stdinSlot.path)
			if rerr != nil {
				return 127, resultsSoFar(cmds), &InternalShellError{Message: rerr.Error()}
			}
			f, oerr := os.Open(filepath.Join(cwd, path))
			if oerr != nil {
				if filepath.IsAbs(path) {
					f, oerr = os.Open(path)
				}
				if oerr != nil {
					return 127, resultsSoFar(cmds), &InternalShellError{Message: oerr.Error()}
				}
			}
			c.Stdin = f
			cio.parentCloseAfterSpawn = append(cio.parentCloseAfterSpawn, f)
		case input != nil:
			c.Stdin = input
			cio.parentCloseAfterSpawn = append(cio.parentCloseAfterSpawn, input)
		default:
			c.Stdin = nil // reads from the null device
		}

		// stdout
		var stdoutIsPipe bool
		var stdoutFile *os.File
		var stdoutFilePath string
		switch stdoutSlot := table[1]; {
		case stdoutSlot.kind == slotFile:
			path, rerr := dn.rewritePath(stdoutSlot.path)
			if rerr != nil {
				return 127, resultsSoFar(cmds), &InternalShellError{Message: rerr.Error()}
			}
			f, oerr := openRedirectFile(cwd, path, stdoutSlot.append)
			if oerr != nil {
				return 127, resultsSoFar(cmds), &InternalShellError{Message: oerr.Error()}
			}
			c.Stdout = f
			cio.parentCloseAfterSpawn = append(cio.parentCloseAfterSpawn, f)
			stdoutFile = f
			stdoutFilePath = resolvedRedirectPath(cwd, path)
		default:
			stdoutIsPipe = true
			r, w, perr := os.Pipe()
			if perr != nil {
				return 127, resultsSoFar(cmds), &InternalShellError{Message: perr.Error()}
			}
			c.Stdout = w
			cio.parentCloseAfterSpawn = append(cio.parentCloseAfterSpawn, w)
			if isLast {
				cio.finalStdout = r
			} else {
				cio.stdoutReaderForNext = r
			}
		}

		// stderr
		switch stderrSlot := table[2]; {
		case stderrSlot.kind == slotFile:
			path, rerr := dn.rewritePath(stderrSlot.path)
			if rerr != nil {
				return 127, resultsSoFar(cmds), &InternalShellError{Message: rerr.Error()}
			}
			if stdoutFile != nil && resolvedRedirectPath(cwd, path) == stdoutFilePath {
				// stdout and stderr resolved to the same file (the common
				// "> out 2>&1" idiom, once DupFd has copied stdout's
				// already-redirected file slot). Share one *os.File so both
				// streams share a single write offset, the way dup2 would —
				// two independent opens in truncate mode would each start at
				// offset 0 and clobber each other's bytes.
				c.Stderr = stdoutFile
				break
			}
			f, oerr := openRedirectFile(cwd, path, stderrSlot.append)
			if oerr != nil {
				return 127, resultsSoFar(cmds), &InternalShellError{Message: oerr.Error()}
			}
			c.Stderr = f
			cio.parentCloseAfterSpawn = append(cio.parentCloseAfterSpawn, f)
		case stderrSlot.kind == slotInherit && stderrSlot.index == 1:
			// Fuse stderr into stdout.
			if stdoutIsPipe {
				c.Stderr = c.Stdout
			} else {
				// stdout went to a file: promote stderr to its own pipe and
				// relabel its captured content as stdout in the report,
				// since that's the slot that would have carried it had
				// stdout not been diverted. See spec.md §4.E.2.
				r, w, perr := os.Pipe()
				if perr != nil {
					return 127, resultsSoFar(cmds), &InternalShellError{Message: perr.Error()}
				}
				c.Stderr = w
				cio.parentCloseAfterSpawn = append(cio.parentCloseAfterSpawn, w)
				cio.relabelStderrAsOut = true
				if isLast {
					cio.finalStdout = r
				} else {
					cio.stdoutReaderForNext = r
				}
			}
		default:
			if isLast {
				r, w, perr := os.Pipe()
				if perr != nil {
					return 127, resultsSoFar(cmds), &InternalShellError{Message: perr.Error()}
				}
				c.Stderr = w
				cio.parentCloseAfterSpawn = append(cio.parentCloseAfterSpawn, w)
				cio.finalStderr = r
			} else {
				// Deadlock avoidance: a non-final command's stderr, if
				// nobody drains it, must not be a live pipe — divert to a
				// temp file instead.
				tf, terr := os.CreateTemp(os.TempDir(), "stderr-*")
				if terr != nil {
					return 127, resultsSoFar(cmds), &InternalShellError{Message: terr.Error()}
				}
				c.Stderr = tf
				cio.divertedStderr = tf
			}
		}

		if err := c.Start(); err != nil {
			cleanupAfterSpawn(cio)
			return 127, resultsSoFar(cmds), notFoundError(args[0])
		}
		cleanupAfterSpawn(cio)
		cmds = append(cmds, cio)

		if cio.stdoutReaderForNext != nil {
			input = cio.stdoutReaderForNext
		} else {
			input = nil
		}
	}

	return e.reap(cmds, p)
}

func cleanupAfterSpawn(cio *commandIO) {
	for _, f := range cio.parentCloseAfterSpawn {
		f.Close()
	}
}

// reap waits on every spawned command in order, draining the final
// command's stdout/stderr concurrently (errgroup) to avoid deadlocking on
// a full pipe buffer, then folds per-command exits into the pipeline's
// aggregate per spec.md §4.E.2's pipe_err/negate rules.
func (e *Executor) reap(cmds []*commandIO, p shsyntax.Pipeline) (int, []core.ExecutionResult, error) {
	n := len(cmds)
	if n == 0 {
		return 0, nil, nil
	}

	var finalStdout, finalStderr bytes.Buffer
	last := cmds[n-1]
	var g errgroup.Group
	if last.finalStdout != nil {
		r := last.finalStdout
		g.Go(func() error {
			_, err := io.Copy(&finalStdout, r)
			r.Close()
			return err
		})
	}
	if last.finalStderr != nil {
		r := last.finalStderr
		g.Go(func() error {
			_, err := io.Copy(&finalStderr, r)
			r.Close()
			return err
		})
	}
	drainErr := g.Wait()

	results := make([]core.ExecutionResult, 0, n)
	exits := make([]int, 0, n)
	var interrupted bool

	for i, cio := range cmds {
		err := cio.cmd.Wait()
		exit := exitCodeOf(err)
		if wasInterrupted(err) {
			interrupted = true
		}

		var stdout, stderr string
		if i == n-1 {
			if last.relabelStderrAsOut {
				stdout = decode(finalStdout.Bytes()) + decode(finalStderr.Bytes())
			} else {
				stdout = decode(finalStdout.Bytes())
				stderr = decode(finalStderr.Bytes())
			}
		}
		if cio.divertedStderr != nil {
			// Only safe to rewind and read once this specific child has
			// exited — it may still be writing until Wait returns.
			cio.divertedStderr.Seek(0, io.SeekStart)
			b, _ := io.ReadAll(cio.divertedStderr)
			stderr = decode(b)
		}

		results = append(results, core.ExecutionResult{
			Command:  strings.Join(cio.cmd.Args, " "),
			Stdout:   stdout,
			Stderr:   stderr,
			ExitCode: exit,
		})
		exits = append(exits, exit)
	}

	if interrupted {
		return 0, results, &Interrupted{}
	}
	if drainErr != nil {
		return 127, results, &InternalShellError{Message: drainErr.Error()}
	}

	return aggregateExit(exits, p.PipeErr, p.Negate), results, nil
}

func resultsSoFar(cmds []*commandIO) []core.ExecutionResult {
	out := make([]core.ExecutionResult, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, core.ExecutionResult{Command: strings.Join(c.cmd.Args, " ")})
	}
	return out
}

// appendFailedCommand extends resultsSoFar(cmds) with a synthetic result
// for the command whose setup failed before it could even be spawned, so
// failing's message still lands in the results list per spec.md §7 instead
// of being dropped on the floor.
func appendFailedCommand(cmds []*commandIO, args []string, failed *InternalShellError) []core.ExecutionResult {
	return append(resultsSoFar(cmds), core.ExecutionResult{
		Command:  strings.Join(args, " "),
		Stderr:   failed.Message,
		ExitCode: 127,
	})
}

func openRedirectFile(cwd, path string, appendMode bool) (*os.File, error) {
	full := path
	if !filepath.IsAbs(path) {
		full = filepath.Join(cwd, path)
	}
	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(full, flags, 0644)
	if err != nil {
		return nil, err
	}
	if appendMode {
		// Workaround for a historical platform bug: some hosts require an
		// explicit seek-to-end after opening in append mode.
		f.Seek(0, io.SeekEnd)
	}
	return f, nil
}

// resolvedRedirectPath normalizes a redirect path the same way
// openRedirectFile resolves it, so two redirects naming the same file can
// be compared for identity without opening either.
func resolvedRedirectPath(cwd, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(cwd, path)
}

func decode(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	// Platform-chosen fallback: pass the bytes through as Latin-1 rather
	// than losing data to replacement characters.
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}

func extractPath(env []string) string {
	for _, kv := range env {
		if strings.HasPrefix(kv, "PATH=") {
			return strings.TrimPrefix(kv, "PATH=")
		}
	}
	return os.Getenv("PATH")
}
