// Package shsyntax defines the shell AST the internal executor consumes,
// and a narrow parser that produces it for the
// restricted command grammar this core supports. Spec.md §3 treats this
// AST as produced by an already-available collaborator; since no such
// collaborator ships in this module, shsyntax plays that role with a
// parser intentionally limited to the operators §1's Non-goals allow
// (`;`, `&&`, `||`, pipes, and the redirect forms of §3) and rejects
// everything else (`&`, subshells, command substitution, extended
// globs); plain glob characters are kept as literal text, unexpanded.
package shsyntax

// A Redirect is one file-descriptor redirection attached to a Command.
// See spec.md §3.
type Redirect struct {
	Kind RedirectKind
	// Fd is the redirected file descriptor (1 or 2 for Out, 0 for In,
	// the destination fd for DupFd).
	Fd int
	// SrcFd is the source descriptor for DupFd (e.g. `2>&1` has Fd=2,
	// SrcFd=1).
	SrcFd int
	// Path is the redirect target for Out/In/MergeOutErr.
	Path string
	// Append selects append mode ("a") over truncate ("w") for Out and
	// MergeOutErr.
	Append bool
}

// RedirectKind tags which Redirect variant is populated.
type RedirectKind int

const (
	RedirectOut RedirectKind = iota
	RedirectIn
	RedirectDupFd
	RedirectMergeOutErr
)

// A Command is one external program invocation with its argument vector
// and redirections, in the order they were written.
type Command struct {
	Args      []string
	Redirects []Redirect
}

// A Pipeline is one or more Commands connected by `|`, plus the two
// modifiers that change how its aggregate exit code is computed.
type Pipeline struct {
	Commands []Command
	// PipeErr corresponds to `set -o pipefail`: the aggregate exit
	// reflects every command, not just the last.
	PipeErr bool
	// Negate inverts the final exit code's zero/nonzero polarity (a
	// leading `!`).
	Negate bool
}

// SequenceOp is one of the three sequencing operators this core supports.
// `&` (background) is rejected by the parser entirely.
type SequenceOp int

const (
	OpSemicolon SequenceOp = iota
	OpAndAnd
	OpOrOr
)

// A Node is either a Sequence or a Pipeline. Exactly one of Seq/Pipe is
// non-nil.
type Node struct {
	Seq  *Sequence
	Pipe *Pipeline
}

// A Sequence combines two Nodes with one of `;`, `&&`, `||`.
type Sequence struct {
	Op  SequenceOp
	LHS Node
	RHS Node
}

// PipelineNode wraps p as a leaf Node.
func PipelineNode(p Pipeline) Node {
	return Node{Pipe: &p}
}

// SequenceNode wraps s as a Node.
func SequenceNode(s Sequence) Node {
	return Node{Seq: &s}
}
