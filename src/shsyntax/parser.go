package shsyntax

import (
	"fmt"
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Parse turns a RUN line into the Sequence/Pipeline AST this core's
// executors consume, using mvdan.cc/sh/v3/syntax (the shfmt/gosh parser,
// also used elsewhere in the pack for shell formatting) as the real
// grammar rather than a hand-rolled one. It accepts exactly the subset
// spec.md §1 scopes in: `;`, `&&`, `||`, `|` pipelines, simple commands
// with literal/quoted arguments, and the redirect forms of §3. Anything
// else recognised by the underlying grammar — background jobs, subshells,
// command substitution, parameter expansion, extended globs, control-flow
// keywords — is a parse error here, matching the Non-goals. Plain glob
// characters such as `*` or `?` are not rejected: they stay in the
// argument as literal text and are never expanded.
//
// pipefail is the configuration-level `set -o pipefail` flag (spec.md
// §4.C passes `test.config.pipefail` in, it is not inferred from the
// line's own syntax) and is stamped onto every Pipeline produced.
func Parse(line string, pipefail bool) (Node, error) {
	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
	file, err := parser.Parse(strings.NewReader(line), "")
	if err != nil {
		return Node{}, fmt.Errorf("shsyntax: %w", err)
	}
	if len(file.Stmts) == 0 {
		return Node{}, fmt.Errorf("shsyntax: empty command")
	}

	node, err := convertStmt(file.Stmts[0], pipefail)
	if err != nil {
		return Node{}, err
	}
	for _, s := range file.Stmts[1:] {
		rhs, err := convertStmt(s, pipefail)
		if err != nil {
			return Node{}, err
		}
		node = SequenceNode(Sequence{Op: OpSemicolon, LHS: node, RHS: rhs})
	}
	return node, nil
}

func convertStmt(s *syntax.Stmt, pipefail bool) (Node, error) {
	if s.Background {
		return Node{}, fmt.Errorf("unsupported shell operator: '&'")
	}

	switch cmd := s.Cmd.(type) {
	case *syntax.BinaryCmd:
		switch cmd.Op {
		case syntax.AndStmt:
			lhs, err := convertStmt(cmd.X, pipefail)
			if err != nil {
				return Node{}, err
			}
			rhs, err := convertStmt(cmd.Y, pipefail)
			if err != nil {
				return Node{}, err
			}
			return SequenceNode(Sequence{Op: OpAndAnd, LHS: lhs, RHS: rhs}), nil
		case syntax.OrStmt:
			lhs, err := convertStmt(cmd.X, pipefail)
			if err != nil {
				return Node{}, err
			}
			rhs, err := convertStmt(cmd.Y, pipefail)
			if err != nil {
				return Node{}, err
			}
			return SequenceNode(Sequence{Op: OpOrOr, LHS: lhs, RHS: rhs}), nil
		case syntax.Pipe, syntax.PipeAll:
			cmds, err := flattenPipeline(s, pipefail)
			if err != nil {
				return Node{}, err
			}
			return PipelineNode(Pipeline{Commands: cmds, PipeErr: pipefail, Negate: s.Negated}), nil
		default:
			return Node{}, fmt.Errorf("shsyntax: unsupported binary operator %v", cmd.Op)
		}
	case *syntax.CallExpr:
		c, err := convertCall(s, cmd)
		if err != nil {
			return Node{}, err
		}
		return PipelineNode(Pipeline{Commands: []Command{c}, PipeErr: pipefail, Negate: s.Negated}), nil
	default:
		return Node{}, fmt.Errorf("shsyntax: unsupported command form %T (subshells, control-flow keywords and function declarations are out of scope)", cmd)
	}
}

// flattenPipeline walks a left-associative chain of Pipe/PipeAll
// BinaryCmds into an ordered list of Commands. Redirects on intermediate
// segments attach to their own *syntax.Stmt, which this walk visits
// individually.
func flattenPipeline(s *syntax.Stmt, pipefail bool) ([]Command, error) {
	bc, ok := s.Cmd.(*syntax.BinaryCmd)
	if !ok {
		return singleCommand(s)
	}
	if bc.Op != syntax.Pipe && bc.Op != syntax.PipeAll {
		return nil, fmt.Errorf("shsyntax: mixed pipeline and %v inside one pipeline segment", bc.Op)
	}
	left, err := flattenPipeline(bc.X, pipefail)
	if err != nil {
		return nil, err
	}
	right, err := flattenPipeline(bc.Y, pipefail)
	if err != nil {
		return nil, err
	}
	return append(left, right...), nil
}

func singleCommand(s *syntax.Stmt) ([]Command, error) {
	call, ok := s.Cmd.(*syntax.CallExpr)
	if !ok {
		return nil, fmt.Errorf("shsyntax: unsupported command form %T in pipeline segment", s.Cmd)
	}
	c, err := convertCall(s, call)
	if err != nil {
		return nil, err
	}
	return []Command{c}, nil
}

func convertCall(s *syntax.Stmt, call *syntax.CallExpr) (Command, error) {
	if len(call.Assigns) > 0 {
		return Command{}, fmt.Errorf("shsyntax: inline variable assignments are not supported")
	}
	args := make([]string, 0, len(call.Args))
	for _, w := range call.Args {
		lit, err := wordLiteral(w)
		if err != nil {
			return Command{}, err
		}
		args = append(args, lit)
	}
	if len(args) == 0 {
		return Command{}, fmt.Errorf("shsyntax: empty command")
	}
	redirects, err := convertRedirects(s.Redirs)
	if err != nil {
		return Command{}, err
	}
	return Command{Args: args, Redirects: redirects}, nil
}

// wordLiteral renders a Word to its literal text, refusing any part that
// would require variable expansion, command substitution, arithmetic
// expansion or extended globbing to resolve — all excluded by the
// Non-goals. Plain glob characters arrive inside literal parts and are
// kept as-is.
func wordLiteral(w *syntax.Word) (string, error) {
	var b strings.Builder
	for _, part := range w.Parts {
		if err := literalPart(part, &b); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func literalPart(part syntax.WordPart, b *strings.Builder) error {
	switch p := part.(type) {
	case *syntax.Lit:
		b.WriteString(p.Value)
	case *syntax.SglQuoted:
		b.WriteString(p.Value)
	case *syntax.DblQuoted:
		for _, inner := range p.Parts {
			if err := literalPart(inner, b); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("shsyntax: unsupported word expansion %T (variable/command substitution and globbing are out of scope)", part)
	}
	return nil
}

func convertRedirects(redirs []*syntax.Redirect) ([]Redirect, error) {
	out := make([]Redirect, 0, len(redirs))
	for _, r := range redirs {
		cr, err := convertRedirect(r)
		if err != nil {
			return nil, err
		}
		out = append(out, cr)
	}
	return out, nil
}

func convertRedirect(r *syntax.Redirect) (Redirect, error) {
	fd := defaultFd(r.Op)
	if r.N != nil {
		n, err := strconv.Atoi(r.N.Value)
		if err != nil {
			return Redirect{}, fmt.Errorf("shsyntax: non-numeric redirect fd %q", r.N.Value)
		}
		fd = n
	}

	switch r.Op {
	case syntax.RdrOut:
		path, err := wordLiteral(r.Word)
		if err != nil {
			return Redirect{}, err
		}
		return Redirect{Kind: RedirectOut, Fd: fd, Path: path, Append: false}, nil
	case syntax.AppOut:
		path, err := wordLiteral(r.Word)
		if err != nil {
			return Redirect{}, err
		}
		return Redirect{Kind: RedirectOut, Fd: fd, Path: path, Append: true}, nil
	case syntax.RdrIn:
		path, err := wordLiteral(r.Word)
		if err != nil {
			return Redirect{}, err
		}
		return Redirect{Kind: RedirectIn, Fd: 0, Path: path}, nil
	case syntax.DplOut, syntax.DplIn:
		lit, err := wordLiteral(r.Word)
		if err != nil {
			return Redirect{}, err
		}
		src, err := strconv.Atoi(lit)
		if err != nil {
			return Redirect{}, fmt.Errorf("shsyntax: unsupported fd duplication target %q", lit)
		}
		return Redirect{Kind: RedirectDupFd, Fd: fd, SrcFd: src}, nil
	case syntax.RdrAll:
		path, err := wordLiteral(r.Word)
		if err != nil {
			return Redirect{}, err
		}
		return Redirect{Kind: RedirectMergeOutErr, Path: path, Append: false}, nil
	case syntax.AppAll:
		path, err := wordLiteral(r.Word)
		if err != nil {
			return Redirect{}, err
		}
		return Redirect{Kind: RedirectMergeOutErr, Path: path, Append: true}, nil
	default:
		return Redirect{}, fmt.Errorf("shsyntax: unsupported redirect operator %v", r.Op)
	}
}

func defaultFd(op syntax.RedirOperator) int {
	switch op {
	case syntax.RdrIn, syntax.DplIn:
		return 0
	default:
		return 1
	}
}
