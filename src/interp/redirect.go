package interp

import "github.com/please-build/dtcore/src/shsyntax"

// slotKind tags what a redirection-table entry currently holds.
type slotKind int

const (
	// slotInherit means this entry still carries one of the three
	// sentinel values "(0,)"/"(1,)"/(2,)" from spec.md §4.E.2: it has not
	// been redirected, or it was duplicated from a slot that itself was
	// still a sentinel. Index records *which* sentinel (0, 1 or 2) so
	// that "slot 2 holds sentinel (1,)" (the stderr-fused-into-stdout
	// case) can be told apart from "slot 2 holds its own sentinel (2,)".
	slotInherit slotKind = iota
	slotFile
)

type slot struct {
	kind   slotKind
	index  int // for slotInherit: which original fd sentinel this is
	path   string
	append bool
}

// newTable builds the initial redirection table: fd 0/1/2 each holding
// their own identity sentinel.
func newTable() map[int]slot {
	return map[int]slot{
		0: {kind: slotInherit, index: 0},
		1: {kind: slotInherit, index: 1},
		2: {kind: slotInherit, index: 2},
	}
}

// applyRedirects folds a Command's redirects left-to-right over table,
// later entries overriding earlier ones, per spec.md §4.E.2.
func applyRedirects(table map[int]slot, redirects []shsyntax.Redirect) {
	for _, r := range redirects {
		switch r.Kind {
		case shsyntax.RedirectOut:
			table[r.Fd] = slot{kind: slotFile, path: r.Path, append: r.Append}
		case shsyntax.RedirectIn:
			table[0] = slot{kind: slotFile, path: r.Path}
		case shsyntax.RedirectDupFd:
			// "Resolve DupFd(dst,src) by copying the current entry for fd
			// src" — a snapshot, not a live alias: later changes to src
			// don't retroactively affect dst.
			table[r.Fd] = table[r.SrcFd]
		case shsyntax.RedirectMergeOutErr:
			table[1] = slot{kind: slotFile, path: r.Path, append: r.Append}
			table[2] = slot{kind: slotFile, path: r.Path, append: r.Append}
		}
	}
}
