// Package script assembles the shell script embedded in a test source
// file: it builds the ordered substitution table, scans directives with
// the directive package, folds RUN-line continuations, and applies the
// XFAIL/REQUIRES/END handling and resolution rules of spec.md §4.C,
// using the same ordered-table idiom as the rest of this core's
// substitution handling.
package script

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/please-build/dtcore/src/core"
	"github.com/please-build/dtcore/src/directive"
	"github.com/please-build/dtcore/src/subst"
)

// An UnresolvedError means the assembler could not produce a runnable
// script (no RUN line, or an unterminated continuation). See spec.md
// §4.C resolution rules 1-2 and §7's ParseError.
type UnresolvedError struct{ Message string }

func (e *UnresolvedError) Error() string { return e.Message }

// An UnsupportedError means the test requires a feature that isn't
// available. See spec.md §4.C resolution rule 3 and §7's FeatureMissing.
type UnsupportedError struct{ Message string }

func (e *UnsupportedError) Error() string { return e.Message }

// Assembled is the `(Script, tmpBase, execdir)` triple spec.md §4.C
// produces on success.
type Assembled struct {
	Lines   []string
	TmpBase string
	ExecDir string
	Xfails  []string
}

var (
	lineTokenRe  = regexp.MustCompile(`%\(line\)`)
	lineOffsetRe = regexp.MustCompile(`%\(line *([+-]) *(\d+)\)`)
)

// Assemble builds the script for the test file at loc, given the active
// configuration and any caller-provided extra substitutions. The
// %/s-family slash-normalized substitutions are always included.
func Assemble(loc core.SourceLocation, cfg *core.Config, extraSubstitutions []core.Substitution) (*Assembled, error) {
	ds, err := directive.All(loc.Path)
	if err != nil {
		return nil, err
	}

	substitutions := buildSubstitutions(loc, cfg, extraSubstitutions)

	var rawScript []string
	var xfails []string
	var requires []string

scan:
	for _, d := range ds {
		switch d.Kind {
		case core.KindRun:
			ln := strings.TrimRight(d.Rest, " \t\r")
			ln = lineTokenRe.ReplaceAllString(ln, strconv.Itoa(d.Line))
			ln = lineOffsetRe.ReplaceAllStringFunc(ln, func(m string) string {
				groups := lineOffsetRe.FindStringSubmatch(m)
				n, convErr := strconv.Atoi(groups[2])
				if convErr != nil {
					return m
				}
				if groups[1] == "+" {
					return strconv.Itoa(d.Line + n)
				}
				return strconv.Itoa(d.Line - n)
			})
			if len(rawScript) > 0 && strings.HasSuffix(rawScript[len(rawScript)-1], `\`) {
				prev := strings.TrimRight(rawScript[len(rawScript)-1][:len(rawScript[len(rawScript)-1])-1], " \t")
				rawScript[len(rawScript)-1] = prev + " " + strings.TrimLeft(ln, " \t")
			} else {
				rawScript = append(rawScript, ln)
			}
		case core.KindXFail:
			xfails = append(xfails, splitTrim(d.Rest)...)
		case core.KindRequires:
			requires = append(requires, splitTrim(d.Rest)...)
		case core.KindEnd:
			if strings.TrimSpace(d.Rest) == "" {
				break scan
			}
		default:
			return nil, fmt.Errorf("script: unknown directive kind %v at line %d", d.Kind, d.Line)
		}
	}

	for i, ln := range rawScript {
		rawScript[i] = strings.TrimSpace(subst.Apply(ln, substitutions, cfg.IsWindows))
	}

	if len(rawScript) == 0 {
		return nil, &UnresolvedError{Message: "Test has no run line!"}
	}
	if strings.HasSuffix(rawScript[len(rawScript)-1], `\`) {
		return nil, &UnresolvedError{Message: `Test has unterminated run lines (with '\')`}
	}

	var missing []string
	for _, r := range requires {
		if !cfg.Feature(r) {
			missing = append(missing, r)
		}
	}
	if len(missing) > 0 {
		return nil, &UnsupportedError{Message: "Test requires the following features: " + strings.Join(missing, ", ")}
	}

	return &Assembled{
		Lines:   rawScript,
		TmpBase: loc.TmpBase(),
		ExecDir: loc.ExecDir,
		Xfails:  xfails,
	}, nil
}

func splitTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func buildSubstitutions(loc core.SourceLocation, cfg *core.Config, extra []core.Substitution) []core.Substitution {
	sourcepath := loc.Path
	sourcedir := loc.SourceDir()
	tmpDir := loc.TmpDir()
	tmpBase := loc.TmpBase()

	subs := make([]core.Substitution, 0, len(extra)+len(cfg.Substitutions)+12)
	subs = append(subs, extra...)
	subs = append(subs, core.NewSubstitution(`%%`, "#_MARKER_#"))
	subs = append(subs, cfg.Substitutions...)
	subs = append(subs,
		core.NewSubstitution(`%s`, sourcepath),
		core.NewSubstitution(`%S`, sourcedir),
		core.NewSubstitution(`%p`, sourcedir),
		core.NewSubstitution(`%\{pathsep\}`, string(os.PathListSeparator)),
		core.NewSubstitution(`%t`, tmpBase+".tmp"),
		core.NewSubstitution(`%T`, tmpDir),
		core.NewSubstitution(`#_MARKER_#`, "%"),
	)
	subs = append(subs,
		core.NewSubstitution(`%/s`, core.Slashed(sourcepath)),
		core.NewSubstitution(`%/S`, core.Slashed(sourcedir)),
		core.NewSubstitution(`%/p`, core.Slashed(sourcedir)),
		core.NewSubstitution(`%/t`, core.Slashed(tmpBase)+".tmp"),
		core.NewSubstitution(`%/T`, core.Slashed(tmpDir)),
	)
	return subs
}
