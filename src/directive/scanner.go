// Package directive extracts RUN/XFAIL/REQUIRES/END directive lines out of
// a test source file. It deliberately works on raw bytes rather than a
// decoded string, using byte-level regex tables over a line-oriented
// bufio.Scanner since the text being matched can't be trusted to be
// valid UTF-8.
package directive

import (
	"fmt"
	"os"
	"regexp"

	"github.com/please-build/dtcore/src/core"
	"gopkg.in/op/go-logging.v1"
)

var log = logging.MustGetLogger("directive")

// directiveLine matches one directive occurrence: a recognised keyword
// followed by the remainder of the line, up to and including the
// terminating newline. See spec.md §4.A.
var directiveLine = regexp.MustCompile(`(RUN:|XFAIL:|REQUIRES:|END\.)(.*)\n`)

// A Scanner yields the Directive values found in one source file, in file
// order, computing line numbers from `\n` counts rather than trusting any
// text decoder.
type Scanner struct {
	data    []byte
	matches [][]int
	pos     int
	// line is the 1-based line number of the end of the previous match;
	// scanning resumes counting `\n` bytes from there.
	line    int
	lastEnd int
}

// NewScanner reads path as raw bytes and prepares a Scanner over it. The
// read is not subject to any text/encoding conversion, per §4.A.
func NewScanner(path string) (*Scanner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("directive: reading %s: %w", path, err)
	}
	return &Scanner{
		data:    data,
		matches: directiveLine.FindAllSubmatchIndex(data, -1),
		line:    1,
	}, nil
}

// Next returns the next Directive, or ok == false once the source is
// exhausted. A non-nil error means a directive line could not be decoded
// as ASCII and the scan cannot continue reliably; per §4.A this is the
// implementer's choice, and here it's treated as fatal since a directive
// that can't be read as ASCII can't be trusted to carry a real keyword.
func (s *Scanner) Next() (core.Directive, bool, error) {
	if s.pos >= len(s.matches) {
		return core.Directive{}, false, nil
	}
	m := s.matches[s.pos]
	s.pos++

	// m layout: [wholeStart, wholeEnd, kwStart, kwEnd, restStart, restEnd]
	s.line += countNewlines(s.data[s.lastEnd:m[0]])
	line := s.line
	s.lastEnd = m[1]
	// The match itself consumes exactly one more newline, attributed to
	// the directive's own line.
	s.line++

	kwBytes := s.data[m[2]:m[3]]
	restBytes := s.data[m[4]:m[5]]
	if !isASCII(kwBytes) || !isASCII(restBytes) {
		return core.Directive{}, false, fmt.Errorf("directive: non-ASCII directive line at %s:%d", "<source>", line)
	}

	kind, err := kindOf(string(kwBytes))
	if err != nil {
		return core.Directive{}, false, err
	}
	return core.Directive{
		Line: line,
		Kind: kind,
		Rest: string(restBytes),
	}, true, nil
}

func kindOf(keyword string) (core.DirectiveKind, error) {
	switch keyword {
	case "RUN:":
		return core.KindRun, nil
	case "XFAIL:":
		return core.KindXFail, nil
	case "REQUIRES:":
		return core.KindRequires, nil
	case "END.":
		return core.KindEnd, nil
	default:
		// directiveLine's own alternation can't actually produce anything
		// else, but spec.md §4.C requires any other keyword kind be a
		// fatal parse error, so we keep this arm rather than panicking.
		return 0, fmt.Errorf("directive: unknown directive keyword %q", keyword)
	}
}

func countNewlines(b []byte) int {
	n := 0
	for _, c := range b {
		if c == '\n' {
			n++
		}
	}
	return n
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c > 0x7f {
			return false
		}
	}
	return true
}

// All scans the whole source at path and returns its directives in order.
// Most callers want this rather than driving Next themselves.
func All(path string) ([]core.Directive, error) {
	s, err := NewScanner(path)
	if err != nil {
		return nil, err
	}
	var out []core.Directive
	for {
		d, ok, err := s.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		out = append(out, d)
	}
	log.Debugf("scanned %d directives from %s", len(out), path)
	return out, nil
}
