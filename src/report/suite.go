package report

import "github.com/please-build/dtcore/src/core"

// A TestCase pairs a test file's name with the core.Result running it
// produced.
type TestCase struct {
	Name   string
	Result core.Result
}

// Pass reports whether this case counts as a suite pass: PASS or XFAIL,
// per core.Status.Failure's polarity.
func (c TestCase) Pass() bool { return !c.Result.Status.Failure() && c.Result.Status != core.StatusUnsupported }

// Skip reports whether the case is UNSUPPORTED (a required feature was
// missing, or the suite config marks every test unsupported).
func (c TestCase) Skip() bool { return c.Result.Status == core.StatusUnsupported }

// Error reports whether the case failed to resolve at all (malformed
// directives, no RUN line), as opposed to running and failing.
func (c TestCase) Error() bool { return c.Result.Status == core.StatusUnresolved }

// Fail reports whether the case ran and its script exited non-zero.
func (c TestCase) Fail() bool { return c.Result.Status == core.StatusFail }

// A TestSuite accumulates TestCases across many directive-driven test
// files, using this core's PASS/XFAIL/UNSUPPORTED/UNRESOLVED/FAIL
// taxonomy in place of JUnit-style success/failure/error/skip.
type TestSuite struct {
	Name  string
	Cases []TestCase
}

// Add appends cases to the suite.
func (s *TestSuite) Add(cases ...TestCase) {
	s.Cases = append(s.Cases, cases...)
}

// Collapse merges another suite's cases into this one by appending them.
func (s *TestSuite) Collapse(incoming TestSuite) {
	s.Cases = append(s.Cases, incoming.Cases...)
}

// Tests returns the total number of cases in the suite.
func (s TestSuite) Tests() int { return len(s.Cases) }

// Passes returns the number of cases that passed (including XFAIL).
func (s TestSuite) Passes() int {
	n := 0
	for _, c := range s.Cases {
		if c.Pass() {
			n++
		}
	}
	return n
}

// Failures returns the number of cases whose script ran and exited
// non-zero.
func (s TestSuite) Failures() int {
	n := 0
	for _, c := range s.Cases {
		if c.Fail() {
			n++
		}
	}
	return n
}

// Errors returns the number of cases that never resolved to a script at
// all (malformed directives, missing RUN line).
func (s TestSuite) Errors() int {
	n := 0
	for _, c := range s.Cases {
		if c.Error() {
			n++
		}
	}
	return n
}

// Skips returns the number of UNSUPPORTED cases.
func (s TestSuite) Skips() int {
	n := 0
	for _, c := range s.Cases {
		if c.Skip() {
			n++
		}
	}
	return n
}

// AllSucceeded reports whether every case in the suite passed or was
// skipped.
func (s TestSuite) AllSucceeded() bool {
	for _, c := range s.Cases {
		if !c.Pass() && !c.Skip() {
			return false
		}
	}
	return true
}
