package report

import (
	"testing"

	"github.com/please-build/dtcore/src/core"
	"github.com/stretchr/testify/assert"
)

func suiteFixture() TestSuite {
	s := TestSuite{Name: "example"}
	s.Add(
		TestCase{Name: "a", Result: core.Result{Status: core.StatusPass}},
		TestCase{Name: "b", Result: core.Result{Status: core.StatusXFail}},
		TestCase{Name: "c", Result: core.Result{Status: core.StatusFail}},
		TestCase{Name: "d", Result: core.Result{Status: core.StatusUnresolved}},
		TestCase{Name: "e", Result: core.Result{Status: core.StatusUnsupported}},
	)
	return s
}

func TestSuiteTallies(t *testing.T) {
	s := suiteFixture()
	assert.Equal(t, 5, s.Tests())
	assert.Equal(t, 2, s.Passes())
	assert.Equal(t, 1, s.Failures())
	assert.Equal(t, 1, s.Errors())
	assert.Equal(t, 1, s.Skips())
	assert.False(t, s.AllSucceeded())
}

func TestSuiteAllSucceededWhenOnlyPassesAndSkips(t *testing.T) {
	s := TestSuite{}
	s.Add(
		TestCase{Result: core.Result{Status: core.StatusPass}},
		TestCase{Result: core.Result{Status: core.StatusUnsupported}},
	)
	assert.True(t, s.AllSucceeded())
}

func TestSuiteCollapseMerges(t *testing.T) {
	a := TestSuite{Name: "a"}
	a.Add(TestCase{Name: "1", Result: core.Result{Status: core.StatusPass}})
	b := TestSuite{Name: "b"}
	b.Add(TestCase{Name: "2", Result: core.Result{Status: core.StatusFail}})

	a.Collapse(b)
	assert.Equal(t, 2, a.Tests())
	assert.Equal(t, 1, a.Failures())
}
