package subst

import (
	"testing"

	"github.com/please-build/dtcore/src/core"
	"github.com/stretchr/testify/assert"
)

func TestApplyOrderedRewrite(t *testing.T) {
	subs := []core.Substitution{
		core.NewSubstitution(`%s`, "/src/test.c"),
		core.NewSubstitution(`%t`, "/tmp/test.tmp"),
	}
	got := Apply("cc %s -o %t", subs, false)
	assert.Equal(t, "cc /src/test.c -o /tmp/test.tmp", got)
}

func TestApplyLaterRuleSeesEarlierOutput(t *testing.T) {
	subs := []core.Substitution{
		core.NewSubstitution(`%%`, "#_MARKER_#"),
		core.NewSubstitution(`#_MARKER_#`, "%"),
	}
	got := Apply("echo 50%%", subs, false)
	assert.Equal(t, "echo 50%", got)
}

func TestApplyPreservesWindowsPathBackslashesLiterally(t *testing.T) {
	subs := []core.Substitution{
		core.NewSubstitution(`%p`, `C:\src\dir`),
	}
	got := Apply(`type %p\file.txt`, subs, true)
	assert.Equal(t, `type C:\src\dir\file.txt`, got)
}

func TestApplyNoSubstitutions(t *testing.T) {
	got := Apply("echo hello", nil, false)
	assert.Equal(t, "echo hello", got)
}
