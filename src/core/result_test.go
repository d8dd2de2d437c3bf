package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusString(t *testing.T) {
	assert.Equal(t, "PASS", StatusPass.String())
	assert.Equal(t, "XFAIL", StatusXFail.String())
	assert.Equal(t, "UNSUPPORTED", StatusUnsupported.String())
	assert.Equal(t, "UNRESOLVED", StatusUnresolved.String())
	assert.Equal(t, "FAIL", StatusFail.String())
}

func TestStatusFailure(t *testing.T) {
	assert.False(t, StatusPass.Failure())
	assert.False(t, StatusXFail.Failure())
	assert.False(t, StatusUnsupported.Failure())
	assert.True(t, StatusUnresolved.Failure())
	assert.True(t, StatusFail.Failure())
}
