package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeedsUpdate(t *testing.T) {
	assert.True(t, NeedsUpdate("1.4.0", "9.9"))
	assert.False(t, NeedsUpdate("9.9", "9.9"))
	assert.False(t, NeedsUpdate("9.9", " 9.9 "))
	assert.False(t, NeedsUpdate("1.4.0", ""), "unknown latest never asks for refresh")
}
