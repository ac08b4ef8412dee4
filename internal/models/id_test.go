package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID_Prefix(t *testing.T) {
	id := NewID(PrefixRoutine)
	assert.True(t, strings.HasPrefix(id, "rut_"))
	assert.Greater(t, len(id), len("rut_"))
}

func TestNewID_UniqueInTightLoop(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 10000; i++ {
		id := NewID(PrefixSet)
		_, dup := seen[id]
		assert.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}
