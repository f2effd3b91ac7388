package config_test

import (
	"testing"

	"github.com/evanw/jsfold/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestKnownGlobals(t *testing.T) {
	globals := config.ProcessKnownGlobals(nil)
	assert.True(t, globals.IsKnown([]string{"Math"}))
	assert.True(t, globals.IsKnown([]string{"Math", "PI"}))
	assert.True(t, globals.IsKnown([]string{"undefined"}))
	assert.False(t, globals.IsKnown([]string{"Math", "PI", "x"}))
	assert.False(t, globals.IsKnown([]string{"process"}))
	assert.False(t, globals.IsKnown(nil))

	extended := config.ProcessKnownGlobals([]string{"process.env.NODE_ENV"})
	assert.True(t, extended.IsKnown([]string{"process", "env", "NODE_ENV"}))
	assert.False(t, extended.IsKnown([]string{"process", "env"}))

	// The shared table isn't affected by extra chains
	assert.False(t, config.ProcessKnownGlobals(nil).IsKnown([]string{"process", "env", "NODE_ENV"}))
}

func TestParseMode(t *testing.T) {
	mode, ok := config.ParseMode("dce")
	assert.True(t, ok)
	assert.Equal(t, config.ModeDeadCodeOnly, mode)
	assert.Equal(t, "dce", mode.String())

	mode, ok = config.ParseMode("")
	assert.True(t, ok)
	assert.Equal(t, config.ModeFull, mode)

	_, ok = config.ParseMode("aggressive")
	assert.False(t, ok)
}
