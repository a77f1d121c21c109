package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	assert.True(t, names["serve"])
	assert.True(t, names["estimate"])
	assert.True(t, names["status"])
}

func TestEstimateFlags(t *testing.T) {
	flags := estimateCmd.Flags()

	for _, name := range []string{"goal", "question", "journey", "complexity", "data-size-mb", "out", "quick", "verbose"} {
		require.NotNil(t, flags.Lookup(name), "flag %s", name)
	}

	assert.Equal(t, "guided", flags.Lookup("journey").DefValue)
}

func TestStatusFlags(t *testing.T) {
	require.NotNil(t, statusCmd.Flags().Lookup("project"))
}
