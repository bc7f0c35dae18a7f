package cmd

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRootCommand_UnknownFlagIsUsageError ensures unknown flags fail instead
// of being ignored.
func TestRootCommand_UnknownFlagIsUsageError(t *testing.T) {
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"--definitely-not-a-flag"})

	require.Error(t, rootCmd.Execute())
}

// TestRootCommand_RejectsPositionalArgs keeps the CLI surface flags-only.
func TestRootCommand_RejectsPositionalArgs(t *testing.T) {
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"unexpected-arg"})

	require.Error(t, rootCmd.Execute())
}

// TestRootCommand_HelpSucceeds ensures help display is a zero-exit path.
// Runs last: the help flag sticks to the shared command after parsing.
func TestRootCommand_HelpSucceeds(t *testing.T) {
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"--help"})

	require.NoError(t, rootCmd.Execute())
}
