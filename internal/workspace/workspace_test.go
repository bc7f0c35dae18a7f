package workspace

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestNewCreatesThreeSubtrees verifies the layout and its uniqueness prefix.
func TestNewCreatesThreeSubtrees(t *testing.T) {
	t.Parallel()

	l, err := New()
	require.NoError(t, err)

	defer l.Cleanup(context.Background(), false)

	require.True(t, strings.Contains(l.Root, "cursor-deb-"))

	for _, dir := range []string{l.Downloads, l.Extract, l.PkgRoot} {
		info, statErr := os.Stat(dir)
		require.NoError(t, statErr)
		require.True(t, info.IsDir())
	}
}

// TestCleanupRemovesRootAndIsIdempotent ensures repeated cleanup is harmless.
func TestCleanupRemovesRootAndIsIdempotent(t *testing.T) {
	t.Parallel()

	l, err := New()
	require.NoError(t, err)

	ctx := context.Background()
	l.Cleanup(ctx, false)
	l.Cleanup(ctx, false)

	_, err = os.Stat(l.Root)
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestCleanupHonorsKeepFlag ensures retention leaves the workspace in place.
func TestCleanupHonorsKeepFlag(t *testing.T) {
	t.Parallel()

	l, err := New()
	require.NoError(t, err)

	l.Cleanup(context.Background(), true)

	_, err = os.Stat(l.Root)
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(l.Root))
}
