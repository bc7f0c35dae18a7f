package assemble

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFindIcon_PrefersKnownNames checks the ordered known-filename list wins
// over any PNG elsewhere in the tree.
func TestFindIcon_PrefersKnownNames(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "resources"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "resources", "aaa.png"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "code.png"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "cursor.png"), []byte("x"), 0o644))

	require.Equal(t, filepath.Join(root, "cursor.png"), FindIcon(root))
}

// TestFindIcon_FallsBackToFirstPNG checks the deterministic tree search.
func TestFindIcon_FallsBackToFirstPNG(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "z"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "z", "late.png"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "early.PNG"), []byte("x"), 0o644))

	require.Equal(t, filepath.Join(root, "a", "early.PNG"), FindIcon(root))
}

// TestFindIcon_NoneFound returns empty instead of failing.
func TestFindIcon_NoneFound(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "readme.txt"), []byte("x"), 0o644))

	require.Empty(t, FindIcon(root))
}
