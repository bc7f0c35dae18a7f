package validate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// installFakeDpkgDeb puts a scripted dpkg-deb first on PATH.
func installFakeDpkgDeb(t *testing.T, body string) {
	t.Helper()

	dir := t.TempDir()
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dpkg-deb"), []byte(script), 0o755))

	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

// TestValidate_MissingArtifact fails before invoking any tool.
func TestValidate_MissingArtifact(t *testing.T) {
	t.Parallel()

	err := Validate(context.Background(), filepath.Join(t.TempDir(), "absent.deb"), false)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrCorruptArtifact)
}

// TestValidate_WellFormedArtifact passes when the metadata read succeeds.
func TestValidate_WellFormedArtifact(t *testing.T) {
	installFakeDpkgDeb(t, `echo " Package: cursor-ide"; exit 0`)

	artifact := filepath.Join(t.TempDir(), "cursor-ide_1.0.0_amd64.deb")
	require.NoError(t, os.WriteFile(artifact, []byte("deb-bytes"), 0o644))

	require.NoError(t, Validate(context.Background(), artifact, true))
}

// TestValidate_CorruptArtifact maps a failed metadata read to the dedicated error.
func TestValidate_CorruptArtifact(t *testing.T) {
	installFakeDpkgDeb(t, `echo "is not a Debian format archive" >&2; exit 2`)

	artifact := filepath.Join(t.TempDir(), "broken.deb")
	require.NoError(t, os.WriteFile(artifact, []byte("junk"), 0o644))

	err := Validate(context.Background(), artifact, false)
	require.ErrorIs(t, err, ErrCorruptArtifact)
	require.Contains(t, err.Error(), "Debian format")
}
