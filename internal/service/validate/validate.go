package validate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/oshokin/cursor-deb/internal/logger"
)

// ErrCorruptArtifact is returned when the packaging tool cannot read the
// artifact's own metadata. The format's consistency check is authoritative
// for structural validity, so no separate checksum comparison is performed.
var ErrCorruptArtifact = errors.New("artifact failed structural check")

// Validate confirms the produced artifact is well-formed and reports its
// size. In verbose mode the full package metadata is logged as well.
func Validate(ctx context.Context, artifactPath string, verbose bool) error {
	ctx = logger.WithName(ctx, "validate")

	info, err := os.Stat(artifactPath)
	if err != nil {
		return fmt.Errorf("artifact missing: %w", err)
	}

	output, err := exec.CommandContext(ctx, "dpkg-deb", "--info", artifactPath).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s: %s", ErrCorruptArtifact, err, strings.TrimSpace(string(output)))
	}

	logger.InfoKV(ctx, "Artifact validated",
		"path", artifactPath, "size_bytes", info.Size())

	if verbose {
		logger.Infof(ctx, "Package metadata:\n%s", strings.TrimSpace(string(output)))
	}

	return nil
}
