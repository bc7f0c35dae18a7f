package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"

	"github.com/oshokin/cursor-deb/internal/logger"
	"github.com/oshokin/cursor-deb/internal/platform"
	"github.com/oshokin/cursor-deb/internal/service/assemble"
)

// ErrPackaging is returned when the packaging tool fails and every fallback
// strategy has been exhausted.
var ErrPackaging = errors.New("package build failed")

// ArtifactName derives the deterministic artifact filename from the package
// name, version label and architecture tag.
func ArtifactName(version, arch string) string {
	return fmt.Sprintf("%s_%s_%s.deb", assemble.PackageName, version, arch)
}

// strategy is one way of invoking the packaging tool. Strategies are tried in
// a fixed order; the first success wins. This is not a retry of the same
// operation: each entry targets a distinct failure class (ownership problems
// in sandboxed environments for fakeroot, compressor failures for -Znone).
type strategy struct {
	// name identifies the strategy in logs.
	name string
	// available reports whether the strategy can run on this host.
	available func() bool
	// command builds the packaging invocation for the strategy.
	command func(ctx context.Context, pkgRoot, dest string) *exec.Cmd
}

// strategies returns the fixed, bounded fallback list.
func strategies(jobs int) []strategy {
	return []strategy{
		{
			name:      "dpkg-deb xz",
			available: func() bool { return true },
			command: func(ctx context.Context, pkgRoot, dest string) *exec.Cmd {
				cmd := exec.CommandContext(ctx, "dpkg-deb", "--build", "--root-owner-group", "-Zxz", pkgRoot, dest)
				if jobs > 0 {
					cmd.Env = append(os.Environ(), fmt.Sprintf("XZ_OPT=-T%d", jobs))
				}

				return cmd
			},
		},
		{
			name:      "fakeroot dpkg-deb",
			available: func() bool { return platform.HasTool("fakeroot") },
			command: func(ctx context.Context, pkgRoot, dest string) *exec.Cmd {
				return exec.CommandContext(ctx, "fakeroot", "dpkg-deb", "--build", "--root-owner-group", pkgRoot, dest)
			},
		},
		{
			name:      "dpkg-deb uncompressed",
			available: func() bool { return true },
			command: func(ctx context.Context, pkgRoot, dest string) *exec.Cmd {
				return exec.CommandContext(ctx, "dpkg-deb", "--build", "-Znone", pkgRoot, dest)
			},
		},
	}
}

// Build produces the final artifact in outputDir. The package is built under
// a temporary name and renamed into place on success, so a failed run never
// leaves a partial artifact in the output directory.
func Build(ctx context.Context, pkgRoot, outputDir, version, arch string, jobs int) (string, error) {
	ctx = logger.WithName(ctx, "build")

	artifact := filepath.Join(outputDir, ArtifactName(version, arch))
	partial := artifact + ".partial"

	var attempts error

	for _, s := range strategies(jobs) {
		if !s.available() {
			logger.DebugKV(ctx, "Skipping unavailable build strategy", "strategy", s.name)

			continue
		}

		logger.InfoKV(ctx, "Building package", "strategy", s.name, "artifact", artifact)

		output, err := s.command(ctx, pkgRoot, partial).CombinedOutput()
		if err == nil {
			if err = os.Rename(partial, artifact); err != nil {
				return "", fmt.Errorf("%w: place artifact: %s", ErrPackaging, err)
			}

			logger.InfoKV(ctx, "Package built", "strategy", s.name, "artifact", artifact)

			return artifact, nil
		}

		logger.WarnKV(ctx, "Build strategy failed",
			"strategy", s.name, "error", err, "output", strings.TrimSpace(string(output)))

		attempts = multierr.Append(attempts, fmt.Errorf("%s: %w", s.name, err))

		// A failed attempt must not leak its partial output.
		_ = os.Remove(partial)
	}

	return "", fmt.Errorf("%w: %s", ErrPackaging, attempts)
}
