package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/oshokin/cursor-deb/internal/logger"
)

// subdirPermissions is used for the staging subtrees inside the workspace.
const subdirPermissions = 0o755

// Layout is the uniquely-named temporary directory owning every intermediate
// path of a conversion run. Exactly one Layout exists per run; nothing
// outside it is written until the final artifact is placed in the output
// directory.
type Layout struct {
	// Root is the workspace directory itself.
	Root string
	// Downloads is the staging area for the fetched application image.
	Downloads string
	// Extract is the working directory the image is unpacked into.
	Extract string
	// PkgRoot is the staging area for the assembled package tree.
	PkgRoot string

	// cleanupOnce guarantees the removal runs at most once per Layout.
	cleanupOnce sync.Once
}

// New allocates a fresh workspace with its three staging subtrees.
// Uniqueness of the root name is what makes concurrent independent runs safe.
func New() (*Layout, error) {
	root, err := os.MkdirTemp("", "cursor-deb-")
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	l := &Layout{
		Root:      root,
		Downloads: filepath.Join(root, "downloads"),
		Extract:   filepath.Join(root, "extract"),
		PkgRoot:   filepath.Join(root, "pkgroot"),
	}

	for _, dir := range []string{l.Downloads, l.Extract, l.PkgRoot} {
		if err := os.MkdirAll(dir, subdirPermissions); err != nil {
			_ = os.RemoveAll(root)

			return nil, fmt.Errorf("create workspace subtree %s: %w", dir, err)
		}
	}

	return l, nil
}

// Cleanup removes the workspace unless retention was requested. It is
// idempotent: additional calls are no-ops, so it can be wired to both the
// normal return path and the signal handler.
func (l *Layout) Cleanup(ctx context.Context, keep bool) {
	l.cleanupOnce.Do(func() {
		if keep {
			logger.InfoKV(ctx, "Keeping workspace for inspection", "path", l.Root)

			return
		}

		if err := os.RemoveAll(l.Root); err != nil {
			logger.WarnKV(ctx, "Could not remove workspace", "path", l.Root, "error", err)

			return
		}

		logger.DebugKV(ctx, "Workspace removed", "path", l.Root)
	})
}
