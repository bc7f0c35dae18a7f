package assemble

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/oshokin/cursor-deb/internal/logger"
)

// knownIconNames are checked in order at the extraction root before falling
// back to a tree-wide search.
var knownIconNames = []string{
	"cursor.png",
	"code.png",
	"co.anysphere.cursor.png",
	".DirIcon",
}

// FindIcon locates an application icon in the extracted tree: first by the
// ordered list of known filenames at the root, then the first PNG found by a
// depth-first walk. An empty result means no icon; the caller records a
// warning and proceeds, never fails.
func FindIcon(root string) string {
	for _, name := range knownIconNames {
		candidate := filepath.Join(root, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}

	var found string

	// WalkDir visits entries in lexical order, so the fallback is deterministic.
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // Unreadable subtrees never fail icon discovery.
		}

		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".png") {
			found = path

			return filepath.SkipAll
		}

		return nil
	})

	return found
}

// installIcon places the discovered icon into the hicolor theme directory.
// Missing icons are a warning, not a failure.
func installIcon(ctx context.Context, extractionRoot, pkgRoot string) error {
	icon := FindIcon(extractionRoot)
	if icon == "" {
		logger.Warn(ctx, "No application icon found in extracted tree, packaging without one")

		return nil
	}

	target := filepath.Join(pkgRoot, filepath.FromSlash(iconInstallDir), PackageName+".png")
	if err := copyFile(icon, target); err != nil {
		return err
	}

	logger.DebugKV(ctx, "Icon installed", "source", icon)

	return nil
}
