package assemble

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/oshokin/cursor-deb/internal/config"
	"github.com/oshokin/cursor-deb/internal/logger"
)

// copyTree copies the extracted application tree into the install location
// using the selected strategy. Both strategies produce equivalent relative
// file sets; only copy-tool-specific metadata may differ.
func copyTree(ctx context.Context, strategy, src, dst string) error {
	switch strategy {
	case config.CopyStrategyRsync:
		return rsyncCopy(ctx, src, dst)
	case config.CopyStrategyNative:
		return nativeCopy(src, dst)
	default:
		return fmt.Errorf("unknown copy strategy %q", strategy)
	}
}

// rsyncCopy shells out to rsync in archive mode, preserving attributes.
// Source and destination are absolute; trailing slashes make rsync copy
// contents rather than the directory itself.
func rsyncCopy(ctx context.Context, src, dst string) error {
	args := []string{"-a", src + string(os.PathSeparator), dst + string(os.PathSeparator)}

	cmd := exec.CommandContext(ctx, "rsync", args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("rsync: %w: %s", err, strings.TrimSpace(string(output)))
	}

	logger.DebugKV(ctx, "Application tree copied", "strategy", config.CopyStrategyRsync, "dst", dst)

	return nil
}

// nativeCopy is the dependency-free recursive copy used when rsync is not
// available or the operator asked for it. Preserves file modes and symlinks.
func nativeCopy(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		target := filepath.Join(dst, rel)

		switch {
		case d.Type()&fs.ModeSymlink != 0:
			return copySymlink(path, target)
		case d.IsDir():
			info, infoErr := d.Info()
			if infoErr != nil {
				return infoErr
			}

			return os.MkdirAll(target, info.Mode().Perm())
		default:
			return copyFile(path, target)
		}
	})
}

func copySymlink(path, target string) error {
	link, err := os.Readlink(path)
	if err != nil {
		return err
	}

	// Re-copies overwrite stale links.
	_ = os.Remove(target)

	return os.Symlink(link, target)
}

func copyFile(path, target string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	source, err := os.Open(filepath.Clean(path))
	if err != nil {
		return err
	}

	defer func() {
		_ = source.Close()
	}()

	destination, err := os.OpenFile(filepath.Clean(target), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err = io.Copy(destination, source); err != nil {
		_ = destination.Close()

		return err
	}

	return destination.Close()
}
