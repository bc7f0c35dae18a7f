package assemble

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/oshokin/cursor-deb/internal/logger"
)

const (
	// PackageName is the Debian package name of the repackaged application.
	PackageName = "cursor-ide"

	// InstallPrefix is where the application tree lands on the target system.
	InstallPrefix = "/opt/cursor-ide"

	// EntryPoint is the application entry point inside the install prefix.
	EntryPoint = InstallPrefix + "/AppRun"

	// dirPermissions is used for every directory in the package skeleton.
	dirPermissions = 0o755

	// scriptPermissions marks generated launcher and maintenance scripts executable.
	scriptPermissions = 0o755

	// textPermissions is used for generated non-executable text artifacts.
	textPermissions = 0o644

	// kibibyte converts byte counts to the KiB unit dpkg expects.
	kibibyte = 1024
)

// ErrAssembly is returned for any filesystem failure while staging the package tree.
var ErrAssembly = errors.New("package tree assembly failed")

// Options are the inputs for a package tree assembly.
type Options struct {
	// ExtractionRoot is the unpacked application tree.
	ExtractionRoot string
	// PkgRoot is the staging directory the tree is assembled into.
	PkgRoot string
	// Version is the version label stamped into the control metadata.
	Version string
	// Architecture is the Debian architecture tag.
	Architecture string
	// CopyStrategy selects rsync or the native recursive copy.
	CopyStrategy string
}

// Relative locations inside the package tree.
const (
	controlDir      = "DEBIAN"
	binDir          = "usr/bin"
	applicationsDir = "usr/share/applications"
	iconInstallDir  = "usr/share/icons/hicolor/256x256/apps"
)

// Assemble builds the complete package tree: skeleton, application copy,
// launcher, desktop entry, icon, control metadata and maintenance scripts.
// It returns the package tree root ready for the builder.
func Assemble(ctx context.Context, opts *Options) (string, error) {
	ctx = logger.WithName(ctx, "assemble")

	logger.InfoKV(ctx, "Assembling package tree",
		"root", opts.PkgRoot, "strategy", opts.CopyStrategy)

	if err := createSkeleton(opts.PkgRoot); err != nil {
		return "", fmt.Errorf("%w: %s", ErrAssembly, err)
	}

	installRoot := filepath.Join(opts.PkgRoot, filepath.FromSlash("opt"), PackageName)
	if err := copyTree(ctx, opts.CopyStrategy, opts.ExtractionRoot, installRoot); err != nil {
		return "", fmt.Errorf("%w: copy application tree: %s", ErrAssembly, err)
	}

	if err := writeLauncher(opts.PkgRoot); err != nil {
		return "", fmt.Errorf("%w: %s", ErrAssembly, err)
	}

	if err := installIcon(ctx, opts.ExtractionRoot, opts.PkgRoot); err != nil {
		return "", fmt.Errorf("%w: %s", ErrAssembly, err)
	}

	if err := writeDesktopEntry(opts.PkgRoot); err != nil {
		return "", fmt.Errorf("%w: %s", ErrAssembly, err)
	}

	if err := writeControl(ctx, opts); err != nil {
		return "", fmt.Errorf("%w: %s", ErrAssembly, err)
	}

	if err := writeMaintenanceScripts(opts.PkgRoot); err != nil {
		return "", fmt.Errorf("%w: %s", ErrAssembly, err)
	}

	logger.Info(ctx, "Package tree assembled")

	return opts.PkgRoot, nil
}

// createSkeleton lays out the fixed target-package directory structure.
func createSkeleton(pkgRoot string) error {
	for _, dir := range []string{
		controlDir,
		binDir,
		applicationsDir,
		iconInstallDir,
		filepath.Join("opt", PackageName),
	} {
		if err := os.MkdirAll(filepath.Join(pkgRoot, filepath.FromSlash(dir)), dirPermissions); err != nil {
			return fmt.Errorf("create skeleton dir %s: %w", dir, err)
		}
	}

	return nil
}

// installedSizeKiB measures the package payload (everything except control
// files) in kibibytes, the unit dpkg expects in Installed-Size.
func installedSizeKiB(pkgRoot string) (int64, error) {
	var total int64

	err := filepath.WalkDir(pkgRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if d.Name() == controlDir && filepath.Dir(path) == pkgRoot {
				return filepath.SkipDir
			}

			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return infoErr
		}

		total += info.Size()

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("measure installed size: %w", err)
	}

	return (total + kibibyte - 1) / kibibyte, nil
}
