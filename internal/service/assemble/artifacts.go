package assemble

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oshokin/cursor-deb/internal/logger"
)

// Dependencies the produced package declares. The list mirrors what the
// upstream Electron build links against.
var packageDepends = []string{
	"libgtk-3-0",
	"libnotify4",
	"libnss3",
	"libxss1",
	"libxtst6",
	"xdg-utils",
	"libatspi2.0-0",
	"libsecret-1-0",
}

// launcherScript execs the installed entry point. The sandbox flag is
// required because the entry point runs from /opt without the setuid helper;
// all invocation arguments are forwarded.
const launcherScript = `#!/bin/sh
exec ` + EntryPoint + ` --no-sandbox "$@"
`

// desktopEntry is the fixed-format menu record for the application.
const desktopEntry = `[Desktop Entry]
Name=Cursor
GenericName=Code Editor
Comment=The AI-first code editor
Exec=` + PackageName + ` %F
Icon=` + PackageName + `
Type=Application
Terminal=false
StartupNotify=true
StartupWMClass=Cursor
Categories=Development;IDE;TextEditor;
MimeType=text/plain;inode/directory;
`

// postinstScript fixes the entry point permission and refreshes desktop and
// icon caches. Every step is suppressed on failure: a missing cache tool must
// not break installation.
const postinstScript = `#!/bin/sh
set -e
chmod +x ` + EntryPoint + ` 2>/dev/null || true
update-desktop-database /usr/share/applications 2>/dev/null || true
gtk-update-icon-cache -q /usr/share/icons/hicolor 2>/dev/null || true
exit 0
`

// postrmScript refreshes caches on removal and deletes the install prefix on
// a full purge.
const postrmScript = `#!/bin/sh
set -e
update-desktop-database /usr/share/applications 2>/dev/null || true
gtk-update-icon-cache -q /usr/share/icons/hicolor 2>/dev/null || true
if [ "$1" = "purge" ]; then
    rm -rf ` + InstallPrefix + `
fi
exit 0
`

func writeLauncher(pkgRoot string) error {
	path := filepath.Join(pkgRoot, filepath.FromSlash(binDir), PackageName)
	if err := os.WriteFile(path, []byte(launcherScript), scriptPermissions); err != nil {
		return fmt.Errorf("write launcher: %w", err)
	}

	return nil
}

func writeDesktopEntry(pkgRoot string) error {
	path := filepath.Join(pkgRoot, filepath.FromSlash(applicationsDir), PackageName+".desktop")
	if err := os.WriteFile(path, []byte(desktopEntry), textPermissions); err != nil {
		return fmt.Errorf("write desktop entry: %w", err)
	}

	return nil
}

// writeControl generates the DEBIAN/control metadata record, including the
// measured installed size of the staged payload.
func writeControl(ctx context.Context, opts *Options) error {
	size, err := installedSizeKiB(opts.PkgRoot)
	if err != nil {
		return err
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Package: %s\n", PackageName)
	fmt.Fprintf(&b, "Version: %s\n", opts.Version)
	b.WriteString("Section: devel\n")
	b.WriteString("Priority: optional\n")
	fmt.Fprintf(&b, "Architecture: %s\n", opts.Architecture)
	fmt.Fprintf(&b, "Installed-Size: %d\n", size)
	fmt.Fprintf(&b, "Depends: %s\n", strings.Join(packageDepends, ", "))
	b.WriteString("Maintainer: Cursor Packaging <packaging@cursor.local>\n")
	b.WriteString("Homepage: https://www.cursor.com\n")
	b.WriteString("Description: AI-first code editor\n")
	b.WriteString(" Cursor repackaged from the official AppImage into a native\n")
	b.WriteString(" Debian package with launcher, desktop entry and icon.\n")

	path := filepath.Join(opts.PkgRoot, controlDir, "control")
	if err = os.WriteFile(path, []byte(b.String()), textPermissions); err != nil {
		return fmt.Errorf("write control: %w", err)
	}

	logger.DebugKV(ctx, "Control metadata written", "installed_size_kib", size)

	return nil
}

func writeMaintenanceScripts(pkgRoot string) error {
	scripts := map[string]string{
		"postinst": postinstScript,
		"postrm":   postrmScript,
	}

	for name, contents := range scripts {
		path := filepath.Join(pkgRoot, controlDir, name)
		if err := os.WriteFile(path, []byte(contents), scriptPermissions); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	return nil
}
