package platform

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"go.uber.org/multierr"
)

// Architecture tags understood by dpkg.
const (
	// ArchAmd64 is the Debian tag for 64-bit x86 hosts.
	ArchAmd64 = "amd64"
	// ArchArm64 is the Debian tag for 64-bit ARM hosts.
	ArchArm64 = "arm64"
)

var (
	// ErrUnsupportedPlatform is returned for host architectures outside the known mapping.
	ErrUnsupportedPlatform = errors.New("unsupported architecture")
	// ErrMissingDependency is returned when a required external tool is not installed.
	ErrMissingDependency = errors.New("required tool not found")
)

// architectures maps host machine identifiers (Go and uname spellings) to
// Debian architecture tags. The set is closed on purpose: Cursor only ships
// Linux builds for these targets.
var architectures = map[string]string{
	"amd64":   ArchAmd64,
	"x86_64":  ArchAmd64,
	"arm64":   ArchArm64,
	"aarch64": ArchArm64,
}

// MapArchitecture translates a host machine identifier to a Debian
// architecture tag, or fails with ErrUnsupportedPlatform.
func MapArchitecture(ident string) (string, error) {
	tag, ok := architectures[ident]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, ident)
	}

	return tag, nil
}

// DetectArchitecture returns the Debian architecture tag of the current host.
func DetectArchitecture() (string, error) {
	return MapArchitecture(runtime.GOARCH)
}

// CheckDependencies verifies that every required external tool is resolvable
// on PATH. All missing tools are reported in a single combined error so the
// operator can install them in one go.
func CheckDependencies(requiredTools []string) error {
	var missing error

	for _, tool := range requiredTools {
		if _, err := exec.LookPath(tool); err != nil {
			missing = multierr.Append(missing, fmt.Errorf("%w: %s", ErrMissingDependency, tool))
		}
	}

	return missing
}

// HasTool reports whether an optional tool is resolvable on PATH.
// Used for fallback probes (rsync, fakeroot) whose absence only narrows
// strategy choices.
func HasTool(name string) bool {
	_, err := exec.LookPath(name)

	return err == nil
}
