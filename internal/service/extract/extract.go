package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/oshokin/cursor-deb/internal/logger"
)

// extractionRootName is the directory the self-extraction facility produces.
const extractionRootName = "squashfs-root"

// ErrExtraction is returned when unpacking the image fails or yields nothing.
var ErrExtraction = errors.New("image extraction failed")

// Extract unpacks the image's embedded filesystem into workDir by invoking
// its self-extraction facility, and returns the produced extraction root.
// The image path and working directory are absolute; the process-wide working
// directory is never changed. An absent root after a clean exit is treated as
// fatal as a nonzero exit, since extraction tools can exit zero on corrupt
// input while producing no output.
func Extract(ctx context.Context, imagePath, workDir string) (string, error) {
	logger.InfoKV(ctx, "Extracting application image", "image", imagePath, "workdir", workDir)

	cmd := exec.CommandContext(ctx, imagePath, "--appimage-extract")
	cmd.Dir = workDir

	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%w: %s: %s", ErrExtraction, err, condense(output))
	}

	root := filepath.Join(workDir, extractionRootName)

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s missing after extraction", ErrExtraction, extractionRootName)
	}

	logger.InfoKV(ctx, "Image extracted", "root", root)

	return root, nil
}

// condense trims tool output down to something loggable.
func condense(output []byte) string {
	const maxLen = 512

	s := strings.TrimSpace(string(output))
	if len(s) > maxLen {
		s = s[:maxLen] + "..."
	}

	if s == "" {
		return "(no output)"
	}

	return s
}
