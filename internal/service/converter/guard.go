package converter

import (
	"context"
	"os"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/cursor-deb/internal/logger"
)

// warnIfAnotherInstance looks for other running cursor-deb processes.
// Concurrent runs are safe because each allocates a uniquely-named workspace,
// so this is informational only: two runs racing on the same output directory
// is usually an operator mistake worth flagging.
func warnIfAnotherInstance(ctx context.Context) {
	processes, err := ps.Processes()
	if err != nil {
		logger.DebugKV(ctx, "Could not enumerate processes", "error", err)

		return
	}

	self := os.Getpid()

	for _, process := range processes {
		if process.Pid() == self {
			continue
		}

		if strings.HasPrefix(process.Executable(), "cursor-deb") {
			logger.WarnKV(ctx, "Another cursor-deb process appears to be running",
				"pid", process.Pid())

			return
		}
	}
}
