package converter

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/cursor-deb/internal/config"
	"github.com/oshokin/cursor-deb/internal/logger"
	"github.com/oshokin/cursor-deb/internal/platform"
	"github.com/oshokin/cursor-deb/internal/service/assemble"
	"github.com/oshokin/cursor-deb/internal/service/build"
	"github.com/oshokin/cursor-deb/internal/service/extract"
	"github.com/oshokin/cursor-deb/internal/service/fetch"
	"github.com/oshokin/cursor-deb/internal/service/release"
	"github.com/oshokin/cursor-deb/internal/service/validate"
	"github.com/oshokin/cursor-deb/internal/workspace"
)

// requiredTools must be installed for the pipeline to run at all. rsync and
// fakeroot are probed separately: their absence only narrows strategies.
var requiredTools = []string{"dpkg-deb"}

// Options are inputs accepted by the converter entry point.
type Options struct {
	// Config is the resolved run configuration.
	Config *config.Config
	// Endpoint overrides the metadata endpoint. Empty means the default.
	Endpoint string
	// MetadataClient issues the metadata query. Nil gets a bounded default.
	MetadataClient *http.Client
	// DownloadClient streams the application image. Nil gets a bounded default.
	DownloadClient *http.Client
}

// runner holds the state of a single conversion. It is intentionally
// unexported; callers use Run(ctx, Options).
type runner struct {
	cfg *config.Config // Resolved operator choices, read-only.
	ws  *workspace.Layout
	// logPath is where the diagnostic log lives; surfaced on failure.
	logPath string

	metadataClient *http.Client
	downloadClient *http.Client
	endpoint       string
}

// Run executes the conversion pipeline and is the public entry point for the
// CLI. Every stage failure is fatal to the whole run: intermediate state is
// never resumed from, the operator re-runs the pipeline instead.
func Run(ctx context.Context, opts *Options) error {
	cfg := opts.Config
	if err := config.Validate(cfg); err != nil {
		return err
	}

	logPath, logFile, err := logger.OpenRunLog()
	if err != nil {
		return err
	}

	defer func() {
		_ = logFile.Close()
	}()

	runLogger := logger.NewWithFile(consoleLevel(cfg), logFile)
	logger.SetLogger(runLogger)
	ctx = logger.ToContext(ctx, runLogger.Named("cursor-deb"))

	r := &runner{
		cfg:            cfg,
		logPath:        logPath,
		metadataClient: opts.MetadataClient,
		downloadClient: opts.DownloadClient,
		endpoint:       opts.Endpoint,
	}

	if err = r.run(ctx); err != nil {
		logger.ErrorKV(ctx, "Conversion failed", "error", err)
		logger.Infof(ctx, "Full diagnostic log: %s", r.logPath)

		return err
	}

	logger.Info(ctx, "Conversion completed")

	return nil
}

// consoleLevel maps the quiet/verbose flags to the console log level.
// The diagnostic log always records at debug level regardless.
func consoleLevel(cfg *config.Config) zapcore.LevelEnabler {
	switch {
	case cfg.Quiet:
		return zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	case cfg.Verbose:
		return zap.NewAtomicLevelAt(zapcore.DebugLevel)
	default:
		return zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
}

// run drives the stages strictly forward; each stage's output is the next
// stage's input.
func (r *runner) run(ctx context.Context) error {
	warnIfAnotherInstance(ctx)

	arch, err := platform.DetectArchitecture()
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Host architecture detected", "arch", arch)

	if err = platform.CheckDependencies(requiredTools); err != nil {
		return err
	}

	copyStrategy := r.resolveCopyStrategy(ctx)

	ws, err := workspace.New()
	if err != nil {
		return err
	}

	r.ws = ws

	// Cleanup runs on every exit path. Interrupts cancel ctx, abort the
	// blocking stage and funnel through this same return path; the
	// workspace's internal once-guard keeps the removal single-shot.
	defer ws.Cleanup(ctx, r.cfg.KeepTemp)

	logger.DebugKV(ctx, "Workspace created", "path", ws.Root)

	info, err := release.NewResolver(r.endpoint, r.metadataClient).
		Resolve(ctx, r.cfg.PackageVersion)
	if err != nil {
		return fmt.Errorf("resolve release: %w", err)
	}

	imagePath, err := fetch.Download(ctx, r.downloadClient, info.DownloadURL, ws.Downloads, info.Version)
	if err != nil {
		return fmt.Errorf("fetch image: %w", err)
	}

	extractionRoot, err := extract.Extract(ctx, imagePath, ws.Extract)
	if err != nil {
		return fmt.Errorf("extract image: %w", err)
	}

	pkgRoot, err := assemble.Assemble(ctx, &assemble.Options{
		ExtractionRoot: extractionRoot,
		PkgRoot:        ws.PkgRoot,
		Version:        info.Version,
		Architecture:   arch,
		CopyStrategy:   copyStrategy,
	})
	if err != nil {
		return fmt.Errorf("assemble package tree: %w", err)
	}

	outputDir, err := r.ensureOutputDir()
	if err != nil {
		return err
	}

	artifact, err := build.Build(ctx, pkgRoot, outputDir, info.Version, arch, r.cfg.Jobs)
	if err != nil {
		return fmt.Errorf("build package: %w", err)
	}

	if err = validate.Validate(ctx, artifact, r.cfg.Verbose); err != nil {
		return fmt.Errorf("validate artifact: %w", err)
	}

	logger.InfoKV(ctx, "Artifact ready", "path", artifact)

	return nil
}

// resolveCopyStrategy downgrades rsync to the native copy when rsync is not
// installed. Both strategies produce equivalent trees, so the downgrade is
// safe and only worth a warning.
func (r *runner) resolveCopyStrategy(ctx context.Context) string {
	strategy := r.cfg.CopyStrategy
	if strategy == config.CopyStrategyRsync && !platform.HasTool("rsync") {
		logger.Warn(ctx, "rsync not installed, falling back to the native copy strategy")

		strategy = config.CopyStrategyNative
	}

	return strategy
}

// ensureOutputDir resolves the operator-chosen output directory to an
// absolute path and makes sure it exists.
func (r *runner) ensureOutputDir() (string, error) {
	outputDir, err := filepath.Abs(r.cfg.OutputDir)
	if err != nil {
		return "", fmt.Errorf("resolve output directory: %w", err)
	}

	if err = os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	return outputDir, nil
}
