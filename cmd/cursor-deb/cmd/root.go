package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/cursor-deb/internal/config"
	"github.com/oshokin/cursor-deb/internal/service/converter"
	"github.com/oshokin/cursor-deb/internal/version"
)

var (
	// configPath to the optional configuration YAML file.
	configPath string

	// flags mirrors the CLI surface; values are merged into the loaded
	// configuration only when the operator actually set them.
	flags = config.Config{} //nolint:exhaustruct // Flags fill in below.

	// rootCmd represents the base command converting the Cursor AppImage
	// into a Debian package.
	rootCmd = &cobra.Command{
		Use:   "cursor-deb",
		Short: "Convert the latest Cursor IDE AppImage into a Debian package",
		Long: "cursor-deb downloads the latest Cursor IDE AppImage, unpacks it and " +
			"repackages it as an installable .deb with launcher, desktop entry, " +
			"icon and maintenance scripts.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Flags are parsed by now; later failures are pipeline
			// errors, not usage errors.
			cmd.SilenceUsage = true

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			applyFlagOverrides(cmd, cfg)

			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return converter.Run(ctx, &converter.Options{Config: cfg})
		},
	}
)

// applyFlagOverrides merges explicitly-set CLI flags over the loaded
// configuration, keeping the file's values for everything else.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("keep-temp") {
		cfg.KeepTemp = flags.KeepTemp
	}

	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = flags.Verbose
	}

	if cmd.Flags().Changed("quiet") {
		cfg.Quiet = flags.Quiet
	}

	if cmd.Flags().Changed("output-dir") {
		cfg.OutputDir = flags.OutputDir
	}

	if cmd.Flags().Changed("package-version") {
		cfg.PackageVersion = flags.PackageVersion
	}

	if cmd.Flags().Changed("copy-strategy") {
		cfg.CopyStrategy = flags.CopyStrategy
	}

	if cmd.Flags().Changed("jobs") {
		cfg.Jobs = flags.Jobs
	}
}

// Execute runs the cursor-deb CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to configuration file")
	rootCmd.Flags().BoolVarP(&flags.KeepTemp, "keep-temp", "k", false, "keep the temporary workspace after the run")
	rootCmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "show debug output on the console")
	rootCmd.Flags().BoolVarP(&flags.Quiet, "quiet", "q", false, "show only errors on the console")
	rootCmd.Flags().StringVarP(&flags.OutputDir, "output-dir", "o", ".", "directory for the produced .deb")
	rootCmd.Flags().StringVarP(&flags.PackageVersion, "package-version", "V", "",
		"override the package version label (the resolved download URL is still used)")
	rootCmd.Flags().StringVarP(&flags.CopyStrategy, "copy-strategy", "s", config.CopyStrategyRsync,
		"how to copy the extracted tree: rsync or native")
	rootCmd.Flags().IntVarP(&flags.Jobs, "jobs", "j", 0, "parallelism hint for the compression step (0 = auto)")
}
