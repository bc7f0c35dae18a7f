package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Copy strategies accepted by the package assembler.
const (
	// CopyStrategyRsync copies the application tree with rsync -a.
	CopyStrategyRsync = "rsync"
	// CopyStrategyNative copies the application tree with a built-in recursive walk.
	CopyStrategyNative = "native"
)

// Config holds the resolved operator choices for a single conversion run.
// It is assembled once at startup from defaults, the optional YAML file and
// CLI overrides, and is read-only afterwards.
type Config struct {
	// KeepTemp retains the working directory after the run for inspection.
	KeepTemp bool `yaml:"keep_temp"`
	// Verbose lowers the console log level to debug.
	Verbose bool `yaml:"verbose"`
	// Quiet raises the console log level to error. File logging is unaffected.
	Quiet bool `yaml:"quiet"`
	// OutputDir is where the final .deb artifact is placed.
	OutputDir string `yaml:"output_dir"`
	// PackageVersion overrides the version label of the produced package.
	// The download URL resolved from the metadata endpoint is still used,
	// so the label and the fetched binary may diverge.
	PackageVersion string `yaml:"package_version"`
	// CopyStrategy selects how the extracted tree is copied into the package
	// tree: CopyStrategyRsync or CopyStrategyNative.
	CopyStrategy string `yaml:"copy_strategy"`
	// Jobs is an optional parallelism hint forwarded to the compression step.
	// Zero lets the tools decide.
	Jobs int `yaml:"jobs"`
}

const (
	// DefaultConfigFilename is the default filename for converter settings.
	DefaultConfigFilename = "cursor-deb-settings.yaml"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errQuietAndVerbose is returned when both console modes are requested.
	errQuietAndVerbose = errors.New("quiet and verbose are mutually exclusive")
	// errUnknownCopyStrategy is returned for a copy strategy outside the known set.
	errUnknownCopyStrategy = errors.New("unknown copy strategy")
	// errNegativeJobs is returned for a negative parallelism hint.
	errNegativeJobs = errors.New("jobs hint must not be negative")
)

// Default returns the configuration used when neither the YAML file nor CLI
// flags override anything: artifact in the current directory, rsync copy.
func Default() *Config {
	return &Config{
		OutputDir:    ".",
		CopyStrategy: CopyStrategyRsync,
	}
}

// Load reads configuration from the provided path on top of defaults and
// validates the result. An empty path means defaults only.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided configuration for contradictory or malformed
// fields and fills defaulted ones.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.Quiet && cfg.Verbose {
		return errQuietAndVerbose
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}

	if cfg.CopyStrategy == "" {
		cfg.CopyStrategy = CopyStrategyRsync
	}

	if cfg.CopyStrategy != CopyStrategyRsync && cfg.CopyStrategy != CopyStrategyNative {
		return fmt.Errorf("%w: %s", errUnknownCopyStrategy, cfg.CopyStrategy)
	}

	if cfg.Jobs < 0 {
		return errNegativeJobs
	}

	return nil
}
