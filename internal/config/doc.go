// Package config defines the operator-facing settings for a conversion run
// and provides helpers to load, validate and save them in YAML format.
//
// Resolution order is defaults, then the optional settings file, then CLI
// flags; the resulting Config is treated as immutable by the pipeline.
package config
