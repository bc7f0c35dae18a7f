// Package platform probes the host environment: it maps machine identifiers
// to Debian architecture tags and verifies required external tools exist
// before the pipeline starts doing real work.
package platform
