// Package fetch downloads the application image over HTTP(S), classifies
// transport failures by a fixed reason table, and refuses to report success
// unless the staged file exists, is non-empty and is executable.
package fetch
