// Package workspace owns the per-run temporary directory layout: download
// staging, extraction root and package-tree staging. Cleanup is idempotent
// and honors the operator's keep-temp choice.
package workspace
