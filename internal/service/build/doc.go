// Package build invokes the native packaging tool against the staged package
// tree, with an ordered list of fallback strategies for sandboxed and
// compression-related failure classes.
package build
