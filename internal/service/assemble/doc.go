// Package assemble stages the Debian package tree: the directory skeleton,
// the copied application tree, and the generated launcher, desktop entry,
// icon, control metadata and maintenance scripts.
//
// The application copy supports two interchangeable strategies (rsync and a
// built-in recursive copy) that produce equivalent trees.
package assemble
