// Package validate performs the post-build structural check of the produced
// artifact using the packaging tool's own metadata-read operation.
package validate
