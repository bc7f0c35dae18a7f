// Package converter orchestrates the conversion pipeline: environment
// probing, release resolution, image download, extraction, package tree
// assembly, package build and validation, strictly in that order.
//
// A single workspace owns every intermediate path; it is removed on every
// exit path (normal return, error, interrupt) exactly once unless the
// operator requested retention. Any stage failure is fatal to the whole run.
package converter
