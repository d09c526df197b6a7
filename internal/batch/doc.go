// Package batch runs one shell command per module of a workspace and folds
// the per-module outcomes into a single pass or fail result.
//
// Modules are processed strictly in order and a failing module never stops
// the remaining ones. Host modules are always skipped.
package batch
