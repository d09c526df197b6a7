// Package flags provides helpers for binding the shared workspace flags to
// Cobra commands and for rendering their usage text.
package flags
