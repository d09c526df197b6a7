// Package ui provides helpers for formatting human-readable console output.
//
// ConsoleProgressReporter prints the per-module status lines operators follow
// during lint and formatting runs, while ConsoleCommandEventLogger translates
// shell executor events into concise diagnostic messages.
package ui
