// Package workspace provides the file-system operations used to prepare a
// workspace before lint and formatting tools run.
package workspace
