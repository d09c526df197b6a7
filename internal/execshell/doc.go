// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging and timeouts via ShellExecutor, exposes
// OSCommandRunner for default process execution with optional live output
// mirroring, and defines the abstractions gahcheck uses to run git and the
// configured lint and formatting scripts in a testable manner.
package execshell
