// Package formatting provides the formatting plugin with its lint and prettier
// commands. Both run once per distinct module directory and, when invoked with
// the ci argument, first link the repository root dependency directory to the
// host module's installed packages.
package formatting
