// Package cli constructs the gahcheck command-line interface, wiring the
// Cobra command hierarchy, configuration loader, structured logging, and the
// plugin registry that backs the check commands.
package cli
