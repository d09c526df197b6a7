// Package checks builds the Cobra commands that dispatch plugin checks across
// discovered modules, install plugins into the configuration file, and list
// the plugins known to the binary.
package checks
