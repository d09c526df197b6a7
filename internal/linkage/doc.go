// Package linkage prepares continuous-integration workspaces where dependency
// packages are installed only for the host module.
//
// PackageImportLinker replaces the repository root dependency directory with a
// symbolic link to the host module's copy so tools resolving packages from the
// root find them.
package linkage
