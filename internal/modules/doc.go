// Package modules defines the module descriptors consumed by lint and
// formatting commands.
//
// It exposes Descriptor along with helpers that collapse modules aliasing the
// same base path and locate the host module of a workspace.
package modules
