// Package plugins defines the plugin lifecycle shared by the lint and
// formatting plugins: a catalog of installable plugin definitions, the command
// registry populated when plugins initialize, and the collaborators handed to
// plugins when they are built.
package plugins
