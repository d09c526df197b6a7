// Package gitrepo contains helpers for interrogating Git repositories.
//
// It exposes RepositoryManager, which resolves the repository root that the
// continuous-integration linker uses as the shared dependency location.
package gitrepo
