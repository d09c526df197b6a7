package linkage

import "context"

// FileSystem exposes the file-system operations required by the linker.
type FileSystem interface {
	Join(pathElements ...string) string
	DirectoryExists(executionContext context.Context, directoryPath string) (bool, error)
	DeleteDirectoryRecursively(executionContext context.Context, directoryPath string) error
	CreateDirectoryLink(executionContext context.Context, linkPath string, targetPath string) error
}

// RepositoryRootResolver resolves the repository root containing a path.
type RepositoryRootResolver interface {
	GetRootDirectory(executionContext context.Context, repositoryPath string) (string, error)
}
