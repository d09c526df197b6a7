package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/viant/afs"
)

const (
	directoryExistsErrorTemplateConstant    = "failed to inspect %s: %w"
	directoryDeletionErrorTemplateConstant  = "failed to delete %s: %w"
	directoryLinkErrorTemplateConstant      = "failed to link %s to %s: %w"
	linkParentCreationErrorTemplateConstant = "failed to prepare parent directory for %s: %w"
	linkParentPermissionsConstant           = 0o755
)

// AFSFileSystem implements the workspace file-system operations on top of viant/afs,
// handling symbolic links directly so deletions never traverse into a link target.
type AFSFileSystem struct {
	storageService afs.Service
}

// NewAFSFileSystem constructs a file system backed by the default afs service.
func NewAFSFileSystem() *AFSFileSystem {
	return NewAFSFileSystemWithService(afs.New())
}

// NewAFSFileSystemWithService constructs a file system backed by the provided afs service.
func NewAFSFileSystemWithService(storageService afs.Service) *AFSFileSystem {
	if storageService == nil {
		storageService = afs.New()
	}
	return &AFSFileSystem{storageService: storageService}
}

// Join combines path elements using the host separator.
func (fileSystem *AFSFileSystem) Join(pathElements ...string) string {
	return filepath.Join(pathElements...)
}

// DirectoryExists reports whether a directory, or a link pointing at one, exists at the path.
func (fileSystem *AFSFileSystem) DirectoryExists(executionContext context.Context, directoryPath string) (bool, error) {
	if isLink, linkError := isSymbolicLink(directoryPath); linkError != nil {
		return false, fmt.Errorf(directoryExistsErrorTemplateConstant, directoryPath, linkError)
	} else if isLink {
		return true, nil
	}

	exists, existsError := fileSystem.storageService.Exists(executionContext, directoryPath)
	if existsError != nil {
		return false, fmt.Errorf(directoryExistsErrorTemplateConstant, directoryPath, existsError)
	}
	if !exists {
		return false, nil
	}

	storageObject, objectError := fileSystem.storageService.Object(executionContext, directoryPath)
	if objectError != nil {
		return false, fmt.Errorf(directoryExistsErrorTemplateConstant, directoryPath, objectError)
	}
	return storageObject.IsDir(), nil
}

// DeleteDirectoryRecursively removes the directory tree at the path; a symbolic link is unlinked without touching its target.
func (fileSystem *AFSFileSystem) DeleteDirectoryRecursively(executionContext context.Context, directoryPath string) error {
	isLink, linkError := isSymbolicLink(directoryPath)
	if linkError != nil {
		return fmt.Errorf(directoryDeletionErrorTemplateConstant, directoryPath, linkError)
	}
	if isLink {
		if removeError := os.Remove(directoryPath); removeError != nil {
			return fmt.Errorf(directoryDeletionErrorTemplateConstant, directoryPath, removeError)
		}
		return nil
	}

	if deleteError := fileSystem.storageService.Delete(executionContext, directoryPath); deleteError != nil {
		return fmt.Errorf(directoryDeletionErrorTemplateConstant, directoryPath, deleteError)
	}
	return nil
}

// CreateDirectoryLink creates a directory symbolic link at linkPath pointing to targetPath.
func (fileSystem *AFSFileSystem) CreateDirectoryLink(executionContext context.Context, linkPath string, targetPath string) error {
	if mkdirError := os.MkdirAll(filepath.Dir(linkPath), linkParentPermissionsConstant); mkdirError != nil {
		return fmt.Errorf(linkParentCreationErrorTemplateConstant, linkPath, mkdirError)
	}
	if symlinkError := os.Symlink(targetPath, linkPath); symlinkError != nil {
		return fmt.Errorf(directoryLinkErrorTemplateConstant, linkPath, targetPath, symlinkError)
	}
	return nil
}

func isSymbolicLink(candidatePath string) (bool, error) {
	fileInfo, statError := os.Lstat(candidatePath)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return false, nil
		}
		return false, statError
	}
	return fileInfo.Mode()&fs.ModeSymlink != 0, nil
}
